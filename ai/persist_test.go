package ai

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveScenarios(t *testing.T) {
	root := t.TempDir()
	scenarios := []GeneratedScenario{
		{
			Description: "Create Order OK",
			Input:       map[string]any{"item": "widget", "quantity": float64(2)},
			Expected:    map[string]any{"statusCode": float64(200)},
		},
		{
			Input: map[string]any{"quantity": float64(-1)},
			Error: &ErrorBlock{Error: "ValidationException", Cause: "quantidade"},
		},
	}

	paths, err := SaveScenarios(root, "orders", scenarios)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, filepath.Join(root, "orders", "cases", "create_order_ok.json"), paths[0])
	assert.Equal(t, filepath.Join(root, "orders", "cases", "scenario_2.json"), paths[1])

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Create Order OK", doc["description"])
	assert.Equal(t, map[string]any{"item": "widget", "quantity": float64(2)}, doc["input"])

	data, err = os.ReadFile(paths[1])
	require.NoError(t, err)
	doc = nil
	require.NoError(t, json.Unmarshal(data, &doc))
	errBlock, ok := doc["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ValidationException", errBlock["Error"])
	assert.NotContains(t, doc, "description")
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Create Order OK", "create_order_ok"},
		{"  spaced  out  ", "spaced__out"},
		{"éàccénts", "éàccénts"},
		{"punct!@#uation", "punctuation"},
		{"", "scenario"},
		{"!!!", "scenario"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), "slugify(%q)", tt.in)
	}
}

func TestSlugify_Truncates(t *testing.T) {
	long := ""
	for i := 0; i < 20; i++ {
		long += "abcdefghij"
	}
	slug := slugify(long)
	assert.Len(t, slug, maxSlugLen)
}
