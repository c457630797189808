package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/types"
)

func testLogger() log.Logger {
	return log.NewLogger(log.DiscardHandler())
}

func writeScenario(t *testing.T, root, suite, name, content string) {
	t.Helper()
	casesDir := filepath.Join(root, suite, CasesDirName)
	require.NoError(t, os.MkdirAll(casesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(casesDir, name), []byte(content), 0o644))
}

func newTestStore(t *testing.T, root string) *Store {
	t.Helper()
	store, err := NewStore(Config{Log: testLogger(), RootDir: root})
	require.NoError(t, err)
	return store
}

func TestNewStore_InvalidRoot(t *testing.T) {
	_, err := NewStore(Config{Log: testLogger(), RootDir: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)

	_, err = NewStore(Config{Log: testLogger(), RootDir: ""})
	require.Error(t, err)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = NewStore(Config{Log: testLogger(), RootDir: file})
	require.Error(t, err)
}

func TestSuites_SortedDirectoriesOnly(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "orders"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "billing"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("x"), 0o644))

	store := newTestStore(t, root)
	suites, err := store.Suites()
	require.NoError(t, err)
	assert.Equal(t, []string{"billing", "orders"}, suites)

	assert.True(t, store.HasSuite("orders"))
	assert.False(t, store.HasSuite("README.md"))
	assert.False(t, store.HasSuite("missing"))
}

func TestScenarios_SuiteSentinels(t *testing.T) {
	root := t.TempDir()
	store := newTestStore(t, root)

	_, _, err := store.Scenarios("missing")
	assert.ErrorIs(t, err, ErrSuiteNotFound)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "nocases"), 0o755))
	_, _, err = store.Scenarios("nocases")
	assert.ErrorIs(t, err, ErrNoCaseDir)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty", CasesDirName), 0o755))
	_, _, err = store.Scenarios("empty")
	assert.ErrorIs(t, err, ErrNoScenarios)
}

func TestScenarios_LoadsAndOrders(t *testing.T) {
	root := t.TempDir()
	writeScenario(t, root, "orders", "b_case.json", `{"input": {"item": "b"}}`)
	writeScenario(t, root, "orders", "a_case.json", `{"input": {"item": "a"}, "description": "first case"}`)

	store := newTestStore(t, root)
	scenarios, invalid, err := store.Scenarios("orders")
	require.NoError(t, err)
	require.Empty(t, invalid)
	require.Len(t, scenarios, 2)

	assert.Equal(t, "a_case", scenarios[0].Name)
	assert.Equal(t, "b_case", scenarios[1].Name)
	assert.Equal(t, "orders", scenarios[0].Suite)
	assert.Equal(t, "first case", scenarios[0].Description)
	assert.Equal(t, map[string]any{"item": "a"}, scenarios[0].Input)
	assert.Equal(t, "a-case", scenarios[0].DisplayName())
}

func TestScenarios_InvalidFilesDoNotBlockValidOnes(t *testing.T) {
	root := t.TempDir()
	writeScenario(t, root, "orders", "good.json", `{"input": {}}`)
	writeScenario(t, root, "orders", "broken.json", `{not json`)
	writeScenario(t, root, "orders", "noinput.json", `{"expected": {"ok": true}}`)

	store := newTestStore(t, root)
	scenarios, invalid, err := store.Scenarios("orders")
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "good", scenarios[0].Name)

	require.Len(t, invalid, 2)
	byName := map[string]Invalid{}
	for _, inv := range invalid {
		byName[inv.Name] = inv
	}
	assert.ErrorIs(t, byName["broken"].Err, ErrMalformedScenario)
	assert.ErrorIs(t, byName["noinput"].Err, ErrMissingInput)
}

func TestScenarios_ExpectationResolution(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    types.Expectation
	}{
		{
			name:    "no blocks means any",
			content: `{"input": {}}`,
			want:    types.Expectation{Kind: types.ExpectAny},
		},
		{
			name:    "expected block means success",
			content: `{"input": {}, "expected": {"statusCode": 200}}`,
			want: types.Expectation{
				Kind:   types.ExpectSuccess,
				Output: map[string]any{"statusCode": float64(200)},
			},
		},
		{
			name:    "error block means failure",
			content: `{"input": {}, "error": {"Error": "ValidationException", "Cause": "quantidade"}}`,
			want: types.Expectation{
				Kind:          types.ExpectFailure,
				ErrorType:     "ValidationException",
				CauseContains: "quantidade",
			},
		},
		{
			name:    "error block wins over expected",
			content: `{"input": {}, "expected": {"ok": true}, "error": {"Error": "Boom"}}`,
			want: types.Expectation{
				Kind:      types.ExpectFailure,
				ErrorType: "Boom",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeScenario(t, root, "suite", "case.json", tt.content)
			store := newTestStore(t, root)

			scenarios, invalid, err := store.Scenarios("suite")
			require.NoError(t, err)
			require.Empty(t, invalid)
			require.Len(t, scenarios, 1)
			assert.Equal(t, tt.want, scenarios[0].Expect)
		})
	}
}
