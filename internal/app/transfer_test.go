package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resonance-vars/internal/types"
)

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportVariablesFile(t *testing.T) {
	path := writeFile(t, "vars.yaml", "baseUrl: new\nport: 8080\n")
	repo := newFakeRepository(map[string]types.VariableSet{"c1": {"apiKey": "old"}})
	service, _ := newTestService(repo)

	result, err := service.ImportVariablesFile(t.Context(), ImportFileRequest{CollectionID: "c1", Path: path, Merge: true})
	require.NoError(t, err)
	want := types.VariableSet{"apiKey": "old", "baseUrl": "new", "port": "8080"}
	assert.Equal(t, want, result.Variables)
	assert.Equal(t, want, repo.stored("c1"))
}

func TestImportVariablesFilePostman(t *testing.T) {
	path := writeFile(t, "dev.postman_environment.json", `{
  "name": "dev",
  "values": [
    {"key": "baseUrl", "value": "api.dev", "enabled": true},
    {"key": "count", "value": 3}
  ]
}`)
	repo := newFakeRepository(map[string]types.VariableSet{"c1": {"apiKey": "old"}})
	service, _ := newTestService(repo)

	result, err := service.ImportVariablesFile(t.Context(), ImportFileRequest{CollectionID: "c1", Path: path})
	require.NoError(t, err)
	assert.Equal(t, types.VariableSet{"baseUrl": "api.dev"}, result.Variables)
}

func TestImportVariablesFileErrors(t *testing.T) {
	service, status := newTestService(newFakeRepository(nil))

	_, err := service.ImportVariablesFile(t.Context(), ImportFileRequest{Path: "x.yaml"})
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = service.ImportVariablesFile(t.Context(), ImportFileRequest{CollectionID: "c1"})
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = service.ImportVariablesFile(t.Context(), ImportFileRequest{
		CollectionID: "c1",
		Path:         filepath.Join(t.TempDir(), "missing.yaml"),
	})
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.Equal(t, types.StatusCodeInvalidInput, status.last().Code)
}

func TestExportVariablesFileToPath(t *testing.T) {
	repo := newFakeRepository(map[string]types.VariableSet{"c1": {"b": "2", "a": "1"}})
	service, _ := newTestService(repo)
	path := filepath.Join(t.TempDir(), "out", "vars.json")

	result, err := service.ExportVariablesFile(t.Context(), ExportFileRequest{CollectionID: "c1", Path: path})
	require.NoError(t, err)
	assert.Equal(t, path, result.Path)
	assert.Equal(t, 2, result.Count)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"1","b":"2"}`, string(data))
}

func TestExportVariablesFileToBytes(t *testing.T) {
	repo := newFakeRepository(map[string]types.VariableSet{"c1": {"a": "1"}})
	service, _ := newTestService(repo)

	result, err := service.ExportVariablesFile(t.Context(), ExportFileRequest{CollectionID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "a: \"1\"\n", string(result.Data))
	assert.Empty(t, result.Path)
}

func TestExportVariablesFileRepositoryFailure(t *testing.T) {
	repo := newFakeRepository(nil)
	repo.getErr = storeDown()
	service, _ := newTestService(repo)

	_, err := service.ExportVariablesFile(t.Context(), ExportFileRequest{CollectionID: "c1"})
	var repoErr *types.RepositoryError
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, "export", repoErr.Op)
}

func TestResolveRequestFile(t *testing.T) {
	path := writeFile(t, "request.jsonc", `{
  // endpoint
  "url": "https://{{baseUrl}}/v1",
  "auth": "{{token}}"
}`)
	repo := newFakeRepository(map[string]types.VariableSet{"c1": {"baseUrl": "api.example.com"}})
	service, _ := newTestService(repo)

	result, err := service.ResolveRequestFile(t.Context(), ResolveRequestFileRequest{CollectionID: "c1", Path: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"token"}, result.Unresolved)
	url, ok := result.Resolved.Get("url")
	require.True(t, ok)
	assert.Equal(t, "https://api.example.com/v1", url.Str)
	assert.Equal(t, "{\n  \"url\": \"https://api.example.com/v1\",\n  \"auth\": \"{{token}}\"\n}\n", string(result.Data))
}

func TestUsedVariablesFile(t *testing.T) {
	path := writeFile(t, "request.yaml", "url: https://{{host}}/{{path}}\nbody:\n  id: '{{ id }}'\n")
	service := NewService(nil, nil)

	names, err := service.UsedVariablesFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"host", "id", "path"}, names)

	_, err = service.UsedVariablesFile("")
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
