package app

import (
	"errors"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resonance-vars/internal/types"
)

func TestGetVariablesForCollection(t *testing.T) {
	repo := newFakeRepository(map[string]types.VariableSet{"c1": {"apiKey": "k"}})
	service, _ := newTestService(repo)

	vars, err := service.GetVariablesForCollection(t.Context(), "c1")
	require.NoError(t, err)
	assert.Equal(t, types.VariableSet{"apiKey": "k"}, vars)

	vars, err = service.GetVariablesForCollection(t.Context(), "unknown")
	require.NoError(t, err)
	assert.NotNil(t, vars)
	assert.Empty(t, vars)
}

func TestGetVariablesForCollectionFailure(t *testing.T) {
	repo := newFakeRepository(nil)
	repo.getErr = storeDown()
	service, status := newTestService(repo)

	_, err := service.GetVariablesForCollection(t.Context(), "c1")
	require.Error(t, err)

	var repoErr *types.RepositoryError
	require.True(t, errors.As(err, &repoErr))
	assert.Equal(t, "get", repoErr.Op)
	assert.Equal(t, "c1", repoErr.CollectionID)
	assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(repoErr.Err))

	last := status.last()
	assert.Equal(t, types.StatusCodeStoreFailure, last.Code)
	assert.Contains(t, last.Message, "Failed to load variables")
}

func TestSetVariable(t *testing.T) {
	repo := newFakeRepository(nil)
	service, status := newTestService(repo)

	require.NoError(t, service.SetVariable(t.Context(), "c1", "baseUrl", "api.example.com"))
	assert.Equal(t, types.VariableSet{"baseUrl": "api.example.com"}, repo.stored("c1"))
	assert.Equal(t, statusUpdate{Message: `Variable "baseUrl" saved`, Code: types.StatusCodeNone}, status.last())
}

func TestSetVariableRejectsInvalidNameBeforeIO(t *testing.T) {
	for _, name := range []string{"", "1abc", "ab-c", "has space"} {
		t.Run(name, func(t *testing.T) {
			repo := newFakeRepository(nil)
			service, status := newTestService(repo)

			err := service.SetVariable(t.Context(), "c1", name, "v")
			var invalid *types.InvalidNameError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, name, invalid.Name)
			assert.Zero(t, repo.reads+repo.writes+repo.deletes, "repository must not be touched")
			assert.Equal(t, types.StatusCodeInvalidInput, status.last().Code)
		})
	}
}

func TestSetVariableRepositoryFailure(t *testing.T) {
	repo := newFakeRepository(nil)
	repo.setErr = storeDown()
	service, status := newTestService(repo)

	err := service.SetVariable(t.Context(), "c1", "token", "v")
	var repoErr *types.RepositoryError
	require.True(t, errors.As(err, &repoErr))
	assert.Equal(t, "set", repoErr.Op)
	assert.Equal(t, types.StatusCodeStoreFailure, status.last().Code)
}

func TestDeleteVariable(t *testing.T) {
	repo := newFakeRepository(map[string]types.VariableSet{"c1": {"a": "1", "b": "2"}})
	service, _ := newTestService(repo)

	require.NoError(t, service.DeleteVariable(t.Context(), "c1", "a"))
	assert.Equal(t, types.VariableSet{"b": "2"}, repo.stored("c1"))

	repo.delErr = storeDown()
	err := service.DeleteVariable(t.Context(), "c1", "b")
	var repoErr *types.RepositoryError
	require.True(t, errors.As(err, &repoErr))
	assert.Equal(t, "delete", repoErr.Op)
}

func TestSetMultipleVariables(t *testing.T) {
	repo := newFakeRepository(map[string]types.VariableSet{"c1": {"old": "x"}})
	service, _ := newTestService(repo)

	input := types.VariableSet{"apiKey": "k", "baseUrl": "u"}
	require.NoError(t, service.SetMultipleVariables(t.Context(), "c1", input))
	assert.Equal(t, 1, repo.writes)
	if diff := cmp.Diff(input, repo.stored("c1")); diff != "" {
		t.Fatalf("unexpected stored set (-want +got):\n%s", diff)
	}
}

func TestSetMultipleVariablesIsAtomicOnInvalidName(t *testing.T) {
	repo := newFakeRepository(nil)
	service, _ := newTestService(repo)

	err := service.SetMultipleVariables(t.Context(), "c1", types.VariableSet{"apiKey": "k", "1bad": "v"})
	var invalid *types.InvalidNameError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "1bad", invalid.Name)
	assert.Contains(t, err.Error(), "1bad")
	assert.Zero(t, repo.writes)
	assert.Empty(t, repo.stored("c1"))
}

func TestExportVariables(t *testing.T) {
	repo := newFakeRepository(map[string]types.VariableSet{"c1": {"a": "1"}})
	service, _ := newTestService(repo)

	vars, err := service.ExportVariables(t.Context(), "c1")
	require.NoError(t, err)
	assert.Equal(t, types.VariableSet{"a": "1"}, vars)

	repo.getErr = storeDown()
	vars, err = service.ExportVariables(t.Context(), "c1")
	require.Error(t, err)
	assert.Nil(t, vars)
	var repoErr *types.RepositoryError
	require.True(t, errors.As(err, &repoErr))
	assert.Equal(t, "export", repoErr.Op)
}

func TestImportVariables(t *testing.T) {
	tests := []struct {
		name  string
		merge bool
		want  types.VariableSet
		reads int
	}{
		{name: "merge", merge: true, want: types.VariableSet{"apiKey": "old", "baseUrl": "new"}, reads: 1},
		{name: "replace", merge: false, want: types.VariableSet{"baseUrl": "new"}, reads: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository(map[string]types.VariableSet{"c1": {"apiKey": "old"}})
			service, status := newTestService(repo)

			persisted, err := service.ImportVariables(t.Context(), "c1", types.VariableSet{"baseUrl": "new"}, tt.merge)
			require.NoError(t, err)
			assert.Equal(t, tt.want, persisted)
			assert.Equal(t, tt.want, repo.stored("c1"))
			assert.Equal(t, 1, repo.writes, "exactly one bulk write")
			assert.Equal(t, tt.reads, repo.reads)
			assert.Equal(t, "Imported 1 variables", status.last().Message)
		})
	}
}

func TestImportVariablesMergeOverridesCollisions(t *testing.T) {
	repo := newFakeRepository(map[string]types.VariableSet{"c1": {"apiKey": "old", "host": "a"}})
	service, _ := newTestService(repo)

	_, err := service.ImportVariables(t.Context(), "c1", types.VariableSet{"apiKey": "new"}, true)
	require.NoError(t, err)
	assert.Equal(t, types.VariableSet{"apiKey": "new", "host": "a"}, repo.stored("c1"))
}

func TestImportVariablesValidatesBeforeAnyIO(t *testing.T) {
	repo := newFakeRepository(map[string]types.VariableSet{"c1": {"apiKey": "old"}})
	service, _ := newTestService(repo)

	_, err := service.ImportVariables(t.Context(), "c1", types.VariableSet{"good": "1", "bad-name": "2"}, true)
	var invalid *types.InvalidNameError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "bad-name", invalid.Name)
	assert.Zero(t, repo.reads)
	assert.Zero(t, repo.writes)
	assert.Equal(t, types.VariableSet{"apiKey": "old"}, repo.stored("c1"))
}

func TestImportVariablesMergeReadFailure(t *testing.T) {
	repo := newFakeRepository(map[string]types.VariableSet{"c1": {"apiKey": "old"}})
	repo.getErr = storeDown()
	service, _ := newTestService(repo)

	_, err := service.ImportVariables(t.Context(), "c1", types.VariableSet{"baseUrl": "new"}, true)
	var repoErr *types.RepositoryError
	require.True(t, errors.As(err, &repoErr))
	assert.Equal(t, "import", repoErr.Op)
	assert.Zero(t, repo.writes)
}
