package app

import (
	"context"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"resonance-vars/internal/types"
)

type fakeRepository struct {
	mu      sync.Mutex
	sets    map[string]types.VariableSet
	getErr  error
	setErr  error
	delErr  error
	reads   int
	writes  int
	deletes int
}

func newFakeRepository(initial map[string]types.VariableSet) *fakeRepository {
	sets := map[string]types.VariableSet{}
	for id, vars := range initial {
		sets[id] = vars.Clone()
	}
	return &fakeRepository{sets: sets}
}

func (f *fakeRepository) GetVariablesForCollection(_ context.Context, collectionID string) (types.VariableSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.sets[collectionID].Clone(), nil
}

func (f *fakeRepository) SetVariable(_ context.Context, collectionID string, name string, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.setErr != nil {
		return f.setErr
	}
	if f.sets[collectionID] == nil {
		f.sets[collectionID] = types.VariableSet{}
	}
	f.sets[collectionID][name] = value
	return nil
}

func (f *fakeRepository) DeleteVariable(_ context.Context, collectionID string, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.sets[collectionID], name)
	return nil
}

func (f *fakeRepository) SetVariablesForCollection(_ context.Context, collectionID string, vars types.VariableSet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.setErr != nil {
		return f.setErr
	}
	f.sets[collectionID] = vars.Clone()
	return nil
}

func (f *fakeRepository) DeleteAllVariablesForCollection(_ context.Context, collectionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.sets, collectionID)
	return nil
}

func (f *fakeRepository) stored(collectionID string) types.VariableSet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets[collectionID].Clone()
}

type statusUpdate struct {
	Message string
	Code    types.StatusCode
}

type recordingStatus struct {
	mu      sync.Mutex
	updates []statusUpdate
}

func (r *recordingStatus) Update(message string, code types.StatusCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, statusUpdate{Message: message, Code: code})
}

func (r *recordingStatus) last() statusUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.updates) == 0 {
		return statusUpdate{}
	}
	return r.updates[len(r.updates)-1]
}

func storeDown() error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("store unavailable")
}

func newTestService(repo *fakeRepository) (Service, *recordingStatus) {
	status := &recordingStatus{}
	return NewService(repo, status), status
}
