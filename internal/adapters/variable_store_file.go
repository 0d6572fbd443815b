package adapters

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"resonance-vars/internal/ports"
	"resonance-vars/internal/types"
)

const (
	DefaultStoreFileName   = "resonance-store.json"
	collectionVariablesKey = "collectionVariables"
)

// VariableStoreFileAdapter keeps collection variables under the
// "collectionVariables" key of a JSON store file. Other top-level keys are
// carried through untouched.
type VariableStoreFileAdapter struct {
	Path string
	mu   sync.Mutex
}

func NewVariableStoreFileAdapter(path string) *VariableStoreFileAdapter {
	return &VariableStoreFileAdapter{Path: path}
}

type storeDocument struct {
	entries   map[string]json.RawMessage
	variables map[string]types.VariableSet
}

func (a *VariableStoreFileAdapter) GetVariablesForCollection(ctx context.Context, collectionID string) (types.VariableSet, error) {
	if err := checkCollectionCall(ctx, collectionID); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	doc, err := a.load()
	if err != nil {
		return nil, err
	}
	return doc.variables[collectionID].Clone(), nil
}

func (a *VariableStoreFileAdapter) SetVariable(ctx context.Context, collectionID string, name string, value string) error {
	if err := checkCollectionCall(ctx, collectionID); err != nil {
		return err
	}
	return a.update(func(doc *storeDocument) {
		vars := doc.variables[collectionID]
		if vars == nil {
			vars = types.VariableSet{}
			doc.variables[collectionID] = vars
		}
		vars[name] = value
	})
}

func (a *VariableStoreFileAdapter) DeleteVariable(ctx context.Context, collectionID string, name string) error {
	if err := checkCollectionCall(ctx, collectionID); err != nil {
		return err
	}
	return a.update(func(doc *storeDocument) {
		if vars, ok := doc.variables[collectionID]; ok {
			delete(vars, name)
		}
	})
}

func (a *VariableStoreFileAdapter) SetVariablesForCollection(ctx context.Context, collectionID string, vars types.VariableSet) error {
	if err := checkCollectionCall(ctx, collectionID); err != nil {
		return err
	}
	return a.update(func(doc *storeDocument) {
		doc.variables[collectionID] = vars.Clone()
	})
}

func (a *VariableStoreFileAdapter) DeleteAllVariablesForCollection(ctx context.Context, collectionID string) error {
	if err := checkCollectionCall(ctx, collectionID); err != nil {
		return err
	}
	return a.update(func(doc *storeDocument) {
		delete(doc.variables, collectionID)
	})
}

func (a *VariableStoreFileAdapter) update(mutate func(doc *storeDocument)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	doc, err := a.load()
	if err != nil {
		return err
	}
	mutate(&doc)
	return a.save(doc)
}

func (a *VariableStoreFileAdapter) load() (storeDocument, error) {
	doc := storeDocument{
		entries:   map[string]json.RawMessage{},
		variables: map[string]types.VariableSet{},
	}
	if strings.TrimSpace(a.Path) == "" {
		return doc, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("variable store path is empty")
	}
	data, err := os.ReadFile(a.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read variable store").
			WithCause(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc.entries); err != nil {
		return doc, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid variable store format").
			WithCause(err)
	}
	if doc.entries == nil {
		doc.entries = map[string]json.RawMessage{}
	}
	raw, ok := doc.entries[collectionVariablesKey]
	if !ok {
		return doc, nil
	}
	trimmed := bytes.TrimSpace(raw)
	// An empty list or null stands for "no variables yet".
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return doc, nil
	}
	if err := json.Unmarshal(trimmed, &doc.variables); err != nil {
		return doc, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid collection variables format").
			WithCause(err)
	}
	if doc.variables == nil {
		doc.variables = map[string]types.VariableSet{}
	}
	return doc, nil
}

func (a *VariableStoreFileAdapter) save(doc storeDocument) error {
	encoded, err := json.Marshal(doc.variables)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode collection variables").
			WithCause(err)
	}
	doc.entries[collectionVariablesKey] = encoded
	data, err := json.MarshalIndent(doc.entries, "", "  ")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode variable store").
			WithCause(err)
	}
	if err := writeFileAtomic(a.Path, append(data, '\n')); err != nil {
		return err
	}
	log.Debug().Str("path", a.Path).Int("collections", len(doc.variables)).Msg("variable store saved")
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create variable store directory").
			WithCause(err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create temporary store file").
			WithCause(err)
	}
	tmpPath := tmp.Name()
	// CreateTemp uses 0600; carry over the mode of the file being replaced.
	if info, statErr := os.Stat(path); statErr == nil {
		if err := tmp.Chmod(info.Mode().Perm()); err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to set variable store permissions").
				WithCause(err)
		}
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write variable store").
			WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write variable store").
			WithCause(err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to replace variable store").
			WithCause(err)
	}
	return nil
}

func checkCollectionCall(ctx context.Context, collectionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(collectionID) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("collection id is empty")
	}
	return nil
}

var _ ports.VariableRepositoryPort = (*VariableStoreFileAdapter)(nil)
