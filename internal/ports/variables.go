package ports

import (
	"context"

	"resonance-vars/internal/types"
)

// VariableRepositoryPort persists collection variable sets. Each call either
// fully succeeds or fully fails.
type VariableRepositoryPort interface {
	GetVariablesForCollection(ctx context.Context, collectionID string) (types.VariableSet, error)
	SetVariable(ctx context.Context, collectionID string, name string, value string) error
	DeleteVariable(ctx context.Context, collectionID string, name string) error
	SetVariablesForCollection(ctx context.Context, collectionID string, vars types.VariableSet) error
	DeleteAllVariablesForCollection(ctx context.Context, collectionID string) error
}
