package app

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"resonance-vars/internal/policies"
	"resonance-vars/internal/types"
)

// The operations in this file are strict: validation and repository failures
// are reported to the status sink and then returned to the caller.

func (s Service) GetVariablesForCollection(ctx context.Context, collectionID string) (types.VariableSet, error) {
	vars, err := s.load(ctx, collectionID)
	if err != nil {
		return nil, s.repositoryFailure(ctx, "get", collectionID, "Failed to load variables", err)
	}
	return vars, nil
}

// SetVariable validates name before touching the repository.
func (s Service) SetVariable(ctx context.Context, collectionID string, name string, value string) error {
	if err := s.Names.Validate(name); err != nil {
		return s.invalidName(err)
	}
	unlock := s.lockCollection(collectionID)
	defer unlock()
	if err := s.Variables.SetVariable(ctx, collectionID, name, value); err != nil {
		return s.repositoryFailure(ctx, "set", collectionID, "Failed to save variable", err)
	}
	s.report(fmt.Sprintf("Variable %q saved", name), types.StatusCodeNone)
	log.Ctx(ctx).Debug().Str("collection", collectionID).Str("variable", name).Msg("variable saved")
	return nil
}

func (s Service) DeleteVariable(ctx context.Context, collectionID string, name string) error {
	unlock := s.lockCollection(collectionID)
	defer unlock()
	if err := s.Variables.DeleteVariable(ctx, collectionID, name); err != nil {
		return s.repositoryFailure(ctx, "delete", collectionID, "Failed to delete variable", err)
	}
	s.report(fmt.Sprintf("Variable %q deleted", name), types.StatusCodeNone)
	log.Ctx(ctx).Debug().Str("collection", collectionID).Str("variable", name).Msg("variable deleted")
	return nil
}

// SetMultipleVariables validates every name up front and then replaces the
// collection's set with vars in a single bulk write. One invalid name means
// nothing is written.
func (s Service) SetMultipleVariables(ctx context.Context, collectionID string, vars types.VariableSet) error {
	if err := s.Names.ValidateAll(vars); err != nil {
		return s.invalidName(err)
	}
	unlock := s.lockCollection(collectionID)
	defer unlock()
	if err := s.Variables.SetVariablesForCollection(ctx, collectionID, vars.Clone()); err != nil {
		return s.repositoryFailure(ctx, "set-many", collectionID, "Failed to save variables", err)
	}
	s.report(fmt.Sprintf("%d variables saved", len(vars)), types.StatusCodeNone)
	log.Ctx(ctx).Debug().Str("collection", collectionID).Int("variables", len(vars)).Msg("variables saved")
	return nil
}

// ExportVariables returns the stored set for collectionID. Failures are
// returned rather than masked by an empty set.
func (s Service) ExportVariables(ctx context.Context, collectionID string) (types.VariableSet, error) {
	vars, err := s.load(ctx, collectionID)
	if err != nil {
		return nil, s.repositoryFailure(ctx, "export", collectionID, "Failed to export variables", err)
	}
	return vars, nil
}

// ImportVariables validates all incoming names before any read or write. With
// merge the stored set is the base and incoming values win on collision;
// without merge the incoming set replaces the stored one. Exactly one bulk
// write happens on success and the persisted set is returned.
func (s Service) ImportVariables(ctx context.Context, collectionID string, vars types.VariableSet, merge bool) (types.VariableSet, error) {
	if err := s.Names.ValidateAll(vars); err != nil {
		return nil, s.invalidName(err)
	}
	unlock := s.lockCollection(collectionID)
	defer unlock()

	mode := policies.ImportModeFor(merge)
	existing := types.VariableSet{}
	if mode == policies.ImportModeMerge {
		loaded, err := s.load(ctx, collectionID)
		if err != nil {
			return nil, s.repositoryFailure(ctx, "import", collectionID, "Failed to import variables", err)
		}
		existing = loaded
	}
	persisted := policies.ApplyImport(mode, existing, vars)
	if err := s.Variables.SetVariablesForCollection(ctx, collectionID, persisted.Clone()); err != nil {
		return nil, s.repositoryFailure(ctx, "import", collectionID, "Failed to import variables", err)
	}
	s.report(fmt.Sprintf("Imported %d variables", len(vars)), types.StatusCodeNone)
	log.Ctx(ctx).Debug().
		Str("collection", collectionID).
		Str("mode", string(mode)).
		Int("incoming", len(vars)).
		Int("persisted", len(persisted)).
		Msg("variables imported")
	return persisted, nil
}

func (s Service) load(ctx context.Context, collectionID string) (types.VariableSet, error) {
	if s.Variables == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("no variable repository configured")
	}
	vars, err := s.Variables.GetVariablesForCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if vars == nil {
		vars = types.VariableSet{}
	}
	return vars, nil
}

func (s Service) invalidName(err error) error {
	s.report(err.Error(), types.StatusCodeInvalidInput)
	return err
}

func (s Service) repositoryFailure(ctx context.Context, op string, collectionID string, message string, err error) error {
	s.report(fmt.Sprintf("%s: %v", message, err), types.StatusCodeStoreFailure)
	log.Ctx(ctx).Debug().Err(err).Str("collection", collectionID).Str("op", op).Msg("variable store call failed")
	return &types.RepositoryError{Op: op, CollectionID: collectionID, Err: err}
}
