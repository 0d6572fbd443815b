package policies

import (
	"resonance-vars/internal/core"
	"resonance-vars/internal/types"
)

// NamePolicy decides which variable names may be persisted.
type NamePolicy struct{}

func NewNamePolicy() NamePolicy {
	return NamePolicy{}
}

func (NamePolicy) Validate(name string) error {
	if !core.IsValidVariableName(name) {
		return &types.InvalidNameError{Name: name}
	}
	return nil
}

// ValidateAll checks every name of vars in lexical order and returns the
// first failure, so a batch is rejected before anything is written.
func (p NamePolicy) ValidateAll(vars types.VariableSet) error {
	for _, name := range vars.Names() {
		if err := p.Validate(name); err != nil {
			return err
		}
	}
	return nil
}
