package policies

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resonance-vars/internal/types"
)

func TestNamePolicyValidate(t *testing.T) {
	policy := NewNamePolicy()
	require.NoError(t, policy.Validate("apiKey"))

	err := policy.Validate("ab-c")
	var invalid *types.InvalidNameError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "ab-c", invalid.Name)
}

func TestNamePolicyValidateAll(t *testing.T) {
	policy := NewNamePolicy()
	require.NoError(t, policy.ValidateAll(types.VariableSet{"a": "1", "_b": "2"}))
	require.NoError(t, policy.ValidateAll(nil))

	err := policy.ValidateAll(types.VariableSet{"apiKey": "k", "1bad": "v", "zz-top": "x"})
	var invalid *types.InvalidNameError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "1bad", invalid.Name)
	assert.Contains(t, err.Error(), `"1bad"`)
}
