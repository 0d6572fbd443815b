package policies

import "resonance-vars/internal/types"

type ImportMode string

const (
	ImportModeReplace ImportMode = "replace"
	ImportModeMerge   ImportMode = "merge"
)

func ImportModeFor(merge bool) ImportMode {
	if merge {
		return ImportModeMerge
	}
	return ImportModeReplace
}

// ApplyImport returns the set to persist for an import. In merge mode the
// existing set is the base and incoming values win on collision; in replace
// mode the incoming set is the whole result.
func ApplyImport(mode ImportMode, existing types.VariableSet, incoming types.VariableSet) types.VariableSet {
	if mode != ImportModeMerge {
		return incoming.Clone()
	}
	merged := existing.Clone()
	for name, value := range incoming {
		merged[name] = value
	}
	return merged
}
