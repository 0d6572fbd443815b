package ports

import "resonance-vars/internal/types"

type VariableFilePort interface {
	ReadVariables(path string) (types.VariableSet, error)
	WriteVariables(path string, format types.VariableFileFormat, vars types.VariableSet) error
	EncodeVariables(format types.VariableFileFormat, name string, vars types.VariableSet) ([]byte, error)
}

type RequestFilePort interface {
	ReadRequest(path string) (types.Node, error)
	EncodeRequest(node types.Node) ([]byte, error)
}
