package app

import "resonance-vars/internal/types"

type ImportFileRequest struct {
	CollectionID string
	Path         string
	Merge        bool
}

type ImportFileResult struct {
	Variables types.VariableSet
}

type ExportFileRequest struct {
	CollectionID string
	// Path is the destination file. When empty the encoded data is returned
	// instead of written.
	Path   string
	Format types.VariableFileFormat
}

type ExportFileResult struct {
	Path  string
	Data  []byte
	Count int
}

type ResolveRequestFileRequest struct {
	CollectionID string
	Path         string
}

type ResolveRequestFileResult struct {
	Resolved types.Node
	Data     []byte
	// Unresolved lists placeholders still present after resolution.
	Unresolved []string
}
