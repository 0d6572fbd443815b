package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"resonance-vars/internal/types"
)

// ImportVariablesFile reads a variables file and imports it into the
// collection with the same rules as ImportVariables.
func (s Service) ImportVariablesFile(ctx context.Context, req ImportFileRequest) (ImportFileResult, error) {
	if err := requireTransferArgs(req.CollectionID, req.Path, true); err != nil {
		return ImportFileResult{}, err
	}
	incoming, err := s.Files.ReadVariables(req.Path)
	if err != nil {
		s.report(fmt.Sprintf("Failed to read variables file: %v", err), types.StatusCodeInvalidInput)
		return ImportFileResult{}, err
	}
	persisted, err := s.ImportVariables(ctx, req.CollectionID, incoming, req.Merge)
	if err != nil {
		return ImportFileResult{}, err
	}
	return ImportFileResult{Variables: persisted}, nil
}

// ExportVariablesFile writes the collection's variables to req.Path, or
// returns the encoded bytes when no path is given.
func (s Service) ExportVariablesFile(ctx context.Context, req ExportFileRequest) (ExportFileResult, error) {
	if err := requireTransferArgs(req.CollectionID, req.Path, false); err != nil {
		return ExportFileResult{}, err
	}
	vars, err := s.ExportVariables(ctx, req.CollectionID)
	if err != nil {
		return ExportFileResult{}, err
	}
	path := strings.TrimSpace(req.Path)
	if path == "" {
		format := req.Format
		if format == "" {
			format = types.VariableFileFormatYAML
		}
		data, err := s.Files.EncodeVariables(format, req.CollectionID, vars)
		if err != nil {
			return ExportFileResult{}, err
		}
		return ExportFileResult{Data: data, Count: len(vars)}, nil
	}
	if err := s.Files.WriteVariables(path, req.Format, vars); err != nil {
		s.report(fmt.Sprintf("Failed to write variables file: %v", err), types.StatusCodeStoreFailure)
		return ExportFileResult{}, err
	}
	s.report(fmt.Sprintf("Exported %d variables to %s", len(vars), path), types.StatusCodeNone)
	return ExportFileResult{Path: path, Count: len(vars)}, nil
}

// ResolveRequestFile loads a request tree and resolves it best-effort. Only
// reading or encoding the file can fail.
func (s Service) ResolveRequestFile(ctx context.Context, req ResolveRequestFileRequest) (ResolveRequestFileResult, error) {
	if err := requireTransferArgs(req.CollectionID, req.Path, true); err != nil {
		return ResolveRequestFileResult{}, err
	}
	request, err := s.Requests.ReadRequest(req.Path)
	if err != nil {
		return ResolveRequestFileResult{}, err
	}
	resolved := s.ProcessRequest(ctx, request, req.CollectionID)
	data, err := s.Requests.EncodeRequest(resolved)
	if err != nil {
		return ResolveRequestFileResult{}, err
	}
	return ResolveRequestFileResult{
		Resolved:   resolved,
		Data:       data,
		Unresolved: s.FindUsedVariables(resolved),
	}, nil
}

// UsedVariablesFile lists the variable names referenced by a request file.
func (s Service) UsedVariablesFile(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("request file path is required")
	}
	request, err := s.Requests.ReadRequest(path)
	if err != nil {
		return nil, err
	}
	return s.FindUsedVariables(request), nil
}

func requireTransferArgs(collectionID string, path string, pathRequired bool) error {
	if strings.TrimSpace(collectionID) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("collection id is required")
	}
	if pathRequired && strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("file path is required")
	}
	return nil
}
