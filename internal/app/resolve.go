package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"resonance-vars/internal/types"
)

// The operations in this file are best-effort: a variable store failure is
// reported and a fallback is returned instead of an error.

// ProcessRequest substitutes collection variables into every key and string
// value of request. If the variables cannot be loaded the original request is
// returned unmodified.
func (s Service) ProcessRequest(ctx context.Context, request types.Node, collectionID string) types.Node {
	vars, ok := s.loadForResolution(ctx, collectionID, "process-request")
	if !ok {
		return request
	}
	return s.Processor.ProcessNode(request, vars)
}

// ProcessTemplate returns template with collection variables substituted, or
// template unchanged if the variables cannot be loaded.
func (s Service) ProcessTemplate(ctx context.Context, template string, collectionID string) string {
	if template == "" {
		return template
	}
	vars, ok := s.loadForResolution(ctx, collectionID, "process-template")
	if !ok {
		return template
	}
	return s.Processor.ProcessTemplate(template, vars)
}

// GetTemplatePreview falls back to the raw template with empty name lists.
func (s Service) GetTemplatePreview(ctx context.Context, template string, collectionID string) types.Preview {
	fallback := types.Preview{
		Preview:          template,
		MissingVariables: []string{},
		FoundVariables:   []string{},
	}
	vars, ok := s.loadForResolution(ctx, collectionID, "preview")
	if !ok {
		return fallback
	}
	return s.Processor.Preview(template, vars)
}

// CleanupCollectionVariables drops the whole variable set of a collection
// that is being deleted. Failures are logged and never block the caller.
func (s Service) CleanupCollectionVariables(ctx context.Context, collectionID string) {
	if s.Variables == nil {
		log.Ctx(ctx).Error().Str("collection", collectionID).Msg("variable cleanup skipped: no repository configured")
		return
	}
	unlock := s.lockCollection(collectionID)
	defer unlock()
	if err := s.Variables.DeleteAllVariablesForCollection(ctx, collectionID); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("collection", collectionID).Msg("variable cleanup failed")
		return
	}
	log.Ctx(ctx).Debug().Str("collection", collectionID).Msg("collection variables removed")
}

// FindUsedVariables lists every variable name referenced in request.
func (s Service) FindUsedVariables(request types.Node) []string {
	return s.Processor.ExtractVariableNamesFromNode(request)
}

func (s Service) loadForResolution(ctx context.Context, collectionID string, op string) (types.VariableSet, bool) {
	vars, err := s.load(ctx, collectionID)
	if err != nil {
		s.report(fmt.Sprintf("Variables unavailable, using unresolved values: %v", err), types.StatusCodeStoreFailure)
		log.Ctx(ctx).Warn().Err(err).Str("collection", collectionID).Str("op", op).Msg("variable resolution fell back to original input")
		return nil, false
	}
	return vars, true
}
