package app

import (
	"resonance-vars/internal/adapters"
	"resonance-vars/internal/core"
	"resonance-vars/internal/policies"
	"resonance-vars/internal/ports"
	"resonance-vars/internal/types"
)

// Service resolves collection variables against an injected repository and
// reports outcomes to an injected status sink. It keeps no state between
// calls apart from the per-collection write locks.
type Service struct {
	Variables ports.VariableRepositoryPort
	Status    ports.StatusSinkPort
	Files     ports.VariableFilePort
	Requests  ports.RequestFilePort
	Processor core.TemplateProcessor
	Names     policies.NamePolicy
	locks     *collectionLocks
}

func NewService(repo ports.VariableRepositoryPort, status ports.StatusSinkPort) Service {
	return Service{
		Variables: repo,
		Status:    status,
		Files:     adapters.NewVariableFileAdapter(),
		Requests:  adapters.NewRequestFileAdapter(),
		Processor: core.NewTemplateProcessor(),
		Names:     policies.NewNamePolicy(),
		locks:     newCollectionLocks(),
	}
}

func (s Service) report(message string, code types.StatusCode) {
	if s.Status == nil {
		return
	}
	s.Status.Update(message, code)
}

// lockCollection serializes mutating calls for one collection id.
func (s Service) lockCollection(collectionID string) func() {
	if s.locks == nil {
		return func() {}
	}
	return s.locks.lock(collectionID)
}
