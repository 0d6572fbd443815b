package types

import "fmt"

// InvalidNameError reports a variable name that fails the identifier grammar.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid variable name %q: must start with a letter or underscore and contain only letters, digits, and underscores", e.Name)
}

// RepositoryError wraps a failure returned by the variable repository.
type RepositoryError struct {
	Op           string
	CollectionID string
	Err          error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("variable store %s failed for collection %q: %v", e.Op, e.CollectionID, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}
