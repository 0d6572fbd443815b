package ports

import "resonance-vars/internal/types"

// StatusSinkPort receives user-facing status messages. Implementations must
// not block or fail.
type StatusSinkPort interface {
	Update(message string, code types.StatusCode)
}
