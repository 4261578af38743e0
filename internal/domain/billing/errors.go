package billing

import "github.com/sid/billing-service/internal/domain/shared"

// Errors reported by the remote collaborators.
// ErrRemoteTimeout is a RemoteUnavailable failure caused by the per-call deadline.
var (
	ErrRemoteNotFound    = shared.NewDomainError("REMOTE_NOT_FOUND", "Remote resource not found")
	ErrRemoteUnavailable = shared.NewDomainError("REMOTE_UNAVAILABLE", "Remote service unavailable")
	ErrRemoteTimeout     = shared.NewDomainError("REMOTE_TIMEOUT", "Remote service timed out")
)
