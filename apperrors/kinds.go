package apperrors

// Kind classifies an AppError into one of a closed set of failure categories.
// Kinds are string backed for debuggability and natural JSON serialization.
// The set is closed within a deployment: adding a kind is a deliberate,
// reviewed change, never an ad hoc one.
type Kind string

const (
	// NotFound indicates a requested resource does not exist.
	NotFound Kind = "NOT_FOUND"

	// Validation indicates untrusted input failed validation at a boundary.
	Validation Kind = "VALIDATION"

	// Unauthorized indicates the request lacks valid authentication credentials.
	Unauthorized Kind = "UNAUTHORIZED"

	// Forbidden indicates the authenticated caller lacks permission for the operation.
	Forbidden Kind = "FORBIDDEN"

	// Conflict indicates the operation conflicts with existing resource state.
	Conflict Kind = "CONFLICT"

	// ExternalService indicates a dependency outside this process failed.
	ExternalService Kind = "EXTERNAL_SERVICE_ERROR"

	// Internal indicates an unexpected failure inside this process.
	// It is the kind of last resort: producers should always pick the most
	// specific kind available.
	Internal Kind = "INTERNAL"
)
