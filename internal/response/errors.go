package response

// ErrCode is a typed error code enum for consistent error identification.
type ErrCode string

const (
	// ─── Session ───────────────────────────────────────────────────────
	ErrLoginRequired   ErrCode = "LOGIN_REQUIRED"
	ErrSessionExpired  ErrCode = "SESSION_EXPIRED"
	ErrSessionStorage  ErrCode = "SESSION_STORAGE_ERROR"
	ErrInvalidClientID ErrCode = "INVALID_CLIENT_ID"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidDates   ErrCode = "INVALID_DATE_RANGE"

	// ─── Routing ───────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Backend ───────────────────────────────────────────────────────
	ErrBackend            ErrCode = "BACKEND_ERROR"
	ErrBackendUnreachable ErrCode = "BACKEND_UNREACHABLE"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileTooLarge ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Session ───────────────────────────────────────────────────────
	case ErrLoginRequired:
		return "Please log in to continue."
	case ErrSessionExpired:
		return "Your session has expired. Please log in again."
	case ErrSessionStorage:
		return "Your session could not be saved. Please try again."
	case ErrInvalidClientID:
		return "Invalid client identifier."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidDates:
		return "The end date cannot be before the start date."

	// ─── Routing ───────────────────────────────────────────────────────
	case ErrNotFound:
		return "Page not found."

	// ─── Backend ───────────────────────────────────────────────────────
	case ErrBackend:
		return "The server rejected the request."
	case ErrBackendUnreachable:
		return "Unable to reach the server. Check your connection and try again."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileTooLarge:
		return "File size exceeds the limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
