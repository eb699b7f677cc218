package logger

import "log/slog"

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so directory
// lookups can be correlated and queried across binaries.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Lookup Operations
	// ========================================================================
	KeyOperation = "operation"  // Lookup operation: lookup_by_name, lookup_by_uid, enumeration_next, ...
	KeySessionID = "session_id" // Enumeration session identifier
	KeyPageToken = "page_token" // Continuation token for the next directory page
	KeyPageSize  = "page_size"  // Requested page size
	KeyEntries   = "entries"    // Number of entries in a loaded page

	// ========================================================================
	// Identity
	// ========================================================================
	KeyUsername   = "username"   // Username being resolved
	KeyUID        = "uid"        // Numeric user ID
	KeyGID        = "gid"        // Numeric group ID
	KeyEmail      = "email"      // Directory identity label
	KeyPolicy     = "policy"     // Authorization policy (login, adminLogin)
	KeyAuthorized = "authorized" // Authorization verdict
	KeyKeys       = "keys"       // Number of SSH keys in a result

	// ========================================================================
	// Directory Requests
	// ========================================================================
	KeyEndpoint  = "endpoint"   // Directory endpoint base URL
	KeyPath      = "path"       // Request path under the endpoint
	KeyStatus    = "status"     // HTTP status code
	KeyRequestID = "request_id" // Client-generated request ID
	KeyAttempt   = "attempt"    // Retry attempt number
	KeyTimeout   = "timeout"    // Request timeout

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyConfigFile = "config_file" // Configuration file in use
)

// ============================================================================
// Field constructors for type safety
// ============================================================================

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// Operation returns a slog.Attr for the lookup operation name
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// SessionID returns a slog.Attr for the enumeration session identifier
func SessionID(id string) slog.Attr {
	return slog.String(KeySessionID, id)
}

// PageToken returns a slog.Attr for a continuation token
func PageToken(token string) slog.Attr {
	return slog.String(KeyPageToken, token)
}

// PageSize returns a slog.Attr for the requested page size
func PageSize(n int) slog.Attr {
	return slog.Int(KeyPageSize, n)
}

// Entries returns a slog.Attr for the number of entries in a page
func Entries(n int) slog.Attr {
	return slog.Int(KeyEntries, n)
}

// Username returns a slog.Attr for a username
func Username(name string) slog.Attr {
	return slog.String(KeyUsername, name)
}

// UID returns a slog.Attr for a numeric user ID
func UID(uid uint32) slog.Attr {
	return slog.Any(KeyUID, uid)
}

// GID returns a slog.Attr for a numeric group ID
func GID(gid uint32) slog.Attr {
	return slog.Any(KeyGID, gid)
}

// Email returns a slog.Attr for a directory identity label
func Email(email string) slog.Attr {
	return slog.String(KeyEmail, email)
}

// Policy returns a slog.Attr for an authorization policy
func Policy(policy string) slog.Attr {
	return slog.String(KeyPolicy, policy)
}

// Authorized returns a slog.Attr for an authorization verdict
func Authorized(ok bool) slog.Attr {
	return slog.Bool(KeyAuthorized, ok)
}

// Keys returns a slog.Attr for the number of SSH keys in a result
func Keys(n int) slog.Attr {
	return slog.Int(KeyKeys, n)
}

// Endpoint returns a slog.Attr for the directory endpoint
func Endpoint(url string) slog.Attr {
	return slog.String(KeyEndpoint, url)
}

// Path returns a slog.Attr for a request path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Status returns a slog.Attr for an HTTP status code
func Status(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}

// RequestID returns a slog.Attr for a client-generated request ID
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// Attempt returns a slog.Attr for a retry attempt number
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ConfigFile returns a slog.Attr for the configuration file in use
func ConfigFile(path string) slog.Attr {
	return slog.String(KeyConfigFile, path)
}
