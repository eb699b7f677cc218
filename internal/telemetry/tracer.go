package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for lookup and directory operations.
// These follow OpenTelemetry semantic conventions where applicable.
// Lookup-level keys use "lookup." prefix, directory requests "directory.".
const (
	// ========================================================================
	// Lookup attributes
	// ========================================================================
	AttrOperation = "lookup.operation"  // lookup_by_name, lookup_by_uid, enumeration_next, ...
	AttrSessionID = "lookup.session_id" // Enumeration session identifier
	AttrPageToken = "lookup.page_token" // Continuation token used for a page fetch
	AttrPageSize  = "lookup.page_size"  // Page size requested from the directory
	AttrEntries   = "lookup.entries"    // Entries in a loaded page

	// ========================================================================
	// Identity attributes
	// ========================================================================
	AttrUsername   = "user.name"       // Username being resolved
	AttrUID        = "user.uid"        // Numeric user ID
	AttrGID        = "user.gid"        // Numeric group ID
	AttrPolicy     = "auth.policy"     // Authorization policy (login, adminLogin)
	AttrAuthorized = "auth.authorized" // Authorization verdict
	AttrKeys       = "user.ssh_keys"   // Number of SSH keys returned

	// ========================================================================
	// Directory request attributes
	// ========================================================================
	AttrEndpoint   = "directory.endpoint"   // Directory endpoint base URL
	AttrPath       = "directory.path"       // Request path under the endpoint
	AttrStatus     = "directory.status"     // HTTP status code
	AttrRequestID  = "directory.request_id" // Client-generated request ID
	AttrAttempt    = "directory.attempt"    // Retry attempt number
	AttrPayloadLen = "directory.payload"    // Response payload length in bytes
)

// Span names for operations.
// Format: <component>.<operation>.
const (
	SpanLookupByName    = "resolver.lookup_by_name"
	SpanLookupByUID     = "resolver.lookup_by_uid"
	SpanEnumerationNext = "resolver.enumeration_next"
	SpanSSHKeys         = "resolver.ssh_keys"
	SpanEmail           = "resolver.email"
	SpanAuthorize       = "resolver.authorize"

	SpanDirectoryGet = "directory.get"
)

// Operation returns an attribute for the lookup operation name
func Operation(op string) attribute.KeyValue {
	return attribute.String(AttrOperation, op)
}

// SessionID returns an attribute for the enumeration session identifier
func SessionID(id string) attribute.KeyValue {
	return attribute.String(AttrSessionID, id)
}

// PageToken returns an attribute for a continuation token
func PageToken(token string) attribute.KeyValue {
	return attribute.String(AttrPageToken, token)
}

// PageSize returns an attribute for the requested page size
func PageSize(n int) attribute.KeyValue {
	return attribute.Int(AttrPageSize, n)
}

// Entries returns an attribute for the number of entries in a page
func Entries(n int) attribute.KeyValue {
	return attribute.Int(AttrEntries, n)
}

// Username returns an attribute for the username being resolved
func Username(name string) attribute.KeyValue {
	return attribute.String(AttrUsername, name)
}

// UID returns an attribute for user ID
func UID(uid uint32) attribute.KeyValue {
	return attribute.Int64(AttrUID, int64(uid))
}

// GID returns an attribute for group ID
func GID(gid uint32) attribute.KeyValue {
	return attribute.Int64(AttrGID, int64(gid))
}

// Policy returns an attribute for the authorization policy
func Policy(policy string) attribute.KeyValue {
	return attribute.String(AttrPolicy, policy)
}

// Authorized returns an attribute for the authorization verdict
func Authorized(ok bool) attribute.KeyValue {
	return attribute.Bool(AttrAuthorized, ok)
}

// Keys returns an attribute for the number of SSH keys returned
func Keys(n int) attribute.KeyValue {
	return attribute.Int(AttrKeys, n)
}

// Endpoint returns an attribute for the directory endpoint
func Endpoint(url string) attribute.KeyValue {
	return attribute.String(AttrEndpoint, url)
}

// Path returns an attribute for the request path
func Path(path string) attribute.KeyValue {
	return attribute.String(AttrPath, path)
}

// Status returns an attribute for the HTTP status code
func Status(code int) attribute.KeyValue {
	return attribute.Int(AttrStatus, code)
}

// RequestID returns an attribute for the client-generated request ID
func RequestID(id string) attribute.KeyValue {
	return attribute.String(AttrRequestID, id)
}

// Attempt returns an attribute for the retry attempt number
func Attempt(n int) attribute.KeyValue {
	return attribute.Int(AttrAttempt, n)
}

// PayloadLen returns an attribute for the response payload length
func PayloadLen(n int) attribute.KeyValue {
	return attribute.Int(AttrPayloadLen, n)
}

// StartLookupSpan starts a span for a resolver operation.
// This is a convenience function that sets common attributes.
func StartLookupSpan(ctx context.Context, name, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		Operation(operation),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}

// StartDirectorySpan starts a span for a directory HTTP request.
func StartDirectorySpan(ctx context.Context, path string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		Path(path),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, SpanDirectoryGet, trace.WithAttributes(allAttrs...))
}
