// Package resolver orchestrates account lookups against the identity
// directory. It drives the directory client, the page cache, and the
// payload decoders to produce fully validated records in caller-owned
// buffer regions, and maps every failure to one of the sentinel errors
// the account-lookup mechanism discriminates on.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonderfly/compute-image-packages/internal/logger"
	"github.com/wonderfly/compute-image-packages/internal/telemetry"
	"github.com/wonderfly/compute-image-packages/pkg/buffer"
	"github.com/wonderfly/compute-image-packages/pkg/cache"
	"github.com/wonderfly/compute-image-packages/pkg/directory"
	"github.com/wonderfly/compute-image-packages/pkg/oslogin"
)

var (
	// ErrUnavailable reports that the directory could not be reached or
	// answered with a failure that is not "no such identity". The cause
	// is wrapped; callers do not retry here, the transport already did.
	ErrUnavailable = errors.New("resolver: directory unavailable")

	// Done signals the normal end of an enumeration. Not a failure.
	Done = errors.New("resolver: end of enumeration")
)

// Client is the fetch capability the resolver drives. *directory.Client
// implements it; tests substitute fakes.
type Client interface {
	FetchPage(ctx context.Context, pageToken string) (string, error)
	FetchByName(ctx context.Context, name string) (string, error)
	FetchByUID(ctx context.Context, uid uint32) (string, error)
	Authorize(ctx context.Context, name, policy string) (string, error)
}

// Resolver resolves POSIX accounts from the directory. Point lookups
// are stateless; enumeration holds one page cache and one session, so a
// Resolver must be driven by one logical thread of control at a time.
type Resolver struct {
	client   Client
	pages    *cache.Cache
	session  string
	started  bool
	abandon  bool
	pageSize int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPageSize bounds how many entries an enumeration page may carry.
// It should match the page size the client requests.
func WithPageSize(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.pageSize = n
		}
	}
}

// New creates a resolver over the given fetch capability.
func New(client Client, opts ...Option) *Resolver {
	r := &Resolver{
		client:   client,
		pageSize: directory.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.pages = cache.New(r.pageSize)
	return r
}

// LookupByName resolves one account by username, writing the record's
// string fields into w. Returns oslogin.ErrNotFound when the directory
// has no such identity, oslogin.ErrInvalidData when the entry violates
// the account invariants, buffer.ErrCapacity when w is too small, and
// ErrUnavailable on transport failure. pw is not safe to read on error.
func (r *Resolver) LookupByName(ctx context.Context, name string, pw *oslogin.Passwd, w *buffer.Writer) error {
	ctx, span := telemetry.StartLookupSpan(ctx, telemetry.SpanLookupByName, "lookup_by_name",
		telemetry.Username(name))
	defer span.End()

	payload, err := r.client.FetchByName(ctx, name)
	if err != nil {
		return r.fetchFailed(ctx, err)
	}
	if err := oslogin.DecodePasswd(payload, pw, w); err != nil {
		telemetry.RecordError(ctx, err)
		return err
	}
	telemetry.SetAttributes(ctx, telemetry.UID(pw.UID), telemetry.GID(pw.GID))
	return nil
}

// LookupByUID resolves one account by numeric user ID. Error contract
// as for LookupByName.
func (r *Resolver) LookupByUID(ctx context.Context, uid uint32, pw *oslogin.Passwd, w *buffer.Writer) error {
	ctx, span := telemetry.StartLookupSpan(ctx, telemetry.SpanLookupByUID, "lookup_by_uid",
		telemetry.UID(uid))
	defer span.End()

	payload, err := r.client.FetchByUID(ctx, uid)
	if err != nil {
		return r.fetchFailed(ctx, err)
	}
	if err := oslogin.DecodePasswd(payload, pw, w); err != nil {
		telemetry.RecordError(ctx, err)
		return err
	}
	return nil
}

// ResetEnumeration starts a fresh enumeration session: the page cache
// is cleared, a failed session is forgiven, and a new session id is
// drawn for log correlation.
func (r *Resolver) ResetEnumeration() {
	r.pages.Reset()
	r.session = uuid.NewString()
	r.started = true
	r.abandon = false

	logger.Debug("Enumeration session reset", logger.KeySessionID, r.session)
}

// NextEntry produces the next account of the enumeration, fetching a
// new directory page when the current one is consumed. Returns Done at
// the end of the directory, ErrUnavailable on any page-fetch failure
// (404 included; the session survives and the same page can be
// refetched on the next call), and cache.ErrBadPage on a malformed
// page, which abandons the session: every call after that reports Done
// until ResetEnumeration. A single bad record costs one failed call —
// oslogin.ErrNotFound when the entry carries no usable account,
// oslogin.ErrInvalidData when it violates the account invariants — and
// does not stop the enumeration.
func (r *Resolver) NextEntry(ctx context.Context, pw *oslogin.Passwd, w *buffer.Writer) error {
	if !r.started {
		r.ResetEnumeration()
	}
	if r.abandon {
		return Done
	}

	ctx, span := telemetry.StartLookupSpan(ctx, telemetry.SpanEnumerationNext, "enumeration_next",
		telemetry.SessionID(r.session))
	defer span.End()

	if !r.pages.HasNext() {
		if r.pages.OnLastPage() {
			return Done
		}

		token := r.pages.PageToken()
		start := time.Now()
		payload, err := r.client.FetchPage(ctx, token)
		if err != nil {
			// Every page-fetch failure is a directory fault, 404
			// included: there is no identity for a page to be missing
			// of. Folding it into ErrNotFound would collide with the
			// per-entry "no usable account" signal callers skip past.
			telemetry.RecordError(ctx, err)
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		if err := r.pages.LoadPage(payload); err != nil {
			// A malformed page abandons the session rather than resuming
			// from the prior token: a fresh-looking cache after this
			// failure must not restart from page one and hand out
			// duplicate records.
			r.abandon = true
			telemetry.RecordError(ctx, err)
			logger.WarnCtx(ctx, "Abandoning enumeration on malformed page",
				logger.KeySessionID, r.session,
				logger.KeyPageToken, token,
				logger.KeyError, err,
			)
			return err
		}

		logger.DebugCtx(ctx, "Loaded directory page",
			logger.KeySessionID, r.session,
			logger.KeyEntries, r.pages.Len(),
			logger.KeyDurationMs, logger.Duration(start),
		)
		telemetry.SetAttributes(ctx, telemetry.Entries(r.pages.Len()))
	}

	if err := r.pages.Next(pw, w); err != nil {
		telemetry.RecordError(ctx, err)
		return err
	}
	return nil
}

// SSHKeys returns the non-expired public keys of name. The key list is
// allowed to be empty; only transport failures error.
func (r *Resolver) SSHKeys(ctx context.Context, name string) ([]string, error) {
	ctx, span := telemetry.StartLookupSpan(ctx, telemetry.SpanSSHKeys, "list_ssh_keys",
		telemetry.Username(name))
	defer span.End()

	payload, err := r.client.FetchByName(ctx, name)
	if err != nil {
		return nil, r.fetchFailed(ctx, err)
	}

	keys := oslogin.DecodeSSHKeys(payload)
	telemetry.SetAttributes(ctx, telemetry.Keys(len(keys)))
	return keys, nil
}

// Email resolves the directory identity label of name, or "" when the
// profile carries none.
func (r *Resolver) Email(ctx context.Context, name string) (string, error) {
	ctx, span := telemetry.StartLookupSpan(ctx, telemetry.SpanEmail, "resolve_label",
		telemetry.Username(name))
	defer span.End()

	payload, err := r.client.FetchByName(ctx, name)
	if err != nil {
		return "", r.fetchFailed(ctx, err)
	}
	return oslogin.DecodeName(payload), nil
}

// CheckAuthorization asks the directory whether name is granted policy.
// An unreachable directory errors; a reachable one always yields a
// verdict, denying by default.
func (r *Resolver) CheckAuthorization(ctx context.Context, name, policy string) (bool, error) {
	ctx, span := telemetry.StartLookupSpan(ctx, telemetry.SpanAuthorize, "check_authorization",
		telemetry.Username(name), telemetry.Policy(policy))
	defer span.End()

	payload, err := r.client.Authorize(ctx, name, policy)
	if err != nil {
		return false, r.fetchFailed(ctx, err)
	}

	ok := oslogin.DecodeAuthorization(payload)
	telemetry.SetAttributes(ctx, telemetry.Authorized(ok))
	return ok, nil
}

// fetchFailed maps a transport error to the caller-visible taxonomy: a
// directory 404 states "no matching identity" and maps to
// oslogin.ErrNotFound; everything else is ErrUnavailable with the cause
// attached.
func (r *Resolver) fetchFailed(ctx context.Context, err error) error {
	telemetry.RecordError(ctx, err)

	var statusErr *directory.StatusError
	if errors.As(err, &statusErr) && statusErr.IsNotFound() {
		return fmt.Errorf("%w: %w", oslogin.ErrNotFound, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
