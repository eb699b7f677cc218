package resolver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonderfly/compute-image-packages/pkg/buffer"
	"github.com/wonderfly/compute-image-packages/pkg/cache"
	"github.com/wonderfly/compute-image-packages/pkg/directory"
	"github.com/wonderfly/compute-image-packages/pkg/oslogin"
)

// stubClient serves canned payloads keyed by lookup argument. A nil
// error map entry means the payload map is consulted; missing entries
// return a 404 StatusError.
type stubClient struct {
	byName    map[string]string
	byUID     map[uint32]string
	pages     map[string]string // token -> payload, "" is the first page
	authorize map[string]string // name/policy -> payload
	pageCalls []string
	fetchErr  error
}

func notFound() error {
	return &directory.StatusError{StatusCode: 404}
}

func (s *stubClient) FetchByName(_ context.Context, name string) (string, error) {
	if s.fetchErr != nil {
		return "", s.fetchErr
	}
	payload, ok := s.byName[name]
	if !ok {
		return "", notFound()
	}
	return payload, nil
}

func (s *stubClient) FetchByUID(_ context.Context, uid uint32) (string, error) {
	if s.fetchErr != nil {
		return "", s.fetchErr
	}
	payload, ok := s.byUID[uid]
	if !ok {
		return "", notFound()
	}
	return payload, nil
}

func (s *stubClient) FetchPage(_ context.Context, token string) (string, error) {
	s.pageCalls = append(s.pageCalls, token)
	if s.fetchErr != nil {
		return "", s.fetchErr
	}
	payload, ok := s.pages[token]
	if !ok {
		return "", notFound()
	}
	return payload, nil
}

func (s *stubClient) Authorize(_ context.Context, name, policy string) (string, error) {
	if s.fetchErr != nil {
		return "", s.fetchErr
	}
	payload, ok := s.authorize[name+"/"+policy]
	if !ok {
		return "", notFound()
	}
	return payload, nil
}

func profilePayload(uid uint32, username string) string {
	return fmt.Sprintf(`{"loginProfiles":[{"posixAccounts":[{"uid":"%d","username":%q}]}]}`,
		uid, username)
}

func pageOf(token string, entries ...string) string {
	page := `{"loginProfiles":[`
	for i, e := range entries {
		if i > 0 {
			page += ","
		}
		page += e
	}
	page += `]`
	if token != "" {
		page += fmt.Sprintf(`,"nextPageToken":%q`, token)
	}
	return page + `}`
}

func entry(uid uint32, username string) string {
	return fmt.Sprintf(`{"posixAccounts":[{"uid":%d,"username":%q}]}`, uid, username)
}

func TestLookupByName(t *testing.T) {
	client := &stubClient{byName: map[string]string{
		"alice": profilePayload(2000, "alice"),
	}}
	r := New(client)

	var pw oslogin.Passwd
	w := buffer.NewWriter(make([]byte, 256))
	err := r.LookupByName(context.Background(), "alice", &pw, w)

	require.NoError(t, err)
	assert.Equal(t, uint32(2000), pw.UID)
	assert.Equal(t, uint32(2000), pw.GID, "gid defaults to uid")
	assert.Equal(t, []byte("alice"), pw.Name)
	assert.Equal(t, []byte("/home/alice"), pw.HomeDir)
	assert.Equal(t, []byte(oslogin.DefaultShell), pw.Shell)
	assert.Empty(t, pw.Gecos)
	assert.Empty(t, pw.Password)
}

func TestLookupByName_NotFound(t *testing.T) {
	r := New(&stubClient{})

	var pw oslogin.Passwd
	w := buffer.NewWriter(make([]byte, 256))
	err := r.LookupByName(context.Background(), "ghost", &pw, w)

	assert.ErrorIs(t, err, oslogin.ErrNotFound)
}

func TestLookupByName_TransportError(t *testing.T) {
	r := New(&stubClient{fetchErr: errors.New("connection refused")})

	var pw oslogin.Passwd
	w := buffer.NewWriter(make([]byte, 256))
	err := r.LookupByName(context.Background(), "alice", &pw, w)

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, oslogin.ErrNotFound)
}

func TestLookupByName_InvalidData(t *testing.T) {
	client := &stubClient{byName: map[string]string{
		"bob": profilePayload(500, "bob"), // uid below the floor
	}}
	r := New(client)

	var pw oslogin.Passwd
	w := buffer.NewWriter(make([]byte, 256))
	err := r.LookupByName(context.Background(), "bob", &pw, w)

	assert.ErrorIs(t, err, oslogin.ErrInvalidData)
}

func TestLookupByUID(t *testing.T) {
	client := &stubClient{byUID: map[uint32]string{
		2000: profilePayload(2000, "alice"),
	}}
	r := New(client)

	var pw oslogin.Passwd
	w := buffer.NewWriter(make([]byte, 256))
	err := r.LookupByUID(context.Background(), 2000, &pw, w)

	require.NoError(t, err)
	assert.Equal(t, []byte("alice"), pw.Name)
}

func TestNextEntry_TwoPages(t *testing.T) {
	client := &stubClient{pages: map[string]string{
		"":      pageOf("tok-2", entry(2000, "alice"), entry(2001, "bob")),
		"tok-2": pageOf("", entry(2002, "carol")),
	}}
	r := New(client)
	r.ResetEnumeration()

	w := buffer.NewWriter(make([]byte, 4096))
	var names []string
	for {
		var pw oslogin.Passwd
		err := r.NextEntry(context.Background(), &pw, w)
		if errors.Is(err, Done) {
			break
		}
		require.NoError(t, err)
		names = append(names, string(pw.Name))
	}

	assert.Equal(t, []string{"alice", "bob", "carol"}, names)
	assert.Equal(t, []string{"", "tok-2"}, client.pageCalls)

	// The enumeration stays terminal until reset.
	var pw oslogin.Passwd
	assert.ErrorIs(t, r.NextEntry(context.Background(), &pw, w), Done)
}

func TestNextEntry_SkipsInvalidEntry(t *testing.T) {
	client := &stubClient{pages: map[string]string{
		"": pageOf("",
			entry(2000, "alice"),
			entry(500, "bob"), // uid below the floor
			entry(2002, "carol")),
	}}
	r := New(client)
	r.ResetEnumeration()

	w := buffer.NewWriter(make([]byte, 4096))
	var pw oslogin.Passwd

	require.NoError(t, r.NextEntry(context.Background(), &pw, w))
	assert.Equal(t, []byte("alice"), pw.Name)

	err := r.NextEntry(context.Background(), &pw, w)
	require.ErrorIs(t, err, oslogin.ErrInvalidData)

	require.NoError(t, r.NextEntry(context.Background(), &pw, w))
	assert.Equal(t, []byte("carol"), pw.Name)

	assert.ErrorIs(t, r.NextEntry(context.Background(), &pw, w), Done)
}

func TestNextEntry_MalformedPageAbandonsSession(t *testing.T) {
	client := &stubClient{pages: map[string]string{
		"": `{"nextPageToken": "tok"}`, // no listing at all
	}}
	r := New(client)
	r.ResetEnumeration()

	w := buffer.NewWriter(make([]byte, 256))
	var pw oslogin.Passwd

	err := r.NextEntry(context.Background(), &pw, w)
	require.ErrorIs(t, err, cache.ErrBadPage)

	// Abandoned: no refetch, no restart from page one.
	calls := len(client.pageCalls)
	assert.ErrorIs(t, r.NextEntry(context.Background(), &pw, w), Done)
	assert.Len(t, client.pageCalls, calls)

	// A reset starts over.
	r.ResetEnumeration()
	client.pages[""] = pageOf("", entry(2000, "alice"))
	require.NoError(t, r.NextEntry(context.Background(), &pw, w))
	assert.Equal(t, []byte("alice"), pw.Name)
}

func TestNextEntry_TransportErrorKeepsSession(t *testing.T) {
	client := &stubClient{pages: map[string]string{
		"": pageOf("", entry(2000, "alice")),
	}}
	r := New(client)
	r.ResetEnumeration()

	w := buffer.NewWriter(make([]byte, 256))
	var pw oslogin.Passwd

	client.fetchErr = errors.New("connection reset")
	err := r.NextEntry(context.Background(), &pw, w)
	require.ErrorIs(t, err, ErrUnavailable)

	// The session survives a transport failure; the same page is
	// refetched on the next call.
	client.fetchErr = nil
	require.NoError(t, r.NextEntry(context.Background(), &pw, w))
	assert.Equal(t, []byte("alice"), pw.Name)
	assert.Equal(t, []string{"", ""}, client.pageCalls)
}

func TestNextEntry_PageNotFoundIsUnavailable(t *testing.T) {
	client := &stubClient{pages: map[string]string{
		"": pageOf("", entry(2000, "alice")),
	}}
	r := New(client)
	r.ResetEnumeration()

	w := buffer.NewWriter(make([]byte, 256))
	var pw oslogin.Passwd

	// A 404 on the page fetch is a directory fault, not a missing
	// entry: it must not surface as the per-entry not-found signal
	// that listing callers skip past.
	client.fetchErr = notFound()
	err := r.NextEntry(context.Background(), &pw, w)
	require.ErrorIs(t, err, ErrUnavailable)
	require.NotErrorIs(t, err, oslogin.ErrNotFound)

	client.fetchErr = nil
	require.NoError(t, r.NextEntry(context.Background(), &pw, w))
	assert.Equal(t, []byte("alice"), pw.Name)
}

func TestNextEntry_StartsSessionImplicitly(t *testing.T) {
	client := &stubClient{pages: map[string]string{
		"": pageOf("", entry(2000, "alice")),
	}}
	r := New(client)

	w := buffer.NewWriter(make([]byte, 256))
	var pw oslogin.Passwd
	require.NoError(t, r.NextEntry(context.Background(), &pw, w))
	assert.Equal(t, []byte("alice"), pw.Name)
}

func TestSSHKeys(t *testing.T) {
	client := &stubClient{byName: map[string]string{
		"alice": `{"loginProfiles":[{"sshPublicKeys":{
			"fp1": {"key": "ssh-rsa AAAA alice@host"},
			"fp2": {"key": "ssh-ed25519 BBBB old@host", "expirationTimeUsec": "1"}
		}}]}`,
	}}
	r := New(client)

	keys, err := r.SSHKeys(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, []string{"ssh-rsa AAAA alice@host"}, keys)
}

func TestEmail(t *testing.T) {
	client := &stubClient{byName: map[string]string{
		"alice": `{"loginProfiles":[{"name":"alice@example.com"}]}`,
	}}
	r := New(client)

	email, err := r.Email(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)
}

func TestCheckAuthorization(t *testing.T) {
	client := &stubClient{authorize: map[string]string{
		"alice/login": `{"success": true}`,
		"bob/login":   `{"success": false}`,
	}}
	r := New(client)

	ok, err := r.CheckAuthorization(context.Background(), "alice", "login")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.CheckAuthorization(context.Background(), "bob", "login")
	require.NoError(t, err)
	assert.False(t, ok)
}
