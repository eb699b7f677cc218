// Package cache holds one page of directory login profiles and walks
// it one record at a time.
//
// The directory returns accounts in bounded pages joined by continuation
// tokens, while the account-lookup mechanism asks for one record per
// call. The cache bridges the two: it keeps the current page's entries
// as raw JSON, decodes them lazily as the cursor advances, and tells the
// caller when the next page must be fetched. One cache belongs to one
// enumeration session; nothing is shared across sessions.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wonderfly/compute-image-packages/pkg/buffer"
	"github.com/wonderfly/compute-image-packages/pkg/oslogin"
)

// ErrBadPage reports that a page payload did not have the expected
// shape: unparsable JSON, a missing or non-array profile listing, an
// empty page presented as non-terminal, or more entries than the
// configured maximum. The cache is left empty with the continuation
// token discarded; pagination is abandoned rather than retried here.
var ErrBadPage = errors.New("cache: malformed directory page")

// DefaultMaxPageSize bounds a page when the caller does not configure
// one. It matches the page size requested from the directory.
const DefaultMaxPageSize = 500

// Cache is the enumeration state machine. It is empty after New or
// Reset, loaded while entries remain, and exhausted once the cursor
// passes the last entry of the last page. Not safe for concurrent use;
// each enumeration session owns its own.
type Cache struct {
	maxPageSize int
	entries     []json.RawMessage
	cursor      int
	pageToken   string
	onLastPage  bool
}

// New returns an empty cache accepting pages of at most maxPageSize
// entries. Non-positive values fall back to DefaultMaxPageSize.
func New(maxPageSize int) *Cache {
	if maxPageSize <= 0 {
		maxPageSize = DefaultMaxPageSize
	}
	return &Cache{maxPageSize: maxPageSize}
}

// Reset clears all page state, returning the cache to empty. Called at
// the start of every enumeration session and by LoadPage before a new
// page replaces the current one.
func (c *Cache) Reset() {
	c.entries = nil
	c.cursor = 0
	c.pageToken = ""
	c.onLastPage = false
}

// LoadPage replaces the cache contents with the page in payload. The
// continuation token is read first: an absent or empty nextPageToken
// marks the last page. The profile entries are stored undecoded, so one
// malformed entry surfaces later from Next without failing the page.
// On ErrBadPage the cache is left empty and the token is discarded.
func (c *Cache) LoadPage(payload string) error {
	c.Reset()

	var page struct {
		NextPageToken string            `json:"nextPageToken"`
		LoginProfiles []json.RawMessage `json:"loginProfiles"`
	}
	if err := json.Unmarshal([]byte(payload), &page); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPage, err)
	}

	if page.NextPageToken == "" {
		c.onLastPage = true
	}

	if page.LoginProfiles == nil {
		c.onLastPage = false
		return fmt.Errorf("%w: no profile listing", ErrBadPage)
	}
	if len(page.LoginProfiles) == 0 {
		c.onLastPage = false
		return fmt.Errorf("%w: empty page", ErrBadPage)
	}
	if len(page.LoginProfiles) > c.maxPageSize {
		c.onLastPage = false
		return fmt.Errorf("%w: %d entries exceed the page bound %d",
			ErrBadPage, len(page.LoginProfiles), c.maxPageSize)
	}

	c.pageToken = page.NextPageToken
	c.entries = page.LoginProfiles
	return nil
}

// HasNext reports whether the cursor points at a usable entry in the
// current page.
func (c *Cache) HasNext() bool {
	return c.cursor < len(c.entries) && len(c.entries[c.cursor]) > 0
}

// Next decodes the entry at the cursor into pw, drawing string storage
// from w. The cursor advances whether or not the entry decoded: a
// single corrupt record costs its caller one failed call and must not
// stall the rest of the page. With no entry left, oslogin.ErrNotFound
// is returned and the caller consults PageToken/OnLastPage to decide
// between fetching another page and ending the enumeration.
func (c *Cache) Next(pw *oslogin.Passwd, w *buffer.Writer) error {
	if !c.HasNext() {
		return oslogin.ErrNotFound
	}
	entry := c.entries[c.cursor]
	c.cursor++
	return oslogin.DecodePasswd(string(entry), pw, w)
}

// PageToken returns the continuation token for the next page fetch.
// Empty means no further page is known.
func (c *Cache) PageToken() string {
	return c.pageToken
}

// OnLastPage reports whether the loaded page was the directory's last.
func (c *Cache) OnLastPage() bool {
	return c.onLastPage
}

// Len returns the number of entries in the loaded page.
func (c *Cache) Len() int {
	return len(c.entries)
}
