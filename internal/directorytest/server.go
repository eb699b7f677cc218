// Package directorytest provides an in-process fake of the OS Login
// directory for client, resolver, and command tests. It serves the
// users and authorize endpoints over httptest with real pagination,
// records every request, and can inject server errors to exercise the
// retry path.
package directorytest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Key is one authorized public key of a profile. A zero ExpirationUsec
// means the key never expires.
type Key struct {
	Key            string
	ExpirationUsec int64
}

// Profile describes one directory user served by the fake.
type Profile struct {
	Name     string // identity label (email)
	UID      uint32
	GID      uint32
	Username string
	HomeDir  string
	Shell    string
	Keys     []Key

	// Raw, when set, is served verbatim as the loginProfiles entry
	// instead of the fields above. Used to plant malformed entries.
	Raw string
}

// Server is the fake directory. Create with New, point the client under
// test at URL, and Close when done.
type Server struct {
	srv *httptest.Server

	mu         sync.Mutex
	profiles   []Profile
	authorized map[string]bool // "<name>/<policy>" -> verdict
	failures   int             // pending 500s to inject
	requests   []string        // recorded request URIs
}

// New starts a fake directory serving the given profiles in order.
func New(profiles ...Profile) *Server {
	s := &Server{
		profiles:   profiles,
		authorized: make(map[string]bool),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Get("/users", s.handleUsers)
	r.Get("/authorize", s.handleAuthorize)

	s.srv = httptest.NewServer(r)
	return s
}

// URL returns the endpoint base URL for clients.
func (s *Server) URL() string {
	return s.srv.URL
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}

// SetProfiles replaces the served profiles.
func (s *Server) SetProfiles(profiles ...Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = profiles
}

// Authorize sets the verdict returned for a name/policy pair. Pairs
// never set are denied.
func (s *Server) Authorize(name, policy string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorized[name+"/"+policy] = ok
}

// InjectFailures makes the next n requests fail with HTTP 500 before
// normal serving resumes.
func (s *Server) InjectFailures(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = n
}

// Requests returns the request URIs seen so far, in order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.URL.RequestURI())
		failing := s.failures > 0
		if failing {
			s.failures--
		}
		s.mu.Unlock()

		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := r.URL.Query()

	if username := q.Get("username"); username != "" {
		for _, p := range s.profiles {
			if p.Username == username || p.Name == username {
				writeJSON(w, listing("", p))
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if uidStr := q.Get("uid"); uidStr != "" {
		uid, err := strconv.ParseUint(uidStr, 10, 32)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for _, p := range s.profiles {
			if p.UID == uint32(uid) {
				writeJSON(w, listing("", p))
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		return
	}

	// Enumeration: pagetoken is the index of the first entry to serve.
	pageSize := len(s.profiles)
	if ps := q.Get("pagesize"); ps != "" {
		n, err := strconv.Atoi(ps)
		if err != nil || n <= 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		pageSize = n
	}

	start := 0
	if tok := q.Get("pagetoken"); tok != "" {
		n, err := strconv.Atoi(tok)
		if err != nil || n < 0 || n > len(s.profiles) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		start = n
	}

	end := start + pageSize
	if end > len(s.profiles) {
		end = len(s.profiles)
	}

	token := ""
	if end < len(s.profiles) {
		token = strconv.Itoa(end)
	}
	writeJSON(w, listing(token, s.profiles[start:end]...))
}

func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := r.URL.Query().Get("email")
	policy := r.URL.Query().Get("policy")
	writeJSON(w, map[string]any{"success": s.authorized[name+"/"+policy]})
}

// listing renders profiles as a directory listing payload. The uid is
// rendered as a numeric string, matching the wire format the real
// directory uses.
func listing(nextPageToken string, profiles ...Profile) map[string]any {
	entries := make([]json.RawMessage, 0, len(profiles))
	for _, p := range profiles {
		if p.Raw != "" {
			entries = append(entries, json.RawMessage(p.Raw))
			continue
		}

		account := map[string]any{
			"uid":      strconv.FormatUint(uint64(p.UID), 10),
			"username": p.Username,
		}
		if p.GID != 0 {
			account["gid"] = strconv.FormatUint(uint64(p.GID), 10)
		}
		if p.HomeDir != "" {
			account["homeDirectory"] = p.HomeDir
		}
		if p.Shell != "" {
			account["shell"] = p.Shell
		}

		profile := map[string]any{
			"name":          p.Name,
			"posixAccounts": []any{account},
		}

		if len(p.Keys) > 0 {
			keys := make(map[string]any, len(p.Keys))
			for _, k := range p.Keys {
				entry := map[string]any{"key": k.Key}
				if k.ExpirationUsec != 0 {
					entry["expirationTimeUsec"] = strconv.FormatInt(k.ExpirationUsec, 10)
				}
				keys[fingerprint(k.Key)] = entry
			}
			profile["sshPublicKeys"] = keys
		}

		data, err := json.Marshal(profile)
		if err != nil {
			panic(err)
		}
		entries = append(entries, data)
	}

	page := map[string]any{"loginProfiles": entries}
	if nextPageToken != "" {
		page["nextPageToken"] = nextPageToken
	}
	return page
}

func fingerprint(key string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
