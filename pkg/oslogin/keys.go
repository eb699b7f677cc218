package oslogin

import (
	"encoding/json"
	"strconv"
	"time"
)

// DecodeSSHKeys extracts the usable public keys of the first profile in
// payload. The payload may be a bare profile or a listing, as for
// DecodeAccount. An entry survives iff its key field is a non-empty
// string and its expiration, when present and parsable, lies in the
// future. Everything else (non-object entries, wrong-typed keys,
// expired keys) is dropped without failing the decode: the key list is
// allowed to be a subset. Output order follows the profile's key map
// and is not significant.
func DecodeSSHKeys(payload string) []string {
	return decodeSSHKeysAt(payload, time.Now())
}

func decodeSSHKeysAt(payload string, now time.Time) []string {
	var env struct {
		LoginProfiles []json.RawMessage          `json:"loginProfiles"`
		SSHPublicKeys map[string]json.RawMessage `json:"sshPublicKeys"`
	}
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return nil
	}

	entries := env.SSHPublicKeys
	if len(env.LoginProfiles) > 0 {
		var profile struct {
			SSHPublicKeys map[string]json.RawMessage `json:"sshPublicKeys"`
		}
		if err := json.Unmarshal(env.LoginProfiles[0], &profile); err != nil {
			return nil
		}
		entries = profile.SSHPublicKeys
	}

	nowUsec := now.UnixMicro()
	var keys []string
	for _, raw := range entries {
		var entry map[string]json.RawMessage
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}

		key, ok := stringValue(entry["key"])
		if !ok || key == "" {
			continue
		}

		if expRaw, present := entry["expirationTimeUsec"]; present {
			if exp, ok := flexInt(expRaw); ok && exp <= nowUsec {
				continue
			}
		}

		keys = append(keys, key)
	}
	return keys
}

// flexInt reads an expiration timestamp sent as a JSON number or a
// numeric string. !ok means the value is not a usable timestamp and the
// field is ignored, leaving the entry unexpired.
func flexInt(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
