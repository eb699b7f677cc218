package oslogin

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Account holds the candidate fields decoded from one directory entry
// before validation. Zero values mean the field was absent from the
// payload; FillPasswd completes or rejects them.
type Account struct {
	UID      uint32
	GID      uint32
	Username string
	HomeDir  string
	Shell    string
}

// DecodeAccount extracts the first posix account entry from payload.
// The payload may be a bare profile carrying a posixAccounts array, or
// a directory listing whose first loginProfiles element wraps such a
// profile; later listing elements are ignored. ErrNotFound means no
// entry was present; ErrInvalidData means an entry was present but its
// recognized fields could not be used. Partial records are never
// returned: the first bad field aborts the decode.
func DecodeAccount(payload string) (Account, error) {
	entry, err := firstAccountEntry(payload)
	if err != nil {
		return Account{}, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil {
		return Account{}, fmt.Errorf("account entry is not an object: %w", ErrInvalidData)
	}

	var acct Account
	for key, raw := range fields {
		switch key {
		case "uid":
			n, ok := flexUint(raw)
			if !ok {
				return Account{}, fmt.Errorf("uid has a non-numeric type: %w", ErrInvalidData)
			}
			if n == 0 {
				// Zero means unset: an explicit uid that reads as zero is
				// unusable, not a valid account.
				return Account{}, fmt.Errorf("uid is zero or unparsable: %w", ErrInvalidData)
			}
			acct.UID = n
		case "gid":
			n, ok := flexUint(raw)
			if !ok {
				return Account{}, fmt.Errorf("gid has a non-numeric type: %w", ErrInvalidData)
			}
			acct.GID = n
		case "username":
			s, ok := stringValue(raw)
			if !ok {
				return Account{}, fmt.Errorf("username is not a string: %w", ErrInvalidData)
			}
			acct.Username = s
		case "homeDirectory":
			s, ok := stringValue(raw)
			if !ok {
				return Account{}, fmt.Errorf("homeDirectory is not a string: %w", ErrInvalidData)
			}
			acct.HomeDir = s
		case "shell":
			s, ok := stringValue(raw)
			if !ok {
				return Account{}, fmt.Errorf("shell is not a string: %w", ErrInvalidData)
			}
			acct.Shell = s
		}
	}

	if acct.GID == 0 {
		acct.GID = acct.UID
	}
	return acct, nil
}

// DecodeName returns the display name of the first profile in a listing
// payload, or "" when the shape does not match.
func DecodeName(payload string) string {
	var env struct {
		LoginProfiles []json.RawMessage `json:"loginProfiles"`
	}
	if err := json.Unmarshal([]byte(payload), &env); err != nil || len(env.LoginProfiles) == 0 {
		return ""
	}

	var profile struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(env.LoginProfiles[0], &profile); err != nil {
		return ""
	}
	return profile.Name
}

// DecodeAuthorization reads the boolean verdict of an authorize call.
// An absent or wrong-typed success field reads as a denial.
func DecodeAuthorization(payload string) bool {
	var resp struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return false
	}
	return resp.Success
}

// firstAccountEntry unwraps payload to the first element of its
// posixAccounts array, looking through a loginProfiles listing wrapper
// when one is present.
func firstAccountEntry(payload string) (json.RawMessage, error) {
	var env struct {
		LoginProfiles []json.RawMessage `json:"loginProfiles"`
		PosixAccounts []json.RawMessage `json:"posixAccounts"`
	}
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return nil, ErrNotFound
	}

	accounts := env.PosixAccounts
	if len(env.LoginProfiles) > 0 {
		var profile struct {
			PosixAccounts []json.RawMessage `json:"posixAccounts"`
		}
		if err := json.Unmarshal(env.LoginProfiles[0], &profile); err != nil {
			return nil, ErrNotFound
		}
		accounts = profile.PosixAccounts
	}

	if len(accounts) == 0 {
		return nil, ErrNotFound
	}
	return accounts[0], nil
}

// flexUint reads a uid or gid value the directory may send as a JSON
// number or a numeric string. Values outside the uint32 domain
// (negative, fractional, overflowing) and non-numeric strings coerce to
// 0, the unset sentinel. Other JSON types report !ok.
func flexUint(raw json.RawMessage) (uint32, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return 0, true
		}
		return uint32(n), true
	}
	if raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9') {
		n, err := strconv.ParseUint(string(raw), 10, 32)
		if err != nil {
			return 0, true
		}
		return uint32(n), true
	}
	return 0, false
}

// stringValue reads a JSON string, reporting !ok for any other type.
func stringValue(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
