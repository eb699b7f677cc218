// Package oslogin decodes directory login profiles into POSIX account
// records and enforces the account invariants before a record reaches
// the caller.
//
// The directory returns untrusted JSON. Decoding projects it into a
// small set of typed values (Account, key lists, labels, authorization
// verdicts) at this boundary; nothing downstream touches raw JSON.
// Validation then completes an Account into a Passwd whose string
// fields live in a caller-owned buffer region, the layout the system
// account-lookup mechanism requires.
package oslogin

import (
	"fmt"

	"github.com/wonderfly/compute-image-packages/pkg/buffer"
)

const (
	// MinUID is the lowest uid the directory may assign. Everything
	// below is reserved for local system accounts and rejected.
	MinUID = 1000

	// DefaultShell is substituted when a profile carries no shell.
	DefaultShell = "/bin/bash"

	homeDirPrefix = "/home/"
)

// Passwd mirrors the C struct passwd layout: its byte-slice fields
// point into the buffer region the caller supplied for the lookup and
// stay valid for that region's lifetime. A Passwd is filled once per
// lookup and holds no storage of its own.
type Passwd struct {
	Name     []byte
	Password []byte
	UID      uint32
	GID      uint32
	Gecos    []byte
	HomeDir  []byte
	Shell    []byte
}

// String renders the record in passwd(5) colon form.
func (p *Passwd) String() string {
	return fmt.Sprintf("%s:%s:%d:%d:%s:%s:%s",
		p.Name, p.Password, p.UID, p.GID, p.Gecos, p.HomeDir, p.Shell)
}

// FillPasswd checks acct against the account invariants and writes the
// completed record into pw, drawing string storage from w. Rules apply
// in order and the first failure stops the fill: uid at least MinUID,
// gid non-zero (DecodeAccount already mapped a zero gid to the uid),
// username non-empty. An empty home directory becomes /home/<username>
// and an empty shell becomes DefaultShell. Gecos and password are
// always written empty; the directory never supplies them.
//
// On any error pw is not safe to read. A capacity error is not
// resumable: the caller retries the whole lookup with a larger region.
func FillPasswd(acct Account, pw *Passwd, w *buffer.Writer) error {
	if acct.UID < MinUID {
		return fmt.Errorf("uid %d is below the minimum %d: %w", acct.UID, MinUID, ErrInvalidData)
	}
	if acct.GID == 0 {
		return fmt.Errorf("gid is unset: %w", ErrInvalidData)
	}
	if acct.Username == "" {
		return fmt.Errorf("username is empty: %w", ErrInvalidData)
	}

	var err error
	if pw.Name, err = w.AppendString(acct.Username); err != nil {
		return err
	}

	home := acct.HomeDir
	if home == "" {
		home = homeDirPrefix + acct.Username
	}
	if pw.HomeDir, err = w.AppendString(home); err != nil {
		return err
	}

	shell := acct.Shell
	if shell == "" {
		shell = DefaultShell
	}
	if pw.Shell, err = w.AppendString(shell); err != nil {
		return err
	}

	if pw.Gecos, err = w.AppendString(""); err != nil {
		return err
	}
	if pw.Password, err = w.AppendString(""); err != nil {
		return err
	}

	pw.UID = acct.UID
	pw.GID = acct.GID
	return nil
}

// DecodePasswd decodes the first account entry of payload and completes
// it into pw, drawing string storage from w.
func DecodePasswd(payload string, pw *Passwd, w *buffer.Writer) error {
	acct, err := DecodeAccount(payload)
	if err != nil {
		return err
	}
	return FillPasswd(acct, pw, w)
}
