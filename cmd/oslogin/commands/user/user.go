// Package user implements identity lookup commands for oslogin.
package user

import (
	"github.com/spf13/cobra"

	"github.com/wonderfly/compute-image-packages/pkg/oslogin"
)

// Cmd is the parent command for identity lookups.
var Cmd = &cobra.Command{
	Use:   "user",
	Short: "Identity lookups",
	Long: `Look up POSIX identity information in the directory.

These commands resolve usernames and uids against the configured
directory endpoint, the same way the NSS plugin does.

Examples:
  # Show a user's passwd record
  oslogin user show alice

  # Look up by uid
  oslogin user show --uid 1001

  # Enumerate all users
  oslogin user list

  # Print a user's SSH keys
  oslogin user keys alice

  # Check a login policy
  oslogin user authorize alice --policy login`,
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(keysCmd)
	Cmd.AddCommand(emailCmd)
	Cmd.AddCommand(authorizeCmd)
}

// Record is the serializable view of a resolved passwd entry.
type Record struct {
	Name    string `json:"name" yaml:"name"`
	UID     uint32 `json:"uid" yaml:"uid"`
	GID     uint32 `json:"gid" yaml:"gid"`
	HomeDir string `json:"home_dir" yaml:"home_dir"`
	Shell   string `json:"shell" yaml:"shell"`
}

func recordOf(pw *oslogin.Passwd) Record {
	return Record{
		Name:    string(pw.Name),
		UID:     pw.UID,
		GID:     pw.GID,
		HomeDir: string(pw.HomeDir),
		Shell:   string(pw.Shell),
	}
}
