package user

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"

	"github.com/wonderfly/compute-image-packages/cmd/oslogin/commands/cmdutil"
)

var keysFingerprint bool

var keysCmd = &cobra.Command{
	Use:   "keys <username>",
	Short: "Print a user's SSH public keys",
	Long: `Print the non-expired SSH public keys of a user, one per line.

The output matches the authorized_keys(5) format consumed by sshd.
With --fingerprint, each key is shown as its SHA256 fingerprint
instead.

Examples:
  # Print raw keys
  oslogin user keys alice

  # Print SHA256 fingerprints
  oslogin user keys alice --fingerprint

  # As JSON
  oslogin user keys alice -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runKeys,
}

func init() {
	keysCmd.Flags().BoolVar(&keysFingerprint, "fingerprint", false, "Print SHA256 fingerprints instead of raw keys")
}

// KeyList is a list of key lines for table rendering.
type KeyList []string

// Headers implements TableRenderer.
func (kl KeyList) Headers() []string {
	return []string{"KEY"}
}

// Rows implements TableRenderer.
func (kl KeyList) Rows() [][]string {
	rows := make([][]string, 0, len(kl))
	for _, k := range kl {
		rows = append(rows, []string{k})
	}
	return rows
}

func runKeys(cmd *cobra.Command, args []string) error {
	res, err := cmdutil.GetResolver()
	if err != nil {
		return err
	}

	keys, err := res.SSHKeys(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch keys: %w", err)
	}

	if keysFingerprint {
		fingerprints := make([]string, 0, len(keys))
		for _, k := range keys {
			pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(k))
			if err != nil {
				cmdutil.PrintWarning(fmt.Sprintf("skipping unparseable key: %v", err))
				continue
			}
			fingerprints = append(fingerprints, fmt.Sprintf("%s (%s)", ssh.FingerprintSHA256(pub), pub.Type()))
		}
		keys = fingerprints
	}

	return cmdutil.PrintOutput(os.Stdout, keys, len(keys) == 0, "No keys found.", KeyList(keys))
}
