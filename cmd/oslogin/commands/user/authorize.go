package user

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonderfly/compute-image-packages/cmd/oslogin/commands/cmdutil"
)

var authorizePolicy string

var authorizeCmd = &cobra.Command{
	Use:   "authorize <username>",
	Short: "Check a login policy for a user",
	Long: `Ask the directory whether a user is granted a login policy.

The command exits 0 when the policy is granted and 1 when it is
denied, so it can gate scripts directly.

Examples:
  # Check interactive login
  oslogin user authorize alice --policy login

  # Check sudo-capable login
  oslogin user authorize alice --policy adminLogin`,
	Args: cobra.ExactArgs(1),
	RunE: runAuthorize,
}

func init() {
	authorizeCmd.Flags().StringVar(&authorizePolicy, "policy", "login", "Policy to check (login|adminLogin)")
}

// AuthorizeResult wraps an authorization decision for structured output.
type AuthorizeResult struct {
	Username   string `json:"username" yaml:"username"`
	Policy     string `json:"policy" yaml:"policy"`
	Authorized bool   `json:"authorized" yaml:"authorized"`
}

// Headers implements TableRenderer.
func (a AuthorizeResult) Headers() []string {
	return []string{"USERNAME", "POLICY", "AUTHORIZED"}
}

// Rows implements TableRenderer.
func (a AuthorizeResult) Rows() [][]string {
	authorized := "no"
	if a.Authorized {
		authorized = "yes"
	}
	return [][]string{{a.Username, a.Policy, authorized}}
}

func runAuthorize(cmd *cobra.Command, args []string) error {
	if authorizePolicy != "login" && authorizePolicy != "adminLogin" {
		return fmt.Errorf("invalid policy %q (must be login or adminLogin)", authorizePolicy)
	}

	res, err := cmdutil.GetResolver()
	if err != nil {
		return err
	}

	ok, err := res.CheckAuthorization(cmd.Context(), args[0], authorizePolicy)
	if err != nil {
		return fmt.Errorf("failed to check authorization: %w", err)
	}

	result := AuthorizeResult{Username: args[0], Policy: authorizePolicy, Authorized: ok}
	if err := cmdutil.PrintResource(os.Stdout, result, result); err != nil {
		return err
	}
	if !ok {
		// A denied verdict is exit 1, recorded for main rather than
		// exited here so the persistent teardown still runs.
		cmdutil.SetExitCode(1)
	}
	return nil
}
