package user

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonderfly/compute-image-packages/cmd/oslogin/commands/cmdutil"
	"github.com/wonderfly/compute-image-packages/pkg/oslogin"
)

var emailCmd = &cobra.Command{
	Use:   "email <username>",
	Short: "Print a user's directory email",
	Long: `Resolve a user and print the email the directory knows them by.

The email is the profile name field, the identity sshd reports for
certificate-based authentication.

Examples:
  oslogin user email alice`,
	Args: cobra.ExactArgs(1),
	RunE: runEmail,
}

// EmailResult wraps the resolved email for structured output.
type EmailResult struct {
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email" yaml:"email"`
}

// Headers implements TableRenderer.
func (e EmailResult) Headers() []string {
	return []string{"USERNAME", "EMAIL"}
}

// Rows implements TableRenderer.
func (e EmailResult) Rows() [][]string {
	return [][]string{{e.Username, e.Email}}
}

func runEmail(cmd *cobra.Command, args []string) error {
	res, err := cmdutil.GetResolver()
	if err != nil {
		return err
	}

	email, err := res.Email(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, oslogin.ErrNotFound) {
			return fmt.Errorf("user not found")
		}
		return fmt.Errorf("failed to resolve email: %w", err)
	}

	result := EmailResult{Username: args[0], Email: email}
	return cmdutil.PrintResource(os.Stdout, result, result)
}
