package user

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonderfly/compute-image-packages/cmd/oslogin/commands/cmdutil"
	"github.com/wonderfly/compute-image-packages/pkg/oslogin"
)

var showUID uint32

var showCmd = &cobra.Command{
	Use:   "show [username]",
	Short: "Show a user's passwd record",
	Long: `Resolve a user and print the passwd record.

Pass a username as the argument, or --uid to look up by uid.

Examples:
  # Look up by name
  oslogin user show alice

  # Look up by uid
  oslogin user show --uid 1001

  # As JSON
  oslogin user show alice -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().Uint32Var(&showUID, "uid", 0, "Look up by uid instead of username")
}

// SingleRecordList wraps a single record for table rendering.
type SingleRecordList []Record

// Headers implements TableRenderer.
func (rl SingleRecordList) Headers() []string {
	return []string{"FIELD", "VALUE"}
}

// Rows implements TableRenderer.
func (rl SingleRecordList) Rows() [][]string {
	if len(rl) == 0 {
		return nil
	}
	r := rl[0]
	return [][]string{
		{"Username", r.Name},
		{"UID", strconv.FormatUint(uint64(r.UID), 10)},
		{"GID", strconv.FormatUint(uint64(r.GID), 10)},
		{"Home", r.HomeDir},
		{"Shell", r.Shell},
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && showUID == 0 {
		return fmt.Errorf("a username argument or --uid is required")
	}
	if len(args) == 1 && showUID != 0 {
		return fmt.Errorf("a username argument and --uid are mutually exclusive")
	}

	res, err := cmdutil.GetResolver()
	if err != nil {
		return err
	}
	buf, err := cmdutil.NewBuffer()
	if err != nil {
		return err
	}

	var pw oslogin.Passwd
	if len(args) == 1 {
		err = res.LookupByName(cmd.Context(), args[0], &pw, buf)
	} else {
		err = res.LookupByUID(cmd.Context(), showUID, &pw, buf)
	}
	if err != nil {
		if errors.Is(err, oslogin.ErrNotFound) {
			return fmt.Errorf("user not found")
		}
		return fmt.Errorf("failed to resolve user: %w", err)
	}

	rec := recordOf(&pw)
	return cmdutil.PrintResource(os.Stdout, rec, SingleRecordList{rec})
}
