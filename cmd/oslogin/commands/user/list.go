package user

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonderfly/compute-image-packages/cmd/oslogin/commands/cmdutil"
	"github.com/wonderfly/compute-image-packages/pkg/buffer"
	"github.com/wonderfly/compute-image-packages/pkg/oslogin"
	"github.com/wonderfly/compute-image-packages/pkg/resolver"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Enumerate all users",
	Long: `Enumerate every user in the directory, page by page.

Entries with no usable account are skipped with a warning: profiles
without POSIX data, and ones that fail validation (uid below the
minimum, missing username).

Examples:
  # List users as table
  oslogin user list

  # List as JSON
  oslogin user list -o json`,
	RunE: runList,
}

// RecordList is a list of records for table rendering.
type RecordList []Record

// Headers implements TableRenderer.
func (rl RecordList) Headers() []string {
	return []string{"USERNAME", "UID", "GID", "HOME", "SHELL"}
}

// Rows implements TableRenderer.
func (rl RecordList) Rows() [][]string {
	rows := make([][]string, 0, len(rl))
	for _, r := range rl {
		rows = append(rows, []string{
			r.Name,
			strconv.FormatUint(uint64(r.UID), 10),
			strconv.FormatUint(uint64(r.GID), 10),
			r.HomeDir,
			r.Shell,
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	res, err := cmdutil.GetResolver()
	if err != nil {
		return err
	}
	buf, err := cmdutil.NewBuffer()
	if err != nil {
		return err
	}

	records, err := collectRecords(cmd.Context(), res, buf)
	if err != nil {
		return err
	}

	return cmdutil.PrintOutput(os.Stdout, records, len(records) == 0, "No users found.", records)
}

// collectRecords drains the enumeration into a record list. Bad entries
// cost a warning, not the listing: the directory legitimately serves
// profiles without POSIX data (decoded as not-found) next to corrupt
// ones (invalid data), and both are skipped.
func collectRecords(ctx context.Context, res *resolver.Resolver, buf *buffer.Writer) (RecordList, error) {
	res.ResetEnumeration()

	var records RecordList
	for {
		// Each record borrows the buffer region, so copy the fields
		// out before the next iteration reuses it.
		buf.Reset()

		var pw oslogin.Passwd
		err := res.NextEntry(ctx, &pw, buf)
		if errors.Is(err, resolver.Done) {
			break
		}
		if err != nil {
			if errors.Is(err, oslogin.ErrInvalidData) || errors.Is(err, oslogin.ErrNotFound) {
				cmdutil.PrintWarning(fmt.Sprintf("skipping directory entry with no usable account: %v", err))
				continue
			}
			return nil, fmt.Errorf("failed to enumerate users: %w", err)
		}
		records = append(records, recordOf(&pw))
	}
	return records, nil
}
