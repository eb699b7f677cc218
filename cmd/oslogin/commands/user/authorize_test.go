package user

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonderfly/compute-image-packages/cmd/oslogin/commands/cmdutil"
	"github.com/wonderfly/compute-image-packages/internal/directorytest"
	"github.com/wonderfly/compute-image-packages/pkg/config"
)

func authorizeFixture(t *testing.T, endpoint string) {
	t.Helper()
	cmdutil.SetConfig(&config.Config{
		Directory: config.DirectoryConfig{
			Endpoint: endpoint,
			Timeout:  5 * time.Second,
			PageSize: 100,
		},
		NSS: config.NSSConfig{BufferSize: 4096},
	})
	t.Cleanup(func() {
		cmdutil.SetConfig(nil)
		cmdutil.SetExitCode(0)
	})
}

func TestRunAuthorize_Granted(t *testing.T) {
	srv := directorytest.New(directorytest.Profile{UID: 2000, Username: "alice"})
	defer srv.Close()
	srv.Authorize("alice", "login", true)
	authorizeFixture(t, srv.URL())

	authorizePolicy = "login"
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	err := runAuthorize(cmd, []string{"alice"})

	require.NoError(t, err)
	assert.Equal(t, 0, cmdutil.ExitCode())
}

func TestRunAuthorize_DeniedRecordsExitCode(t *testing.T) {
	srv := directorytest.New(directorytest.Profile{UID: 2000, Username: "alice"})
	defer srv.Close()
	srv.Authorize("alice", "adminLogin", false)
	authorizeFixture(t, srv.URL())

	// The command succeeds so the persistent teardown still runs; the
	// denial surfaces as a recorded exit code for main.
	authorizePolicy = "adminLogin"
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	err := runAuthorize(cmd, []string{"alice"})

	require.NoError(t, err)
	assert.Equal(t, 1, cmdutil.ExitCode())
}

func TestRunAuthorize_InvalidPolicy(t *testing.T) {
	authorizePolicy = "root"
	err := runAuthorize(&cobra.Command{}, []string{"alice"})
	assert.ErrorContains(t, err, "invalid policy")
}
