// Command authorized-keys prints the SSH public keys of a user, one
// per line, for use as an sshd AuthorizedKeysCommand.
//
// The command never fails loudly: on any error it prints nothing and
// exits 0, so sshd simply finds no keys and falls back to its other
// authentication methods. A missing key must deny a login, not break
// the sshd pipeline.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/wonderfly/compute-image-packages/internal/logger"
	"github.com/wonderfly/compute-image-packages/pkg/config"
	"github.com/wonderfly/compute-image-packages/pkg/directory"
	"github.com/wonderfly/compute-image-packages/pkg/resolver"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <username>\n", os.Args[0])
		os.Exit(1)
	}
	run(context.Background(), os.Stdout, os.Args[1])
}

func run(ctx context.Context, out io.Writer, username string) {
	cfg, err := config.Load(os.Getenv("OSLOGIN_CONFIG"))
	if err != nil {
		cfg = config.GetDefaultConfig()
	}

	// Keys go to stdout for sshd; logs must stay off it.
	logOutput := cfg.Logging.Output
	if logOutput == "stdout" {
		logOutput = "stderr"
	}
	_ = logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: logOutput,
	})

	client := directory.New(cfg.Directory.Endpoint,
		directory.WithTimeout(cfg.Directory.Timeout),
	)
	res := resolver.New(client)

	ok, err := res.CheckAuthorization(ctx, username, "login")
	if err != nil {
		logger.DebugCtx(ctx, "Authorization check failed",
			logger.KeyUsername, username, logger.KeyError, err)
		return
	}
	if !ok {
		logger.DebugCtx(ctx, "Login policy denied",
			logger.KeyUsername, username)
		return
	}

	keys, err := res.SSHKeys(ctx, username)
	if err != nil {
		logger.DebugCtx(ctx, "Key fetch failed",
			logger.KeyUsername, username, logger.KeyError, err)
		return
	}
	for _, key := range keys {
		_, _ = fmt.Fprintln(out, key)
	}
}
