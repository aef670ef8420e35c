package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/fernspiel/pkg/adapters/mcp"
	"github.com/aretw0/fernspiel/pkg/runner"
)

// MCPOptions configures the mcp command.
type MCPOptions struct {
	RunOptions
	// Transport is "stdio" or "sse".
	Transport string
	Version   string
}

// ExecuteMCP runs a phonebook controlled by an MCP client.
func ExecuteMCP(opts MCPOptions) error {
	// Stdio carries JSON-RPC, it cannot double as a dial
	opts.NoStdin = true
	opts.Serve = false
	opts.Quiet = true
	logger := createLogger(opts.Quiet, opts.Verbose)

	sm := runner.NewSignalManager()
	defer sm.Stop()

	env, err := setup(opts.RunOptions, logger, sm)
	if err != nil {
		return err
	}
	defer env.close()

	srv := mcp.NewServer(env.runner, opts.Version, mcp.WithLogger(logger))

	ctx, cancel := context.WithCancel(sm.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return ignoreCanceled(env.runner.Run(gctx))
	})

	switch opts.Transport {
	case "stdio", "":
		g.Go(func() error {
			// ServeStdio only returns once stdin is closed
			defer env.runner.Terminate()
			return srv.ServeStdio()
		})
	case "sse":
		addr := net.JoinHostPort(opts.Addr, strconv.Itoa(opts.Port))
		g.Go(func() error {
			return srv.ServeSSE(gctx, addr, "http://"+addr)
		})
	default:
		cancel()
		_ = g.Wait()
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", opts.Transport)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
