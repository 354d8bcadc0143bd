package main

import (
	"context"
	"io"
	"log/slog"
	"net"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zx06/wmicmd/internal/command"
	"github.com/zx06/wmicmd/internal/config"
	"github.com/zx06/wmicmd/internal/errors"
	mcp_pkg "github.com/zx06/wmicmd/internal/mcp"
	"github.com/zx06/wmicmd/internal/secret"
	"github.com/zx06/wmicmd/internal/switches"
)

// mcpCmd serves the query tool over MCP until the client disconnects
// or the process is interrupted.
type mcpCmd struct {
	deps deps
	// listen is net.Listen unless a test replaces it.
	listen func(network, addr string) (net.Listener, error)
}

func (c *mcpCmd) Spec() command.Spec {
	table := append(switches.HelpSwitches("Display the command options syntax"),
		switches.Definition{ID: switches.Transport, Long: "transport", Argument: switches.Required, ArgName: "transport",
			Allowed: []string{mcp_pkg.TransportStdio, mcp_pkg.TransportStreamableHTTP}, Help: "MCP transport: stdio|streamable_http (default: stdio)"},
		switches.Definition{ID: switches.HTTPAddr, Long: "http-addr", Argument: switches.Required, ArgName: "addr", Help: "Streamable HTTP listen address (default: " + mcp_pkg.DefaultHTTPAddr + ")"},
		switches.Definition{ID: switches.HTTPAuthToken, Long: "http-auth-token", Argument: switches.Required, ArgName: "token", Help: "Streamable HTTP bearer token (required for streamable_http)"},
	)
	table = append(table, configSwitches()...)
	table = append(table, switches.Definition{ID: switches.Verbose, Long: "verbose", Help: "Log diagnostics to stderr"})
	return command.Spec{
		Name:        "mcp",
		Description: "Start an MCP server for AI assistant integration",
		Usage:       "mcp [options]",
		Table:       table,
	}
}

func (c *mcpCmd) Run(ctx context.Context, env *command.Env, parsed *switches.Parsed) (int, error) {
	if parsed.IsSet(switches.Verbose) && env.Level != nil {
		env.Level.Set(slog.LevelDebug)
	}
	if len(parsed.Args()) > 0 {
		return usageError("Unexpected argument '%s'", parsed.Args()[0])
	}

	cfg, _, xe := config.LoadConfig(config.Options{
		ConfigPath: parsed.Value(switches.Config),
		WorkDir:    c.deps.workDir,
		HomeDir:    c.deps.homeDir,
	})
	if xe != nil {
		return 0, xe
	}
	if parsed.IsSet(switches.Profile) {
		if _, ok := cfg.Profiles[parsed.Value(switches.Profile)]; !ok {
			return 0, errors.New(errors.CodeCfgInvalid, "profile does not exist",
				map[string]any{"name": parsed.Value(switches.Profile), "reason": "profile_not_found"})
		}
	}

	resolved, xe := c.resolveOptions(parsed, cfg)
	if xe != nil {
		return 0, xe
	}

	server, err := mcp_pkg.CreateServer(mcp_pkg.ServerOptions{
		Name:           env.App.Name,
		Version:        env.App.Version,
		Config:         &cfg,
		DefaultProfile: parsed.Value(switches.Profile),
		Session:        env.Session,
		Logger:         env.Logger,
	})
	if err != nil {
		return 0, errors.AsOrWrap(err)
	}

	switch resolved.transport {
	case mcp_pkg.TransportStreamableHTTP:
		handler, err := mcp_pkg.NewStreamableHTTPHandler(server, resolved.httpAuthToken)
		if err != nil {
			return 0, err
		}
		listen := c.listen
		if listen == nil {
			listen = net.Listen
		}
		ln, err := listen("tcp", resolved.httpAddr)
		if err != nil {
			return 0, errors.Wrap(errors.CodeInternal, "failed to listen", map[string]any{"addr": resolved.httpAddr}, err)
		}
		env.Logger.Info("mcp server listening", "addr", ln.Addr().String())
		return 0, mcp_pkg.ServeHTTP(ctx, ln, handler)
	default:
		transport := &mcp.IOTransport{Reader: io.NopCloser(env.In), Writer: nopWriteCloser{env.Out}}
		if err := server.Run(ctx, transport); err != nil && ctx.Err() == nil {
			return 0, errors.Wrap(errors.CodeInternal, "mcp server failed", nil, err)
		}
		return 0, nil
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type mcpServerResolved struct {
	transport     string
	httpAddr      string
	httpAuthToken string
}

// resolveOptions applies CLI > ENV > config to the transport settings.
func (c *mcpCmd) resolveOptions(parsed *switches.Parsed, cfg config.File) (mcpServerResolved, *errors.XError) {
	getenv := c.deps.getenv
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	transport := firstNonEmpty(
		parsed.Value(switches.Transport),
		getenv("WMICMD_MCP_TRANSPORT"),
		cfg.MCP.Transport,
		mcp_pkg.TransportStdio,
	)
	if transport != mcp_pkg.TransportStdio && transport != mcp_pkg.TransportStreamableHTTP {
		return mcpServerResolved{}, errors.New(errors.CodeCfgInvalid, "invalid mcp transport", map[string]any{"transport": transport})
	}

	httpAddr := firstNonEmpty(
		parsed.Value(switches.HTTPAddr),
		getenv("WMICMD_MCP_HTTP_ADDR"),
		cfg.MCP.HTTP.Addr,
		mcp_pkg.DefaultHTTPAddr,
	)

	authToken := firstNonEmpty(
		parsed.Value(switches.HTTPAuthToken),
		getenv("WMICMD_MCP_HTTP_AUTH_TOKEN"),
	)
	if authToken == "" && cfg.MCP.HTTP.AuthToken != "" {
		secretValue, xe := secret.Resolve(cfg.MCP.HTTP.AuthToken, secret.Options{
			AllowPlaintext: cfg.MCP.HTTP.AllowPlaintextToken,
			Keyring:        c.deps.keyring,
		})
		if xe != nil {
			return mcpServerResolved{}, xe
		}
		authToken = secretValue
	}

	if transport == mcp_pkg.TransportStreamableHTTP && authToken == "" {
		return mcpServerResolved{}, errors.New(errors.CodeCfgInvalid, "streamable http transport requires auth token", nil)
	}

	return mcpServerResolved{
		transport:     transport,
		httpAddr:      httpAddr,
		httpAuthToken: authToken,
	}, nil
}
