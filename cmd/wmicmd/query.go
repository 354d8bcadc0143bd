package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/zx06/wmicmd/internal/app"
	"github.com/zx06/wmicmd/internal/command"
	"github.com/zx06/wmicmd/internal/errors"
	"github.com/zx06/wmicmd/internal/output"
	"github.com/zx06/wmicmd/internal/switches"
	"github.com/zx06/wmicmd/internal/wmi"
)

// queryCmd runs one WQL query against one or more hosts.
type queryCmd struct {
	deps deps
}

func (c *queryCmd) Spec() command.Spec {
	table := append(switches.HelpSwitches("Display the command options syntax"),
		switches.Definition{ID: switches.Hostnames, Short: "s", Long: "hosts", Cardinality: switches.Multiple, Argument: switches.Required, ArgName: "host", Help: "The remote host(s) to query (comma separated, repeatable)"},
		switches.Definition{ID: switches.HostsFile, Short: "f", Long: "hosts-file", Argument: switches.Required, ArgName: "path", Help: "The file with a list of hosts, one per line"},
		switches.Definition{ID: switches.User, Short: "u", Long: "user", Argument: switches.Required, ArgName: "login", Help: "The login name for the remote host(s)"},
		switches.Definition{ID: switches.Password, Short: "p", Long: "password", Argument: switches.Required, ArgName: "password", Help: "The password for the remote host(s) (or keyring:<account>)"},
		switches.Definition{ID: switches.Namespace, Short: "n", Long: "namespace", Argument: switches.Required, ArgName: "namespace", Help: `The WMI namespace (default: root\cimv2)`},
		switches.Definition{ID: switches.ShowHost, Long: "show-host", Help: "Show the hostname in the output"},
		switches.Definition{ID: switches.ShowTypes, Long: "show-types", Help: "Show the CIM type of each value"},
		switches.Definition{ID: switches.NoFormat, Long: "no-format", Help: "Display raw values"},
		switches.Definition{ID: switches.Align, Short: "a", Long: "align", Help: "Align the property values"},
		switches.Definition{ID: switches.Top, Short: "t", Long: "top", Argument: switches.Required, ArgName: "count", Validate: switches.PositiveInt, Help: "Only show the first N objects per host"},
		formatSwitch(output.Formats(), "Output format: text|table|json|yaml|csv|auto"),
	)
	table = append(table, configSwitches()...)
	table = append(table, switches.Definition{ID: switches.Verbose, Long: "verbose", Help: "Log diagnostics to stderr"})
	return command.Spec{
		Name:        "query",
		Description: "Execute a query",
		Usage:       "query [options] <wql>",
		Table:       table,
	}
}

func (c *queryCmd) Run(ctx context.Context, env *command.Env, parsed *switches.Parsed) (int, error) {
	if parsed.IsSet(switches.Verbose) && env.Level != nil {
		env.Level.Set(slog.LevelDebug)
	}

	args := parsed.Args()
	switch {
	case len(args) == 0:
		return usageError("No query specified")
	case len(args) > 1:
		return usageError("Only one query may be specified, got %d", len(args))
	}
	wql := args[0]

	resolved, xe := c.deps.resolveConfig(parsed)
	if xe != nil {
		return 0, xe
	}
	p := resolved.Profile
	if resolved.ProfileName != "" {
		env.Logger.Debug("using profile", "name", resolved.ProfileName, "config", resolved.ConfigPath)
	}

	format, xe := parseOutputFormat(parsed.Value(switches.Format), p.Format)
	if xe != nil {
		return 0, xe
	}

	top := p.Top
	if parsed.IsSet(switches.Top) {
		// 已由 PositiveInt 校验
		top, _ = strconv.Atoi(parsed.Value(switches.Top))
	}

	opts := app.TargetOptions{
		Hosts:     parsed.Values(switches.Hostnames),
		HostsFile: parsed.Value(switches.HostsFile),
		User:      parsed.Value(switches.User),
		Password:  parsed.Value(switches.Password),
		Namespace: parsed.Value(switches.Namespace),
		Profile:   p,
		Keyring:   c.deps.keyring,
	}
	user := firstNonEmpty(opts.User, p.User)
	if user != "" && opts.Password == "" && p.Password == "" && c.deps.prompt != nil {
		pw, err := c.deps.prompt(env.In, env.Err, user)
		if err != nil {
			return 0, err
		}
		opts.Password = pw
	}

	targets, xe := app.ResolveTargets(opts)
	if xe != nil {
		return 0, xe
	}

	sess, err := env.Session()
	if err != nil {
		return 0, err
	}

	env.Logger.Debug("running query", "hosts", len(targets), "top", top)
	results, last := app.RunQueries(ctx, sess, targets, wql, wmi.QueryOptions{Top: top}, env.Logger)
	failedAll := last != nil && allFailed(results)
	// 单个主机失败时只报告一次
	if failedAll && len(results) == 1 {
		return 0, last
	}

	w := output.New(env.Out, env.Err)
	if err := w.WriteResults(format, results, output.ResultOptions{
		ShowHost:  parsed.IsSet(switches.ShowHost) || p.ShowHost,
		ShowTypes: parsed.IsSet(switches.ShowTypes) || p.ShowTypes,
		NoFormat:  parsed.IsSet(switches.NoFormat) || p.NoFormat,
		Align:     parsed.IsSet(switches.Align) || p.Align,
	}); err != nil {
		return 0, errors.AsOrWrap(err)
	}

	if last != nil && (failedAll || ctx.Err() != nil) {
		return 0, last
	}
	// 部分失败的主机已在输出中逐个报告
	if last != nil {
		return int(errors.ExitCodeFor(last.Code)), nil
	}
	return int(errors.ExitOK), nil
}

// allFailed reports whether no host returned objects. A run cut short
// by cancellation may have no results at all.
func allFailed(results []output.HostResult) bool {
	for _, r := range results {
		if r.Error == "" {
			return false
		}
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
