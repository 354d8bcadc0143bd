package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/zx06/wmicmd/internal/app"
	"github.com/zx06/wmicmd/internal/command"
	"github.com/zx06/wmicmd/internal/log"
	"github.com/zx06/wmicmd/internal/wmi"
)

// Build-time variables (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const appName = "wmicmd"

func main() {
	exit := run()
	os.Exit(exit)
}

// run is the main entry point
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	level := log.NewLevel()
	a := app.New(app.Options{
		Info:     appInfo(),
		Commands: registry(defaultDeps()),
		Provider: wmi.DefaultProvider(),
		Logger:   log.New(os.Stderr, level),
		Level:    level,
	})
	return a.Run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
}

func appInfo() command.AppInfo {
	return command.AppInfo{
		Name:      appName,
		Version:   version,
		Commit:    commit,
		Date:      date,
		Copyright: "Copyright (C) the wmicmd authors",
	}
}

// registry lists every command the application can dispatch to, in
// usage order.
func registry(d deps) []app.Entry {
	return []app.Entry{
		{Name: "query", New: func() command.Runner { return &queryCmd{deps: d} }},
		{Name: "profiles", New: func() command.Runner { return &profilesCmd{deps: d} }},
		{Name: "spec", New: func() command.Runner { return specCmd{} }},
		{Name: "mcp", New: func() command.Runner { return &mcpCmd{deps: d} }},
		{Name: "completion", New: func() command.Runner { return completionCmd{} }},
		{Name: completeCmdName, New: func() command.Runner { return completeCmd{name: completeCmdName, deps: d} }},
		{Name: completeNoDescCmdName, New: func() command.Runner { return completeCmd{name: completeNoDescCmdName, deps: d} }},
	}
}
