package main

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zx06/wmicmd/internal/command"
	"github.com/zx06/wmicmd/internal/config"
	"github.com/zx06/wmicmd/internal/errors"
	"github.com/zx06/wmicmd/internal/switches"
)

const (
	completeCmdName       = cobra.ShellCompRequestCmd
	completeNoDescCmdName = cobra.ShellCompNoDescRequestCmd

	// helpSlotName fills cobra's help command slot. cobra offers the help
	// command even when hidden, so its lines are dropped from the output.
	helpSlotName = "__help"
)

var shells = []string{"bash", "zsh", "fish", "powershell"}

// completionCmd prints a shell completion script. The scripts call back
// into the hidden __complete command at tab time.
type completionCmd struct{}

func (completionCmd) Spec() command.Spec {
	return command.Spec{
		Name:        "completion",
		Description: "Generate a shell completion script",
		Usage:       "completion <" + strings.Join(shells, "|") + ">",
		Table:       switches.HelpSwitches("Display the command options syntax"),
	}
}

func (completionCmd) Run(_ context.Context, env *command.Env, parsed *switches.Parsed) (int, error) {
	args := parsed.Args()
	if len(args) != 1 {
		return usageError("Expected one shell name (%s)", strings.Join(shells, ", "))
	}
	root := completionTree(env.Catalog, deps{})
	if err := writeCompletion(root, strings.ToLower(args[0]), env.Out); err != nil {
		return 0, err
	}
	return 0, nil
}

func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	var err error
	switch shell {
	case "bash":
		err = root.GenBashCompletionV2(w, true)
	case "zsh":
		err = root.GenZshCompletion(w)
	case "fish":
		err = root.GenFishCompletion(w, true)
	case "powershell":
		err = root.GenPowerShellCompletionWithDesc(w)
	default:
		return errors.Newf(errors.CodeParse, "Unsupported shell '%s' (expected one of: %s)", shell, strings.Join(shells, ", "))
	}
	if err != nil {
		return errors.Wrap(errors.CodeInternal, "failed to write completion script", map[string]any{"shell": shell}, err)
	}
	return nil
}

// completeCmd is cobra's runtime completion back end, reached through
// the normal dispatch path as "<app> __complete <words...>".
type completeCmd struct {
	name string
	deps deps
}

func (c completeCmd) Spec() command.Spec {
	return command.Spec{
		Name:        c.name,
		Description: "Shell completion back end",
		Usage:       c.name + " <words...>",
		Hidden:      true,
		PassThrough: true,
	}
}

func (c completeCmd) Run(ctx context.Context, env *command.Env, parsed *switches.Parsed) (int, error) {
	root := completionTree(env.Catalog, c.deps)
	root.SetArgs(append([]string{c.name}, parsed.Args()...))
	var buf bytes.Buffer
	root.SetIn(env.In)
	root.SetOut(&buf)
	root.SetErr(env.Err)
	if err := root.ExecuteContext(ctx); err != nil {
		return 0, errors.Wrap(errors.CodeInternal, "completion failed", nil, err)
	}
	if _, err := io.WriteString(env.Out, dropHelpSlot(buf.String())); err != nil {
		return 0, errors.Wrap(errors.CodeInternal, "failed to write completions", nil, err)
	}
	return 0, nil
}

// dropHelpSlot removes the help command's candidate line from cobra's
// completion output.
func dropHelpSlot(out string) string {
	lines := strings.SplitAfter(out, "\n")
	kept := lines[:0]
	for _, line := range lines {
		name, _, _ := strings.Cut(strings.TrimSuffix(line, "\n"), "\t")
		if name == helpSlotName {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "")
}

// completionTree mirrors the catalogue as a cobra command tree. Only
// long-named switches are offered; their short forms ride along.
func completionTree(cat command.Catalog, d deps) *cobra.Command {
	root := &cobra.Command{
		Use:           cat.App.Name,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetHelpCommand(&cobra.Command{Use: helpSlotName, Hidden: true})
	addFlags(root, cat.Global, d)

	for _, spec := range cat.Commands {
		if spec.Hidden {
			continue
		}
		sub := &cobra.Command{
			Use:               spec.Name,
			Short:             spec.Description,
			ValidArgsFunction: cobra.NoFileCompletions,
			Run:               func(*cobra.Command, []string) {},
		}
		if spec.Name == "completion" {
			sub.ValidArgsFunction = nil
			sub.ValidArgs = shells
		}
		addFlags(sub, spec.Table, d)
		root.AddCommand(sub)
	}
	return root
}

func addFlags(cmd *cobra.Command, table switches.Table, d deps) {
	fs := cmd.Flags()
	for _, def := range table {
		if def.Long == "" || fs.Lookup(def.Long) != nil {
			continue
		}
		switch {
		case def.Argument == switches.None && def.Cardinality == switches.Multiple:
			fs.CountP(def.Long, def.Short, def.Help)
		case def.Argument == switches.None:
			fs.BoolP(def.Long, def.Short, false, def.Help)
		case def.Cardinality == switches.Multiple:
			fs.StringSliceP(def.Long, def.Short, nil, def.Help)
		default:
			fs.StringP(def.Long, def.Short, "", def.Help)
		}

		switch {
		case len(def.Allowed) > 0:
			_ = cmd.RegisterFlagCompletionFunc(def.Long, cobra.FixedCompletions(def.Allowed, cobra.ShellCompDirectiveNoFileComp))
		case def.ID == switches.HostsFile:
			_ = cmd.MarkFlagFilename(def.Long)
		case def.ID == switches.Config:
			_ = cmd.MarkFlagFilename(def.Long, "yaml", "yml")
		case def.ID == switches.Profile:
			_ = cmd.RegisterFlagCompletionFunc(def.Long, profileCompletion(d))
		case def.Argument != switches.None:
			_ = cmd.RegisterFlagCompletionFunc(def.Long, cobra.NoFileCompletions)
		}
	}
}

// profileCompletion offers the profile names of the file --config names,
// or of the default locations.
func profileCompletion(d deps) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		path, _ := cmd.Flags().GetString("config")
		cfg, _, xe := config.LoadConfig(config.Options{ConfigPath: path, WorkDir: d.workDir, HomeDir: d.homeDir})
		if xe != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var out []string
		for _, item := range config.ListProfiles(cfg) {
			if !strings.HasPrefix(item.Name, toComplete) {
				continue
			}
			if item.Description != "" {
				out = append(out, item.Name+"\t"+item.Description)
			} else {
				out = append(out, item.Name)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
