package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zx06/wmicmd/internal/command"
	"github.com/zx06/wmicmd/internal/errors"
	"github.com/zx06/wmicmd/internal/switches"
	"github.com/zx06/wmicmd/internal/wmi/wmitest"
)

type fakeQuery struct {
	hidden bool
	err    error
	ran    *int
}

func (p fakeQuery) Spec() command.Spec {
	return command.Spec{
		Name:        "query",
		Description: "Execute a query",
		Usage:       "query [options] <wql>",
		Hidden:      p.hidden,
		Table: append(switches.HelpSwitches("Display the command options syntax"),
			switches.Definition{ID: switches.Hostnames, Short: "s", Long: "hosts", Cardinality: switches.Multiple, Argument: switches.Required, ArgName: "host", Help: "The hosts to query"},
		),
	}
}

func (p fakeQuery) Run(ctx context.Context, env *command.Env, parsed *switches.Parsed) (int, error) {
	if p.ran != nil {
		*p.ran++
	}
	if _, err := env.Session(); err != nil {
		return 0, err
	}
	return 0, p.err
}

type recordingViewer struct{ opened []string }

func (v *recordingViewer) Open(path string) error {
	v.opened = append(v.opened, path)
	return nil
}

type harness struct {
	app      *Application
	provider *wmitest.Provider
	viewer   *recordingViewer
	ran      int
	manDir   string
}

func newHarness(t *testing.T, p fakeQuery) *harness {
	t.Helper()
	h := &harness{provider: &wmitest.Provider{}, viewer: &recordingViewer{}, manDir: t.TempDir()}
	if p.ran == nil {
		p.ran = &h.ran
	}
	h.app = New(Options{
		Info:      command.AppInfo{Name: "wmicmd", Version: "1.2.3", Commit: "abc123", Date: "2026-01-01", Copyright: "(C) wmicmd authors"},
		Commands:  []Entry{{Name: "query", New: func() command.Runner { return p }}},
		Provider:  h.provider,
		ManualDir: h.manDir,
		Viewer:    h.viewer,
	})
	return h
}

func (h *harness) run(args ...string) (int, string, string) {
	var out, errOut bytes.Buffer
	code := h.app.Run(context.Background(), append([]string{"wmicmd"}, args...), strings.NewReader(""), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_CommandLookupIgnoresCase(t *testing.T) {
	for _, name := range []string{"query", "QUERY", "Query", "qUeRy"} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, fakeQuery{})
			code, _, stderr := h.run(name, "SELECT")
			if code != 0 {
				t.Fatalf("exit=%d stderr=%q", code, stderr)
			}
			if h.ran != 1 {
				t.Errorf("ran=%d", h.ran)
			}
		})
	}
}

func TestRun_SessionScopedToCommand(t *testing.T) {
	h := newHarness(t, fakeQuery{})
	if code, _, _ := h.run("query"); code != 0 {
		t.Fatalf("exit=%d", code)
	}
	if h.provider.Acquired() != 1 || h.provider.Released() != 1 {
		t.Errorf("acquired=%d released=%d", h.provider.Acquired(), h.provider.Released())
	}
}

func TestRun_SessionReleasedOnError(t *testing.T) {
	h := newHarness(t, fakeQuery{err: errors.New(errors.CodeQueryFailed, "Query failed on '.'", nil)})
	code, _, stderr := h.run("query")
	if code != int(errors.ExitQuery) {
		t.Errorf("exit=%d", code)
	}
	if stderr != "ERROR: Query failed on '.'\n" {
		t.Errorf("stderr=%q", stderr)
	}
	if h.provider.Released() != 1 {
		t.Error("session must be released when the command fails")
	}
}

func TestRun_CommandHelpAcquiresNothing(t *testing.T) {
	for _, arg := range []string{"-?", "-h", "--help"} {
		t.Run(arg, func(t *testing.T) {
			h := newHarness(t, fakeQuery{})
			code, stdout, _ := h.run("query", arg)
			if code != 0 {
				t.Fatalf("exit=%d", code)
			}
			if h.ran != 0 || h.provider.Acquired() != 0 {
				t.Errorf("ran=%d acquired=%d", h.ran, h.provider.Acquired())
			}
			for _, want := range []string{"Execute a query\n\nUSAGE: wmicmd query [options] <wql>\n\n", "-?, -h, --help", "-s, --hosts <host>"} {
				if !strings.Contains(stdout, want) {
					t.Errorf("missing %q in:\n%s", want, stdout)
				}
			}
		})
	}
}

func TestRun_NoCommand(t *testing.T) {
	h := newHarness(t, fakeQuery{})
	code, stdout, stderr := h.run()
	if code != int(errors.ExitUsage) {
		t.Errorf("exit=%d", code)
	}
	if stdout != "" || stderr != "ERROR: No command specified\n" {
		t.Errorf("stdout=%q stderr=%q", stdout, stderr)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	h := newHarness(t, fakeQuery{})
	code, _, stderr := h.run("unknowncmd")
	if code != int(errors.ExitUsage) {
		t.Errorf("exit=%d", code)
	}
	if stderr != "ERROR: Unknown command: 'unknowncmd'\n" {
		t.Errorf("stderr=%q", stderr)
	}
	if h.provider.Acquired() != 0 {
		t.Error("unknown command must not acquire a session")
	}
}

func TestRun_Version(t *testing.T) {
	for _, arg := range []string{"-v", "--version", "/v", "/version", "-version", "--v"} {
		t.Run(arg, func(t *testing.T) {
			h := newHarness(t, fakeQuery{})
			code, stdout, _ := h.run(arg)
			if code != 0 {
				t.Fatalf("exit=%d", code)
			}
			if !strings.HasPrefix(stdout, "\nwmicmd v1.2.3\n") {
				t.Errorf("stdout=%q", stdout)
			}
			if !strings.Contains(stdout, "commit abc123, built 2026-01-01") || !strings.Contains(stdout, "(C) wmicmd authors") {
				t.Errorf("stdout=%q", stdout)
			}
		})
	}
}

func TestRun_Usage(t *testing.T) {
	h := newHarness(t, fakeQuery{})
	code, stdout, _ := h.run("/?")
	if code != 0 {
		t.Fatalf("exit=%d", code)
	}
	for _, want := range []string{
		"\nUSAGE: wmicmd <command> [options] ...\n",
		"where <command> is one of:-\n\nquery           Execute a query\n",
		"For help on an individual command use:-\n\nwmicmd <command> -?\n",
		"Non-command options:-\n",
		"-?, -h, --help",
		"-v, --version",
		"--manual",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("missing %q in:\n%s", want, stdout)
		}
	}
}

func TestRun_UsageHidesHiddenCommands(t *testing.T) {
	h := newHarness(t, fakeQuery{hidden: true})
	_, stdout, _ := h.run("-h")
	if strings.Contains(stdout, "Execute a query") {
		t.Errorf("hidden command listed:\n%s", stdout)
	}
}

func TestRun_GlobalPrecedence(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-?", "-v"}, "USAGE:"},
		{[]string{"-v", "-?"}, "USAGE:"},
		{[]string{"--manual", "-v"}, "wmicmd v1.2.3"},
		{[]string{"--manual", "--help"}, "USAGE:"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			h := newHarness(t, fakeQuery{})
			code, stdout, _ := h.run(tt.args...)
			if code != 0 {
				t.Fatalf("exit=%d", code)
			}
			if !strings.Contains(stdout, tt.want) {
				t.Errorf("stdout=%q, want %q", stdout, tt.want)
			}
			if len(h.viewer.opened) != 0 {
				t.Error("manual opened despite higher-precedence switch")
			}
		})
	}
}

func TestRun_ManualMissing(t *testing.T) {
	h := newHarness(t, fakeQuery{})
	code, stdout, stderr := h.run("--manual")
	if code != 0 {
		t.Errorf("exit=%d", code)
	}
	want := "ERROR: Manual missing - '" + filepath.Join(h.manDir, "wmicmd.html") + "'\n"
	if stdout != "" || stderr != want {
		t.Errorf("stdout=%q stderr=%q want %q", stdout, stderr, want)
	}
}

func TestRun_ManualPrefersMHT(t *testing.T) {
	h := newHarness(t, fakeQuery{})
	for _, name := range []string{"wmicmd.mht", "wmicmd.html"} {
		if err := os.WriteFile(filepath.Join(h.manDir, name), []byte("manual"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	code, _, stderr := h.run("/manual")
	if code != 0 || stderr != "" {
		t.Fatalf("exit=%d stderr=%q", code, stderr)
	}
	if len(h.viewer.opened) != 1 || filepath.Base(h.viewer.opened[0]) != "wmicmd.mht" {
		t.Errorf("opened=%v", h.viewer.opened)
	}
}

func TestRun_GlobalParseError(t *testing.T) {
	h := newHarness(t, fakeQuery{})
	code, _, stderr := h.run("--bogus")
	if code != int(errors.ExitUsage) {
		t.Errorf("exit=%d", code)
	}
	if !strings.HasPrefix(stderr, "ERROR: ") {
		t.Errorf("stderr=%q", stderr)
	}
}

func TestBuildSpec(t *testing.T) {
	h := newHarness(t, fakeQuery{})
	s := h.app.BuildSpec()
	if s.SchemaVersion != 1 || s.Name != "wmicmd" || s.Version != "1.2.3" {
		t.Fatalf("spec=%+v", s)
	}
	if len(s.ErrorCodes) != len(errors.AllCodes()) {
		t.Errorf("error codes=%v", s.ErrorCodes)
	}
	if len(s.Commands) != 1 || s.Commands[0].Usage != "wmicmd query [options] <wql>" {
		t.Fatalf("commands=%+v", s.Commands)
	}
	if len(s.Global) != 4 {
		t.Errorf("global=%+v", s.Global)
	}

	hidden := newHarness(t, fakeQuery{hidden: true})
	if got := hidden.app.BuildSpec().Commands; len(got) != 0 {
		t.Errorf("hidden commands exported: %+v", got)
	}
}

func TestRun_GlobalRejectsStrayArgument(t *testing.T) {
	h := newHarness(t, fakeQuery{})
	code, stdout, stderr := h.run("-v", "extra")
	if code != int(errors.ExitUsage) {
		t.Errorf("exit=%d", code)
	}
	if stdout != "" {
		t.Errorf("stdout=%q", stdout)
	}
	if stderr != "ERROR: Unexpected argument 'extra'\n" {
		t.Errorf("stderr=%q", stderr)
	}
}

func TestDisplayVersion(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1.2.3", "v1.2.3"},
		{"0.1.0-rc1", "v0.1.0-rc1"},
		{"dev", "dev"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := displayVersion(tt.in); got != tt.want {
			t.Errorf("displayVersion(%q)=%q want %q", tt.in, got, tt.want)
		}
	}
}

func TestRun_LogsSessionRelease(t *testing.T) {
	var logs bytes.Buffer
	a := New(Options{
		Info:     command.AppInfo{Name: "wmicmd", Version: "1.2.3"},
		Commands: []Entry{{Name: "query", New: func() command.Runner { return fakeQuery{} }}},
		Provider: &wmitest.Provider{},
		Logger:   slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
	var out, errOut bytes.Buffer
	if code := a.Run(context.Background(), []string{"wmicmd", "query"}, strings.NewReader(""), &out, &errOut); code != 0 {
		t.Fatalf("exit=%d stderr=%q", code, errOut.String())
	}
	if !strings.Contains(logs.String(), "releasing wmi session") {
		t.Errorf("logs=%q", logs.String())
	}

	logs.Reset()
	if code := a.Run(context.Background(), []string{"wmicmd", "query", "-?"}, strings.NewReader(""), &out, &errOut); code != 0 {
		t.Fatalf("exit=%d", code)
	}
	if strings.Contains(logs.String(), "releasing wmi session") {
		t.Errorf("help run released a session it never acquired: %q", logs.String())
	}
}
