package switches

import (
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/zx06/wmicmd/internal/errors"
)

// Policy selects which switch spellings the parser accepts.
type Policy int

const (
	// Unix accepts "-x" and "--long".
	Unix Policy = iota
	// AnyFormat also accepts "/x", "/long", "-long" and "--x".
	AnyFormat
)

// Parse applies table to args (program and command names already
// removed). The returned error is always a *errors.XError.
func Parse(table Table, args []string, policy Policy) (*Parsed, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if policy == AnyFormat {
		args = normalize(table, args)
	}
	if err := checkArguments(table, args); err != nil {
		return nil, err
	}

	p := newParsed()
	fs := pflag.NewFlagSet("", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	for _, d := range table {
		f := fs.VarPF(&value{def: d, parsed: p}, d.flagName(), d.Short, d.Help)
		if d.Argument != Required {
			f.NoOptDefVal = noValue
		}
	}

	if err := fs.Parse(args); err != nil {
		if p.err != nil {
			return nil, p.err
		}
		return nil, errors.Wrap(errors.CodeParse, "Invalid command line", nil, err)
	}
	p.args = fs.Args()
	return p, nil
}

// value adapts one Definition to pflag.Value.
type value struct {
	def    Definition
	parsed *Parsed
}

func (v *value) String() string { return "" }

func (v *value) Set(s string) error { return v.parsed.record(v.def, s) }

func (v *value) Type() string {
	if v.def.Argument == None {
		return "bool"
	}
	return "string"
}

// checkArguments enforces that a switch requiring an argument is followed
// by one. pflag would otherwise take the next token even when it is
// another switch.
func checkArguments(table Table, args []string) error {
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if tok == "--" {
			return nil
		}
		if len(tok) < 2 || tok[0] != '-' {
			continue
		}

		var d Definition
		var ok bool
		if strings.HasPrefix(tok, "--") {
			name := tok[2:]
			if strings.Contains(name, "=") {
				continue
			}
			d, ok = table.byLong(name)
		} else {
			// Walk a short cluster until a char that takes an argument.
			cluster := tok[1:]
			for j := 0; j < len(cluster); j++ {
				cd, found := table.byShort(cluster[j : j+1])
				if !found || cd.Argument != Required {
					continue
				}
				if j+1 < len(cluster) {
					break
				}
				d, ok = cd, true
			}
		}
		if !ok || d.Argument != Required {
			continue
		}
		if i+1 >= len(args) || isSwitchToken(args[i+1]) {
			return errors.Newf(errors.CodeParse, "Switch '%s' requires an argument", d.Display())
		}
		i++
	}
	return nil
}

func isSwitchToken(s string) bool {
	return len(s) > 1 && s[0] == '-'
}

// normalize rewrites lenient spellings into the Unix form pflag expects.
// Tokens that match no definition are left alone so pflag reports them.
func normalize(table Table, args []string) []string {
	out := make([]string, 0, len(args))
	for i, tok := range args {
		if tok == "--" {
			return append(out, args[i:]...)
		}
		out = append(out, normalizeToken(table, tok))
	}
	return out
}

func normalizeToken(table Table, tok string) string {
	var body string
	switch {
	case strings.HasPrefix(tok, "--"):
		body = tok[2:]
	case strings.HasPrefix(tok, "-"), strings.HasPrefix(tok, "/"):
		body = tok[1:]
	default:
		return tok
	}
	if body == "" {
		return tok
	}
	name, rest := body, ""
	if k := strings.IndexByte(body, '='); k >= 0 {
		name, rest = body[:k], body[k:]
	}
	if d, ok := table.byLong(name); ok && d.Long != "" {
		return "--" + name + rest
	}
	if len(name) == 1 {
		if _, ok := table.byShort(name); ok {
			return "-" + name + rest
		}
	}
	return tok
}
