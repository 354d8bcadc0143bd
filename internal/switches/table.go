package switches

import (
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/zx06/wmicmd/internal/errors"
)

// Cardinality controls how often a switch may appear on one command line.
type Cardinality int

const (
	Once Cardinality = iota
	Multiple
)

func (c Cardinality) String() string {
	if c == Multiple {
		return "multiple"
	}
	return "once"
}

// Argument says whether a switch consumes a value.
type Argument int

const (
	None Argument = iota
	Required
	Optional
)

func (a Argument) String() string {
	switch a {
	case Required:
		return "required"
	case Optional:
		return "optional"
	default:
		return "none"
	}
}

// Definition describes one spelling of a switch. Several definitions may
// share an ID (e.g. "-?" and "-h/--help").
type Definition struct {
	ID          ID
	Short       string // single character, without the prefix
	Long        string // without the prefix
	Cardinality Cardinality
	Argument    Argument
	ArgName     string // placeholder shown in help, "value" when empty
	Allowed     []string
	Validate    func(string) error
	Help        string
}

// Forms returns the prefixed spellings of d, short form first.
func (d Definition) Forms() []string {
	forms := make([]string, 0, 2)
	if d.Short != "" {
		forms = append(forms, "-"+d.Short)
	}
	if d.Long != "" {
		forms = append(forms, "--"+d.Long)
	}
	return forms
}

// Display returns the canonical spelling used in error messages.
func (d Definition) Display() string {
	if d.Long != "" {
		return "--" + d.Long
	}
	return "-" + d.Short
}

func (d Definition) argName() string {
	if d.ArgName != "" {
		return d.ArgName
	}
	return "value"
}

// flagName is the name the definition is registered under in pflag.
// Short-only entries get a name starting with "-", which pflag never
// parses from the command line, so "--x" is not accepted for them.
func (d Definition) flagName() string {
	if d.Long != "" {
		return d.Long
	}
	return "-" + d.Short
}

// check validates value and returns it in canonical form: Allowed entries
// match case-insensitively and are recorded as declared.
func (d Definition) check(value string) (string, error) {
	if len(d.Allowed) > 0 {
		ok := false
		for _, a := range d.Allowed {
			if strings.EqualFold(a, value) {
				value = a
				ok = true
				break
			}
		}
		if !ok {
			return "", errors.Newf(errors.CodeParse, "Invalid value '%s' for switch '%s' (expected one of: %s)",
				value, d.Display(), strings.Join(d.Allowed, ", "))
		}
	}
	if d.Validate != nil {
		if err := d.Validate(value); err != nil {
			return "", errors.Wrap(errors.CodeParse, "Invalid value '"+value+"' for switch '"+d.Display()+"'",
				map[string]any{"switch": d.Display()}, err)
		}
	}
	return value, nil
}

// Table is an ordered set of definitions. Order is help display order.
type Table []Definition

// Validate rejects tables the parser cannot represent: nameless entries,
// multi-character short names and duplicate spellings.
func (t Table) Validate() error {
	shorts := map[string]bool{}
	names := map[string]bool{}
	for i, d := range t {
		if d.Short == "" && d.Long == "" {
			return errors.Newf(errors.CodeInternal, "switch table entry %d (%s) has no name", i, d.ID)
		}
		if len(d.Short) > 1 {
			return errors.Newf(errors.CodeInternal, "switch '%s' short name must be one character", d.Short)
		}
		if d.Short != "" {
			if shorts[d.Short] {
				return errors.Newf(errors.CodeInternal, "duplicate short switch '-%s'", d.Short)
			}
			shorts[d.Short] = true
		}
		name := d.flagName()
		if names[name] {
			return errors.Newf(errors.CodeInternal, "duplicate long switch '--%s'", name)
		}
		names[name] = true
	}
	return nil
}

// IDs returns every distinct ID in table order.
func (t Table) IDs() []ID {
	seen := map[ID]bool{}
	ids := make([]ID, 0, len(t))
	for _, d := range t {
		if !seen[d.ID] {
			seen[d.ID] = true
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// Lookup returns the definitions registered for id, in table order.
func (t Table) Lookup(id ID) []Definition {
	var defs []Definition
	for _, d := range t {
		if d.ID == id {
			defs = append(defs, d)
		}
	}
	return defs
}

func (t Table) byShort(s string) (Definition, bool) {
	for _, d := range t {
		if d.Short == s {
			return d, true
		}
	}
	return Definition{}, false
}

func (t Table) byLong(s string) (Definition, bool) {
	for _, d := range t {
		if d.flagName() == s {
			return d, true
		}
	}
	return Definition{}, false
}

// HelpSwitches returns the "-?" and "-h/--help" pair every table carries.
func HelpSwitches(help string) Table {
	return Table{
		{ID: Usage, Short: "?"},
		{ID: Usage, Short: "h", Long: "help", Help: help},
	}
}

// PositiveInt is a Validate func for counts such as --top.
func PositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if n < 1 {
		return stderrors.New("must be at least 1")
	}
	return nil
}
