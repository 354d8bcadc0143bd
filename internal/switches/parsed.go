package switches

import "github.com/zx06/wmicmd/internal/errors"

// noValue is handed to pflag as NoOptDefVal so a bare switch can be told
// apart from one given an explicit argument.
const noValue = "\x00"

// Parsed is the result of applying a Table to a command line.
type Parsed struct {
	counts map[ID]int
	values map[ID][]string
	args   []string
	err    error
}

func newParsed() *Parsed {
	return &Parsed{counts: map[ID]int{}, values: map[ID][]string{}}
}

// IsSet reports whether any spelling of id appeared.
func (p *Parsed) IsSet(id ID) bool {
	return p != nil && p.counts[id] > 0
}

// Value returns the first argument given to id, or "".
func (p *Parsed) Value(id ID) string {
	if p == nil || len(p.values[id]) == 0 {
		return ""
	}
	return p.values[id][0]
}

// Values returns every argument given to id, in command line order.
func (p *Parsed) Values(id ID) []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.values[id]...)
}

// Args returns the positional tokens.
func (p *Parsed) Args() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.args...)
}

// record is called by pflag for every occurrence of d. The first failure
// is kept so Parse can report it without pflag's wording.
func (p *Parsed) record(d Definition, raw string) error {
	err := p.apply(d, raw)
	if err != nil && p.err == nil {
		p.err = err
	}
	return err
}

func (p *Parsed) apply(d Definition, raw string) error {
	if d.Cardinality == Once && p.counts[d.ID] > 0 {
		return errors.Newf(errors.CodeParse, "Switch '%s' specified more than once", d.Display())
	}
	switch d.Argument {
	case None:
		if raw != noValue {
			return errors.Newf(errors.CodeParse, "Switch '%s' does not take an argument", d.Display())
		}
	case Optional:
		if raw != noValue {
			v, err := d.check(raw)
			if err != nil {
				return err
			}
			p.values[d.ID] = append(p.values[d.ID], v)
		}
	case Required:
		if raw == noValue {
			return errors.Newf(errors.CodeParse, "Switch '%s' requires an argument", d.Display())
		}
		v, err := d.check(raw)
		if err != nil {
			return err
		}
		p.values[d.ID] = append(p.values[d.ID], v)
	}
	p.counts[d.ID]++
	return nil
}

// Positional returns a Parsed holding args as positional tokens only, for
// commands that take their command line verbatim.
func Positional(args []string) *Parsed {
	p := newParsed()
	p.args = append([]string(nil), args...)
	return p
}
