package diagnostics

import "go.uber.org/multierr"

// Collector is a Reporter that keeps every diagnostic in report order.
// It is not safe for concurrent use.
type Collector struct {
	diags  []Diagnostic
	failed bool
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Report(d Diagnostic) {
	c.diags = append(c.diags, d)
	c.failed = true
}

// HasErrors reports whether anything was reported since the last Reset.
func (c *Collector) HasErrors() bool {
	return c.failed
}

func (c *Collector) Len() int {
	return len(c.diags)
}

// Diagnostics returns a copy of the recorded diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

func (c *Collector) Strings() []string {
	out := make([]string, 0, len(c.diags))
	for _, d := range c.diags {
		out = append(out, d.String())
	}
	return out
}

// Err combines every diagnostic into a single error, or nil when there
// are none. multierr.Errors recovers the individual Diagnostic values.
func (c *Collector) Err() error {
	var err error
	for _, d := range c.diags {
		err = multierr.Append(err, d)
	}
	return err
}

func (c *Collector) Reset() {
	c.diags = nil
	c.failed = false
}

type tee []Reporter

func (t tee) Report(d Diagnostic) {
	for _, r := range t {
		r.Report(d)
	}
}

// Tee returns a Reporter that passes every diagnostic to each of rs.
func Tee(rs ...Reporter) Reporter {
	return tee(rs)
}
