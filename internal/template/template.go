package template

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Placeholder is the literal token replaced with a concrete scale value
// when a template is expanded.
const Placeholder = "__SCALE_"

// Template is a string containing Placeholder exactly once. Substitution is
// unambiguous by construction: Parse rejects strings where the token is
// missing or repeated.
type Template struct {
	prefix string
	suffix string
}

// Parse validates s and returns its template form.
func Parse(s string) (Template, error) {
	switch n := strings.Count(s, Placeholder); {
	case n == 0:
		return Template{}, errors.Errorf("template %q does not contain the %s placeholder", s, Placeholder)
	case n > 1:
		return Template{}, errors.Errorf("template %q contains the %s placeholder %d times, want exactly one", s, Placeholder, n)
	}

	i := strings.Index(s, Placeholder)
	return Template{
		prefix: s[:i],
		suffix: s[i+len(Placeholder):],
	}, nil
}

// Expand substitutes the decimal scale value for the placeholder.
func (t Template) Expand(scale int) string {
	return t.prefix + strconv.Itoa(scale) + t.suffix
}

func (t Template) String() string {
	return t.prefix + Placeholder + t.suffix
}
