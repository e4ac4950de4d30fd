package financing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/mortgage-simulator/pkg/brackets"
)

var (
	// ErrTableNotLoaded is returned when a simulation runs before the bracket
	// table finished loading, or after the load failed.
	ErrTableNotLoaded = errors.New("financing table not loaded")

	// ErrNoBracketFound is returned when the loaded table has no rows.
	ErrNoBracketFound = brackets.ErrNoBracketFound
)

// FieldError describes one input field outside its accepted bounds.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
	Value string `json:"value"`
}

func (f FieldError) String() string {
	switch f.Rule {
	case "gte":
		return fmt.Sprintf("%s must be >= %s (got %s)", f.Field, f.Param, f.Value)
	case "lte":
		return fmt.Sprintf("%s must be <= %s (got %s)", f.Field, f.Param, f.Value)
	case "finite":
		return fmt.Sprintf("%s must be a finite number (got %s)", f.Field, f.Value)
	default:
		return fmt.Sprintf("%s failed %s %s (got %s)", f.Field, f.Rule, f.Param, f.Value)
	}
}

// ValidationError lists every field that failed validation. The whole request
// must be rejected when it is returned.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return "invalid simulation input: " + strings.Join(parts, "; ")
}

// FieldNames returns the names of the failing fields in input order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}
