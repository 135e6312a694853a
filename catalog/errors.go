package catalog

import (
	"fmt"
	"strings"
)

// ToolNotFoundError is returned when invoking a tool absent from the
// discovered catalog. It lists the known names to aid the caller.
type ToolNotFoundError struct {
	Name  string
	Known []string
}

func (e *ToolNotFoundError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("tool %q not available: no tools discovered", e.Name)
	}
	return fmt.Sprintf("tool %q not available, known tools: %s", e.Name, strings.Join(e.Known, ", "))
}

// ValidationError reports arguments that do not satisfy a tool's compiled
// parameter model.
type ValidationError struct {
	Tool      string
	Parameter string
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.Tool == "" {
		return fmt.Sprintf("parameter %q: %s", e.Parameter, e.Reason)
	}
	return fmt.Sprintf("tool %q parameter %q: %s", e.Tool, e.Parameter, e.Reason)
}
