package annotation

import (
	"fmt"

	"spec-sync/internal/model"
)

// Diag is a fatal annotation contract violation. It carries the exact
// call site so CI output points straight at the authoring mistake.
type Diag struct {
	Pos  model.Position
	Call string // offending builder, e.g. "api.Response"
	Msg  string
}

func (d *Diag) Error() string {
	if d.Call == "" {
		return fmt.Sprintf("%s: %s", d.Pos, d.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Call, d.Msg)
}

func diagf(pos model.Position, call, format string, args ...any) *Diag {
	return &Diag{Pos: pos, Call: call, Msg: fmt.Sprintf(format, args...)}
}
