package api

import "sync"

// Kind classifies what a name is bound to in the workspace.
type Kind int

const (
	// System symbols are built into the interpreter (eg. ⎕IO, ⎕FX).
	System Kind = iota
	UserFunction
	UserVariable
)

func (k Kind) String() string {
	switch k {
	case System:
		return "system"
	case UserFunction:
		return "function"
	case UserVariable:
		return "variable"
	}
	return "unknown"
}

type Symbol struct {
	Name string
	Kind Kind
	// header and body are only set for user functions, body excludes the header and the closing del
	Header string
	Body   []string
	// a locked function can be listed in the state indicator but its source is not available
	Locked bool
}

// Executable returns true for user functions whose source can be shown.
func (s Symbol) Executable() bool {
	return s.Kind == UserFunction && !s.Locked
}

// Workspace is the interpreter state an editor connection acts upon.
// Callers must hold the lock for the whole duration of a command.
type Workspace interface {
	sync.Locker
	Lookup(name string) (Symbol, bool)
	RenderSource(fn Symbol) []string
	// innermost frame first
	CallStack() []string
	ClearCallStack()
	// fixes the function defined by `lines` (header first) and installs it, replacing any previous definition
	Define(lines []string) error
}
