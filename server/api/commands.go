package api

import (
	"github.com/pkg/errors"
)

// Status tokens, sent as the only line of a response.
const (
	StatusUndefined       = "undefined"
	StatusSystemFunction  = "system function"
	StatusNotAFunction    = "symbol is not a function"
	StatusNotExecutable   = "function is not executable"
	StatusError           = "error"
	StatusFunctionDefined = "function_defined"
)

// StateIndicator returns the function name of every frame of the state indicator, innermost first.
func StateIndicator(ws Workspace) []string {
	frames := ws.CallStack()
	ret := make([]string, len(frames))
	copy(ret, frames)
	return ret
}

// ClearStateIndicator empties the state indicator. The response has no payload.
func ClearStateIndicator(ws Workspace) []string {
	ws.ClearCallStack()
	return []string{}
}

// ShowFunction returns the source of the function `name`, or a status line explaining why it can't.
func ShowFunction(ws Workspace, name string) []string {
	sym, ok := ws.Lookup(name)
	switch {
	case !ok:
		return []string{StatusUndefined}
	case sym.Kind == System:
		return []string{StatusSystemFunction}
	case sym.Kind != UserFunction:
		return []string{StatusNotAFunction}
	case sym.Locked:
		return []string{StatusNotExecutable}
	}
	return ws.RenderSource(sym)
}

// DefineFunction fixes the function in `block` into the workspace.
// A failed definition is not an error for the connection, the returned error only says why for logging.
func DefineFunction(ws Workspace, block []string) ([]string, error) {
	if err := ws.Define(block); err != nil {
		return []string{StatusError}, errors.Wrap(err, "function not defined")
	}
	return []string{StatusFunctionDefined}, nil
}
