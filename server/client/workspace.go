package client

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"

	"github.com/syohex/gnu-apl-mode/out"
	"github.com/syohex/gnu-apl-mode/server/api"
)

var systemNames = []string{
	"⎕AI", "⎕AV", "⎕CR", "⎕CT", "⎕EX", "⎕FX", "⎕IO", "⎕NC", "⎕PP", "⎕TS", "⎕WA",
}

type function struct {
	header string
	body   []string
	locked bool
}

// Workspace is an in-memory api.Workspace.
type Workspace struct {
	mu        sync.Mutex
	system    map[string]bool
	functions map[string]function
	variables map[string]bool
	// outermost frame first, so that pushing is an append
	si     []string
	logger *out.Logger
}

func NewWorkspace(logger *out.Logger) *Workspace {
	ws := &Workspace{
		system:    make(map[string]bool),
		functions: make(map[string]function),
		variables: make(map[string]bool),
		si:        make([]string, 0),
		logger:    logger,
	}
	for _, name := range systemNames {
		ws.system[name] = true
	}
	return ws
}

func (ws *Workspace) Lock() {
	ws.mu.Lock()
}

func (ws *Workspace) Unlock() {
	ws.mu.Unlock()
}

func (ws *Workspace) Lookup(name string) (api.Symbol, bool) {
	name = norm.NFC.String(name)
	if ws.system[name] {
		return api.Symbol{Name: name, Kind: api.System}, true
	}
	if ws.variables[name] {
		return api.Symbol{Name: name, Kind: api.UserVariable}, true
	}
	if f, ok := ws.functions[name]; ok {
		return api.Symbol{
			Name:   name,
			Kind:   api.UserFunction,
			Header: f.header,
			Body:   append([]string{}, f.body...),
			Locked: f.locked,
		}, true
	}
	return api.Symbol{}, false
}

// RenderSource returns the header followed by the body, one element per line, without dels.
func (ws *Workspace) RenderSource(fn api.Symbol) []string {
	return append([]string{fn.Header}, fn.Body...)
}

func (ws *Workspace) CallStack() []string {
	ret := make([]string, len(ws.si))
	for i, name := range ws.si {
		ret[len(ws.si)-1-i] = name
	}
	return ret
}

func (ws *Workspace) ClearCallStack() {
	ws.si = ws.si[:0]
}

// PushFrame suspends a new invocation of `name` on top of the state indicator.
func (ws *Workspace) PushFrame(name string) {
	ws.si = append(ws.si, norm.NFC.String(name))
}

// PopFrame removes the innermost frame.
func (ws *Workspace) PopFrame() (string, bool) {
	if len(ws.si) == 0 {
		return "", false
	}
	top := ws.si[len(ws.si)-1]
	ws.si = ws.si[:len(ws.si)-1]
	return top, true
}

// SetVariable binds `name` to a value, the value itself is of no interest to the editor.
func (ws *Workspace) SetVariable(name string) error {
	name, err := ws.variableName(name)
	if err != nil {
		return err
	}
	ws.variables[name] = true
	return nil
}

// Define fixes a function from its definition lines and installs it, replacing any function with the same name.
func (ws *Workspace) Define(lines []string) error {
	name, f, err := ws.fixFunction(lines, nil)
	if err != nil {
		return err
	}
	ws.install(name, f)
	return nil
}

// variableName normalizes a new variable name and checks it doesn't clash with a function
func (ws *Workspace) variableName(name string) (string, error) {
	name = norm.NFC.String(name)
	_, isFunction := ws.functions[name]
	switch {
	case !validName(name):
		return "", errors.Errorf("invalid name %q", name)
	case isFunction:
		return "", errors.Errorf("%s is a function", name)
	}
	return name, nil
}

// fixFunction fixes `lines` against the workspace and the variables about to be set
func (ws *Workspace) fixFunction(lines []string, pending map[string]bool) (string, function, error) {
	name, f, err := fix(lines)
	if err != nil {
		return "", function{}, err
	}
	if ws.variables[name] || pending[name] {
		return "", function{}, errors.Errorf("%s is a variable", name)
	}
	return name, f, nil
}

func (ws *Workspace) install(name string, f function) {
	if old, ok := ws.functions[name]; ok && ws.logger != nil && ws.logger.DebugEnabled() {
		if diff := sourceDiff(name, old, f); diff != "" {
			ws.logger.Debugf("replacing %s\n%s", name, diff)
		}
	}
	ws.functions[name] = f
}

func (ws *Workspace) functionNames() []string {
	names := make([]string, 0, len(ws.functions))
	for name := range ws.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (ws *Workspace) variableNames() []string {
	names := make([]string, 0, len(ws.variables))
	for name := range ws.variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
