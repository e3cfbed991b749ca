package api

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// MockWorkspace is a Workspace for tests. Define accepts any block whose first line is a bare name.
type MockWorkspace struct {
	mu      sync.Mutex
	Locks   int
	Symbols map[string]Symbol
	Stack   []string
	Defined [][]string
}

func NewMockWorkspace() *MockWorkspace {
	return &MockWorkspace{Symbols: make(map[string]Symbol)}
}

func (m *MockWorkspace) Lock() {
	m.mu.Lock()
	m.Locks++
}

func (m *MockWorkspace) Unlock() {
	m.mu.Unlock()
}

// Held reports whether the lock is taken, without blocking.
func (m *MockWorkspace) Held() bool {
	if m.mu.TryLock() {
		m.mu.Unlock()
		return false
	}
	return true
}

func (m *MockWorkspace) Lookup(name string) (Symbol, bool) {
	sym, ok := m.Symbols[name]
	return sym, ok
}

func (m *MockWorkspace) RenderSource(fn Symbol) []string {
	return append([]string{fn.Header}, fn.Body...)
}

func (m *MockWorkspace) CallStack() []string {
	return m.Stack
}

func (m *MockWorkspace) ClearCallStack() {
	m.Stack = nil
}

func (m *MockWorkspace) Define(lines []string) error {
	m.Defined = append(m.Defined, lines)
	if len(lines) == 0 {
		return errors.New("empty definition")
	}
	name := strings.TrimSpace(lines[0])
	if name == "" || strings.ContainsAny(name, " ←;") {
		return errors.Errorf("bad header %q", lines[0])
	}
	m.Symbols[name] = Symbol{Name: name, Kind: UserFunction, Header: lines[0], Body: lines[1:]}
	return nil
}
