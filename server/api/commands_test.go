package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mockWorkspace() *MockWorkspace {
	ws := NewMockWorkspace()
	ws.Symbols["⎕IO"] = Symbol{Name: "⎕IO", Kind: System}
	ws.Symbols["X"] = Symbol{Name: "X", Kind: UserVariable}
	ws.Symbols["FOO"] = Symbol{Name: "FOO", Kind: UserFunction, Header: "Z←A FOO B", Body: []string{"Z←A+B"}}
	ws.Symbols["SECRET"] = Symbol{Name: "SECRET", Kind: UserFunction, Header: "SECRET", Body: []string{"'x'"}, Locked: true}
	ws.Stack = []string{"INNER", "OUTER"}
	return ws
}

func TestStateIndicator(t *testing.T) {
	ws := mockWorkspace()
	first := StateIndicator(ws)
	assert.Equal(t, []string{"INNER", "OUTER"}, first)
	assert.Equal(t, first, StateIndicator(ws))

	// callers can't alter the workspace through the result
	first[0] = "CHANGED"
	assert.Equal(t, []string{"INNER", "OUTER"}, StateIndicator(ws))
}

func TestClearStateIndicator(t *testing.T) {
	ws := mockWorkspace()
	assert.Equal(t, []string{}, ClearStateIndicator(ws))
	assert.Equal(t, []string{}, StateIndicator(ws))
}

func TestShowFunction(t *testing.T) {
	ws := mockWorkspace()
	for _, test := range []struct {
		name     string
		expected []string
	}{
		{"NOPE", []string{StatusUndefined}},
		{"⎕IO", []string{StatusSystemFunction}},
		{"X", []string{StatusNotAFunction}},
		{"SECRET", []string{StatusNotExecutable}},
		{"FOO", []string{"Z←A FOO B", "Z←A+B"}},
		{"", []string{StatusUndefined}},
	} {
		assert.Equal(t, test.expected, ShowFunction(ws, test.name), test.name)
	}
}

func TestDefineFunction(t *testing.T) {
	ws := mockWorkspace()

	ret, err := DefineFunction(ws, []string{"BAR", "1"})
	assert.NoError(t, err)
	assert.Equal(t, []string{StatusFunctionDefined}, ret)
	assert.Equal(t, []string{"BAR", "1"}, ShowFunction(ws, "BAR"))

	ret, err = DefineFunction(ws, []string{})
	assert.Error(t, err)
	assert.Equal(t, []string{StatusError}, ret)
	assert.Contains(t, err.Error(), "function not defined")
}

func TestSymbolExecutable(t *testing.T) {
	assert.True(t, Symbol{Kind: UserFunction}.Executable())
	assert.False(t, Symbol{Kind: UserFunction, Locked: true}.Executable())
	assert.False(t, Symbol{Kind: System}.Executable())
	assert.False(t, Symbol{Kind: UserVariable}.Executable())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "system", System.String())
	assert.Equal(t, "function", UserFunction.String())
	assert.Equal(t, "variable", UserVariable.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
