package client

import (
	"io"
	"io/ioutil"

	"github.com/davecgh/go-spew/spew"
	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
	"github.com/pkg/errors"
)

// snapshot is the persisted form of a workspace
// functions are stored as full definitions (closing del included) and fixed again on load
type snapshot struct {
	Functions []snapshotFunction
	Variables []string
	// innermost frame first, like the `si` command shows it
	Stack []string
}

type snapshotFunction struct {
	Lines []string
}

// LoadSnapshot adds to the workspace the functions, variables and state indicator read from r.
// The caller must hold the workspace lock.
func (ws *Workspace) LoadSnapshot(r io.Reader) error {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "reading snapshot")
	}
	var snap snapshot
	if err := easyjson.Unmarshal(data, &snap); err != nil {
		return errors.Wrap(err, "malformed snapshot")
	}
	if ws.logger != nil {
		ws.logger.Debugf("loaded snapshot %s", spew.Sdump(snap))
	}

	// everything is checked before anything is installed, a bad snapshot leaves the workspace untouched
	variables := make(map[string]bool)
	for _, name := range snap.Variables {
		name, err := ws.variableName(name)
		if err != nil {
			return errors.Wrap(err, "snapshot variable")
		}
		variables[name] = true
	}
	functions := make(map[string]function)
	order := make([]string, 0, len(snap.Functions))
	for _, f := range snap.Functions {
		name, fn, err := ws.fixFunction(f.Lines, variables)
		if err != nil {
			return errors.Wrap(err, "snapshot function")
		}
		if _, ok := functions[name]; !ok {
			order = append(order, name)
		}
		functions[name] = fn
	}

	for name := range variables {
		ws.variables[name] = true
	}
	for _, name := range order {
		ws.install(name, functions[name])
	}
	ws.ClearCallStack()
	for idx := len(snap.Stack) - 1; idx >= 0; idx-- {
		ws.PushFrame(snap.Stack[idx])
	}
	return nil
}

// SaveSnapshot writes the user functions, variables and state indicator to w.
// The caller must hold the workspace lock.
func (ws *Workspace) SaveSnapshot(w io.Writer) error {
	snap := snapshot{
		Functions: make([]snapshotFunction, 0, len(ws.functions)),
		Variables: ws.variableNames(),
		Stack:     ws.CallStack(),
	}
	for _, name := range ws.functionNames() {
		snap.Functions = append(snap.Functions, snapshotFunction{Lines: ws.functions[name].source()})
	}
	_, err := easyjson.MarshalToWriter(snap, w)
	return errors.Wrap(err, "writing snapshot")
}

func (s snapshot) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"functions":`)
	w.RawByte('[')
	for idx, f := range s.Functions {
		if idx > 0 {
			w.RawByte(',')
		}
		f.MarshalEasyJSON(w)
	}
	w.RawByte(']')
	w.RawString(`,"variables":`)
	writeStrings(w, s.Variables)
	w.RawString(`,"stack":`)
	writeStrings(w, s.Stack)
	w.RawByte('}')
}

func (s *snapshot) UnmarshalEasyJSON(in *jlexer.Lexer) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "functions":
			s.Functions = make([]snapshotFunction, 0)
			in.Delim('[')
			for !in.IsDelim(']') {
				var f snapshotFunction
				f.UnmarshalEasyJSON(in)
				s.Functions = append(s.Functions, f)
				in.WantComma()
			}
			in.Delim(']')
		case "variables":
			s.Variables = readStrings(in)
		case "stack":
			s.Stack = readStrings(in)
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

func (f snapshotFunction) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"lines":`)
	writeStrings(w, f.Lines)
	w.RawByte('}')
}

func (f *snapshotFunction) UnmarshalEasyJSON(in *jlexer.Lexer) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "lines":
			f.Lines = readStrings(in)
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

func writeStrings(w *jwriter.Writer, xs []string) {
	w.RawByte('[')
	for idx, x := range xs {
		if idx > 0 {
			w.RawByte(',')
		}
		w.String(x)
	}
	w.RawByte(']')
}

func readStrings(in *jlexer.Lexer) []string {
	ret := make([]string, 0)
	if in.IsNull() {
		in.Skip()
		return ret
	}
	in.Delim('[')
	for !in.IsDelim(']') {
		ret = append(ret, in.String())
		in.WantComma()
	}
	in.Delim(']')
	return ret
}
