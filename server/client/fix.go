package client

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/unicode/norm"
)

const (
	del       = "∇"
	lockedDel = "⍫"
)

// fix validates a function definition and returns its name and the function to install
// lines look like {"∇Z←A FOO B;T", "T←A+B", "Z←T×2", "∇"}, the dels are optional
func fix(lines []string) (string, function, error) {
	if len(lines) == 0 {
		return "", function{}, errors.New("empty definition")
	}
	header := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[0]), del))
	name, err := parseHeader(header)
	if err != nil {
		return "", function{}, err
	}

	body := lines[1:]
	var locked bool
	if n := len(body); n > 0 {
		switch strings.TrimSpace(body[n-1]) {
		case del:
			body = body[:n-1]
		case lockedDel:
			body = body[:n-1]
			locked = true
		}
	}
	for idx, line := range body {
		if err := balanced(line); err != nil {
			return "", function{}, errors.Wrapf(err, "line %d", idx+1)
		}
	}
	return name, function{
		header: header,
		body:   append([]string{}, body...),
		locked: locked,
	}, nil
}

// parseHeader returns the function name of a header like `Z←A FOO B;L1;L2 ⍝ comment`
// the left argument can be in braces (ambivalent functions): `Z←{A} FOO B`
// operators put their operands in parens with the name: `Z←A (F OP G) B`, the name returned is the operator's
func parseHeader(header string) (string, error) {
	sig := header
	if idx := strings.Index(sig, "⍝"); idx >= 0 {
		sig = sig[:idx]
	}
	sig = strings.TrimSpace(sig)
	if sig == "" {
		return "", errors.New("missing header")
	}
	if idx := strings.Index(sig, ";"); idx >= 0 {
		for _, local := range strings.Split(sig[idx+1:], ";") {
			local = strings.TrimSpace(local)
			if !validName(strings.TrimPrefix(local, "⎕")) {
				return "", errors.Errorf("invalid local %q", local)
			}
		}
		sig = sig[:idx]
	}
	if idx := strings.Index(sig, "←"); idx >= 0 {
		if result := strings.TrimSpace(sig[:idx]); !validName(result) {
			return "", errors.Errorf("invalid result %q", result)
		}
		sig = sig[idx+len("←"):]
	}

	var name string
	args := make([]string, 0, 2)
	operands := make([]string, 0, 2)
	if open := strings.Index(sig, "("); open >= 0 {
		end := strings.Index(sig, ")")
		left, right := strings.Fields(sig[:open]), strings.Fields(sig[end+1:])
		if end < open || len(left) > 1 || len(right) != 1 {
			return "", errors.Errorf("invalid header %q", header)
		}
		group := strings.Fields(sig[open+1 : end])
		switch len(group) {
		case 2:
			operands = append(operands, group[0])
		case 3:
			operands = append(operands, group[0], group[2])
		default:
			return "", errors.Errorf("invalid header %q", header)
		}
		name = group[1]
		for _, arg := range left {
			args = append(args, unbrace(arg))
		}
		args = append(args, right[0])
	} else {
		fields := strings.Fields(sig)
		switch len(fields) {
		case 1:
			name = fields[0]
		case 2:
			name = fields[0]
			args = append(args, fields[1])
		case 3:
			name = fields[1]
			args = append(args, unbrace(fields[0]), fields[2])
		default:
			return "", errors.Errorf("invalid header %q", header)
		}
	}

	name = norm.NFC.String(name)
	if !validName(name) {
		return "", errors.Errorf("invalid function name %q", name)
	}
	for _, operand := range operands {
		if !validName(operand) || operand == name {
			return "", errors.Errorf("invalid operand %q", operand)
		}
	}
	for _, arg := range args {
		if !validName(arg) || arg == name {
			return "", errors.Errorf("invalid argument %q", arg)
		}
	}
	seen := make(map[string]bool)
	for _, param := range append(operands, args...) {
		if seen[param] {
			return "", errors.Errorf("duplicated argument %q", param)
		}
		seen[param] = true
	}
	return name, nil
}

func unbrace(arg string) string {
	if strings.HasPrefix(arg, "{") && strings.HasSuffix(arg, "}") {
		return arg[1 : len(arg)-1]
	}
	return arg
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for idx, r := range name {
		switch {
		case unicode.IsLetter(r), r == '_', r == '∆', r == '⍙':
		case idx > 0 && (unicode.IsDigit(r) || r == '¯'):
		default:
			return false
		}
	}
	return true
}

var closing = map[rune]rune{')': '(', ']': '[', '}': '{'}

// balanced checks quotes and brackets of one line, ignoring comments and string contents
// strings are either 'single quoted', with '' as an escaped quote, or "double quoted", with backslash escapes
func balanced(line string) error {
	var quote rune
	var escaped bool
	open := make([]rune, 0)
	for _, r := range line {
		switch {
		case quote == '"' && escaped:
			escaped = false
			continue
		case quote == '"' && r == '\\':
			escaped = true
			continue
		case quote != 0:
			// a doubled single quote toggles twice, which leaves the string open
			if r == quote {
				quote = 0
			}
			continue
		}
		switch r {
		case '\'', '"':
			quote = r
		case '⍝':
			return checkOpen(open)
		case '(', '[', '{':
			open = append(open, r)
		case ')', ']', '}':
			if len(open) == 0 || open[len(open)-1] != closing[r] {
				return errors.Errorf("unexpected %c", r)
			}
			open = open[:len(open)-1]
		}
	}
	if quote != 0 {
		return errors.New("unbalanced quote")
	}
	return checkOpen(open)
}

func checkOpen(open []rune) error {
	if len(open) > 0 {
		return errors.Errorf("unclosed %c", open[len(open)-1])
	}
	return nil
}

func sourceDiff(name string, old, cur function) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(strings.Join(old.source(), "\n") + "\n"),
		B:        difflib.SplitLines(strings.Join(cur.source(), "\n") + "\n"),
		FromFile: name + " (old)",
		ToFile:   name + " (new)",
		Context:  1,
	})
	if err != nil {
		return ""
	}
	return diff
}

// source returns the definition as an editor would send it, closing del included
func (f function) source() []string {
	closer := del
	if f.locked {
		closer = lockedDel
	}
	ret := append([]string{f.header}, f.body...)
	return append(ret, closer)
}
