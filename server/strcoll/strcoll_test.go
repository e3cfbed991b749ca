package strcoll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNth(t *testing.T) {
	for _, test := range []struct {
		nth   int
		slice []string
		s     string
		ok    bool
	}{
		{1, nil, "", false},
		{1, []string{}, "", false},
		{1, []string{"fn"}, "", false},
		{1, []string{"fn", "FOO"}, "FOO", true},
		{1, []string{"fn", ""}, "", true},
		{-1, []string{"fn"}, "", false},
	} {
		s, ok := Nth(test.nth, test.slice)
		assert.Equal(t, test.s, s)
		assert.Equal(t, test.ok, ok)
	}
}

func TestRest(t *testing.T) {
	assert.Equal(t, []string{}, Rest(1, nil))
	assert.Equal(t, []string{}, Rest(1, []string{}))
	assert.Equal(t, []string{}, Rest(1, []string{"a"}))
	assert.Equal(t, []string{"b", "c"}, Rest(1, []string{"a", "b", "c"}))
}
