package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQty(t *testing.T) {
	cases := map[string]int{
		"":    1,
		"0":   1,
		"5":   5,
		" 3 ": 3,
		"abc": 1,
		"-2":  1,
		"2.5": 1,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseQty(raw), "qty %q", raw)
	}
}
