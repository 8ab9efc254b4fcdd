package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern_EscapesWildcards(t *testing.T) {
	cases := map[string]string{
		"tornillo": `%tornillo%`,
		"50%":      `%50\%%`,
		"A_1":      `%A\_1%`,
		`C:\tmp`:   `%C:\\tmp%`,
		"%":        `%\%%`,
	}
	for in, want := range cases {
		assert.Equal(t, want, containsPattern(in), in)
	}
}
