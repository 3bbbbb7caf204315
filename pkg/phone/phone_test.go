package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_CanonicalForms(t *testing.T) {
	cases := map[string]string{
		"4167009468":        "+14167009468",
		"(416) 700-9468":    "+14167009468",
		"416-700-9468":      "+14167009468",
		"+14167009468":      "+14167009468",
		"14167009468":       "+14167009468",
		"+1 (416) 700-9468": "+14167009468",
	}

	for input, want := range cases {
		assert.Equal(t, want, Normalize(input), "input %q", input)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"4167009468",
		"(416) 700-9468",
		"+14167009468",
		"+447911123456",
		"911",
		"",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}

func TestNormalize_NeverErrors(t *testing.T) {
	// Unusual inputs still come back as strings, never a panic.
	inputs := []string{"", "abc", "++--", "00 00", "☎"}

	for _, input := range inputs {
		assert.NotPanics(t, func() { Normalize(input) }, "input %q", input)
	}
}
