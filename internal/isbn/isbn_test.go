package isbn

import (
	"testing"

	"bookjourney/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Identifier
		ok    bool
	}{
		{"isbn10", "0306406152", "0306406152", true},
		{"isbn10 bad checksum", "0306406151", "", false},
		{"isbn10 with X", "080442957X", "080442957X", true},
		{"isbn10 lowercase x", "080442957x", "080442957X", true},
		{"isbn10 hyphenated", " 0-306-40615-2 ", "0306406152", true},
		{"isbn13", "9780306406157", "9780306406157", true},
		{"isbn13 bad checksum", "9780306406158", "", false},
		{"isbn13 hyphenated", "978-0-306-40615-7", "9780306406157", true},
		{"X inside isbn10", "03064X6152", "", false},
		{"X at end of isbn13", "978030640615X", "", false},
		{"letters", "abcdefghij", "", false},
		{"empty", "", "", false},
		{"too short", "12345", "", false},
		{"twelve", "978030640615", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.input)
			if !tt.ok {
				require.Error(t, err)
				assert.Equal(t, apperr.ReasonInvalidIdentifier, apperr.ReasonOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_SingleDigitMutationFails(t *testing.T) {
	for _, valid := range []string{"0306406152", "9780306406157", "080442957X"} {
		for i := 0; i < len(valid); i++ {
			if valid[i] < '0' || valid[i] > '9' {
				continue
			}
			for d := byte('0'); d <= '9'; d++ {
				if d == valid[i] {
					continue
				}
				mutated := []byte(valid)
				mutated[i] = d
				_, err := Validate(string(mutated))
				assert.Error(t, err, "mutation %s should fail", mutated)
			}
		}
	}
}

func TestValidate_Idempotent(t *testing.T) {
	first, err1 := Validate("0-306-40615-2")
	second, err2 := Validate("0-306-40615-2")
	assert.Equal(t, first, second)
	assert.Equal(t, err1, err2)

	again, err := Validate(first.String())
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestValidator_Formats(t *testing.T) {
	only13 := Validator{Formats: ISBN13}
	_, err := only13.Validate("0306406152")
	assert.Error(t, err)
	id, err := only13.Validate("9780306406157")
	require.NoError(t, err)
	assert.Equal(t, ISBN13, id.Format())

	only10 := Validator{Formats: ISBN10}
	id, err = only10.Validate("0306406152")
	require.NoError(t, err)
	assert.Equal(t, ISBN10, id.Format())
	_, err = only10.Validate("9780306406157")
	assert.Error(t, err)
}

func TestParseFormats(t *testing.T) {
	f, err := ParseFormats("10, 13")
	require.NoError(t, err)
	assert.Equal(t, AllFormats, f)

	f, err = ParseFormats("13")
	require.NoError(t, err)
	assert.Equal(t, ISBN13, f)

	f, err = ParseFormats("")
	require.NoError(t, err)
	assert.Equal(t, AllFormats, f)

	_, err = ParseFormats("12")
	assert.Error(t, err)
}

func TestFormat_String(t *testing.T) {
	assert.Equal(t, "ISBN-10", ISBN10.String())
	assert.Equal(t, "ISBN-13", ISBN13.String())
	assert.Equal(t, "unknown", AllFormats.String())
}
