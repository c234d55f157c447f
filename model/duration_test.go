package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	cases := map[string]int{
		"00:10:00":        600,
		"01:30:05":        5405,
		"2 00:00:01":      2*86400 + 1,
		"00:00:30.500000": 30,
		"900":             900,
		"90.9":            90,
	}
	for in, want := range cases {
		got, err := ParseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseDurationRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "10:00", "00:61:00", "-5", "x 00:00:00", "NaN", "Inf", "1e12", "99999999 00:00:00", "9999999:00:00"} {
		_, err := ParseDuration(in)
		assert.Error(t, err, in)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "01:30:05", FormatDuration(5405))
	assert.Equal(t, "00:00:00", FormatDuration(-3))
}

func TestNumericDurationsAreValidated(t *testing.T) {
	for _, payload := range []string{`-30`, `1e300`} {
		_, err := DecodeQuiz(strings.NewReader(`{"id": 1, "title": "T", "duration": ` + payload + `, "questions": []}`))
		var loadErr *LoadError
		assert.True(t, errors.As(err, &loadErr), "%s: got %v", payload, err)
	}

	quiz, err := DecodeQuiz(strings.NewReader(`{"id": 1, "title": "T", "duration": 90.5, "questions": []}`))
	require.NoError(t, err)
	assert.Equal(t, 90, quiz.Duration)
}
