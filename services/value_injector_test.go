package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBestOptionIndex(t *testing.T) {
	options := []Option{
		{Value: "", Text: ""},
		{Value: "cse", Text: "Computer Science and Engineering"},
		{Value: "ece", Text: "Electronics and Communication Engineering"},
		{Value: "me", Text: "Mechanical Engineering"},
	}

	idx, score := bestOptionIndex(options, "ece")
	assert.Equal(t, 2, idx)
	assert.Equal(t, ScoreExact, score)

	idx, score = bestOptionIndex(options, "Computer Science and Engineering")
	assert.Equal(t, 1, idx)
	assert.Equal(t, ScoreExact, score)

	idx, score = bestOptionIndex(options, "unrelated gibberish zz")
	assert.Equal(t, -1, idx)
	assert.Equal(t, 0, score)

	idx, _ = bestOptionIndex(nil, "anything")
	assert.Equal(t, -1, idx)
}

func TestBestOptionIndex_DisplayOnlyAbbreviation(t *testing.T) {
	// No stored value backs the abbreviation, so it only matches when the
	// text itself carries it.
	options := []Option{
		{Text: "Electronics and Computer Engineering"},
		{Text: "Computer Engineering (COE)"},
	}
	idx, score := bestOptionIndex(options, "COE")
	assert.Equal(t, 1, idx)
	assert.Equal(t, ScoreAbbreviation, score)
}

func TestSelectFallbackIndex(t *testing.T) {
	options := []Option{
		{Value: "in", Text: "India"},
		{Value: "us", Text: "United States"},
	}

	// Exact value equality, case-insensitive.
	assert.Equal(t, 1, selectFallbackIndex(options, "US"))
	// Display-text containment.
	assert.Equal(t, 0, selectFallbackIndex(options, "ndia"))
	// Nothing matches.
	assert.Equal(t, -1, selectFallbackIndex(options, "germany"))
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "85", digitsOnly("85%"))
	assert.Equal(t, "1234567890", digitsOnly("(123) 456-7890"))
	assert.Equal(t, "", digitsOnly("no digits"))
}
