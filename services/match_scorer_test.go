package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMatchText(t *testing.T) {
	assert.Equal(t, "bachelor of technology b tech", NormalizeMatchText("Bachelor of Technology (B.Tech)"))
	assert.Equal(t, "yes", NormalizeMatchText("  YES  "))
	assert.Equal(t, "", NormalizeMatchText(""))
	assert.Equal(t, "male", NormalizeMatchText("Male!"))
}

func TestNormalizeMatchText_Idempotent(t *testing.T) {
	inputs := []string{
		"Bachelor of Technology (B.Tech)",
		"Electronics & Communication",
		"  mixed   CASE text  ",
	}
	for _, in := range inputs {
		once := NormalizeMatchText(in)
		assert.Equal(t, once, NormalizeMatchText(once))
	}
}

func TestScoreMatch_Exact(t *testing.T) {
	assert.Equal(t, ScoreExact, ScoreMatch("Male", "Male", "male"))
	assert.Equal(t, ScoreExact, ScoreMatch("male", "MALE", ""))
}

func TestScoreMatch_ValueEquality(t *testing.T) {
	// A short stored value can win even when the display text is long.
	assert.Equal(t, ScoreExact, ScoreMatch("ECE", "Electronics and Computer Engineering", "ece"))
	// Without a backing value the same target is not an exact match.
	assert.NotEqual(t, ScoreExact, ScoreMatch("ECE", "Electronics and Computer Engineering", ""))
}

func TestScoreMatch_Abbreviation(t *testing.T) {
	assert.Equal(t, ScoreAbbreviation, ScoreMatch("COE", "Computer Engineering (COE)", ""))
	assert.Equal(t, ScoreAbbreviation, ScoreMatch("coe", "", "Computer Engineering (COE)"))
}

func TestScoreMatch_Containment(t *testing.T) {
	assert.Equal(t, ScoreContains, ScoreMatch("Bachelor of Technology", "Bachelor of Technology - 4 years", ""))
	assert.Equal(t, ScoreContains, ScoreMatch("Yes I am authorized", "Yes", ""))
}

func TestScoreMatch_ContainmentSymmetry(t *testing.T) {
	a, b := "computer science", "computer science and engineering"
	assert.Equal(t, ScoreMatch(a, b, ""), ScoreMatch(b, a, ""))
}

func TestScoreMatch_WordCoverage(t *testing.T) {
	// Every significant input word appears in the option.
	assert.Equal(t, ScoreAllWords, ScoreMatch("electronics computer", "Electronics and Computer", ""))
	// Only a subset appears.
	assert.Equal(t, ScoreSomeWords, ScoreMatch("mechanical engineering", "Electrical Engineering", ""))
}

func TestScoreMatch_NoMatch(t *testing.T) {
	assert.Equal(t, 0, ScoreMatch("Male", "Prefer not to say", ""))
	assert.Equal(t, 0, ScoreMatch("", "Option", "opt"))
	assert.Equal(t, 0, ScoreMatch("anything", "", ""))
}

func TestScoreMatch_Ordering(t *testing.T) {
	exact := ScoreMatch("Yes", "Yes", "")
	contains := ScoreMatch("Yes", "Yes, I am", "")
	some := ScoreMatch("computer engineering", "software engineering", "")
	assert.Greater(t, exact, contains)
	assert.Greater(t, contains, some)
	assert.GreaterOrEqual(t, some, MinMatchScore)
}

func TestExtractAbbreviation(t *testing.T) {
	assert.Equal(t, "btech", extractAbbreviation("Bachelor of Technology (B.Tech)"))
	assert.Equal(t, "", extractAbbreviation("No parens here"))
}
