package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssess_ScoreAlwaysInRange(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"||| ||| \\\\\\ /// 000 III",
		strings.Repeat("x", 5000),
		"Patient Name: Jane Doe\nDate of Birth: 01/02/1980\nReferring Physician: Dr. Smith",
		"!!!###$$$%%%^^^&&&",
	}
	for _, in := range inputs {
		a := Assess(in)
		assert.GreaterOrEqual(t, a.Score, 0, "input %q", in)
		assert.LessOrEqual(t, a.Score, 100, "input %q", in)
	}
}

func TestAssess_EmptyTextScoresZero(t *testing.T) {
	for _, in := range []string{"", " ", "\n\t  \n"} {
		a := Assess(in)
		assert.Equal(t, 0, a.Score, "input %q", in)
		assert.Contains(t, a.Issues, "Empty or whitespace-only text")
	}
}

func TestAssess_ShortGarbledText(t *testing.T) {
	// 15 (vertical lines) + 25 (short) + 30 (no medical keywords) = 70 off.
	a := Assess("||| |||")
	assert.Equal(t, 30, a.Score)
	assert.Contains(t, a.Issues, "Multiple vertical lines detected")
	assert.Contains(t, a.Issues, "Very short text - possible incomplete OCR")
	assert.Contains(t, a.Issues, "No recognizable medical form structure")
}

func TestAssess_CleanReferralText(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat(
		"Patient Name: Jane Doe. Date of Birth: 1980-01-02. Referring Physician: Dr. Smith. Chief Complaint: cough. ", 6))
	a := Assess(text)
	assert.Equal(t, 100, a.Score)
	assert.Empty(t, a.Issues)
}

func TestAssess_IssuesFollowCheckOrder(t *testing.T) {
	a := Assess("|||      000")
	assert.Equal(t, []string{
		"Multiple vertical lines detected",
		"Excessive whitespace",
		"Character confusion (0/O, I/l)",
		"Very short text - possible incomplete OCR",
		"No recognizable medical form structure",
	}, a.Issues)
	assert.Equal(t, 100-15-10-20-25-30, a.Score)
}

func TestAssess_VerticalLineArtifactsAreNotNoiseCharacters(t *testing.T) {
	// Pipe and backslash runs are penalized once, by the vertical lines
	// check, never a second time as special characters.
	for _, text := range []string{"||| |||", `\\\ \\\`} {
		a := Assess(text)
		assert.Equal(t, 30, a.Score, "text %q", text)
		assert.NotContains(t, a.Issues, "Special characters")
	}

	// A genuine noise character still trips the check.
	a := Assess("patient name date doctor physician ### more text to pass")
	assert.Contains(t, a.Issues, "Special characters")
}

func TestAssess_MissingKeywordsPenalty(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 4)
	a := Assess(text)
	assert.Equal(t, 70, a.Score)
	assert.Equal(t, []string{"No recognizable medical form structure"}, a.Issues)
}
