// Package quality scores raw OCR text for artifacts of poor scanning or
// recognition and checks for the presence of critical referral fields. All
// functions are pure.
package quality

import "regexp"

// Assessment is the result of scoring one document's OCR text.
type Assessment struct {
	Score  int      `json:"score"`
	Issues []string `json:"issues"`
}

// artifactCheck is one entry in the fixed penalty catalog. Checks are applied
// in order; a text can trip several and the issues are not deduplicated.
type artifactCheck struct {
	pattern *regexp.Regexp
	issue   string
	penalty int
}

var artifactChecks = []artifactCheck{
	{regexp.MustCompile(`[|\\/]{3,}`), "Multiple vertical lines detected", 15},
	{regexp.MustCompile(`\s{5,}`), "Excessive whitespace", 10},
	{regexp.MustCompile(`[0O]{3,}|[Il]{3,}`), "Character confusion (0/O, I/l)", 20},
	// Pipes and backslashes are scan-line artifacts handled by the vertical
	// lines check above; they must not also count as noise characters.
	{regexp.MustCompile(`[^\w\s\-.,()/@:|\\]`), "Special characters", 5},
	{regexp.MustCompile(`^\s*$`), "Empty or whitespace-only text", 100},
}

var medicalKeywords = regexp.MustCompile(`(?i)patient|name|date|doctor|physician`)

const (
	shortTextLength  = 100
	shortTextPenalty = 25
	noFormPenalty    = 30
)

// Assess scores text on a 0-100 scale, starting at 100 and subtracting a
// fixed penalty for each artifact check that fires. The score is clamped at
// zero; penalties only subtract, so no upper clamp is needed.
func Assess(text string) Assessment {
	score := 100
	var issues []string

	for _, check := range artifactChecks {
		if check.pattern.MatchString(text) {
			issues = append(issues, check.issue)
			score -= check.penalty
		}
	}

	if len(text) < shortTextLength {
		issues = append(issues, "Very short text - possible incomplete OCR")
		score -= shortTextPenalty
	}

	if !medicalKeywords.MatchString(text) {
		issues = append(issues, "No recognizable medical form structure")
		score -= noFormPenalty
	}

	if score < 0 {
		score = 0
	}
	return Assessment{Score: score, Issues: issues}
}
