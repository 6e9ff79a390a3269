package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"faxfhir/internal/domain"
	"faxfhir/internal/quality"
)

func intPtr(i int) *int { return &i }

func TestFuse_ScoreNeverExceedsEitherSignal(t *testing.T) {
	cases := []struct {
		name     string
		self     *int
		qaScore  int
		expected int
	}{
		{"quality clamps self-report", intPtr(90), 40, 40},
		{"self-report clamps quality", intPtr(30), 95, 30},
		{"equal signals", intPtr(75), 75, 75},
		{"missing self-report defaults to 50", nil, 80, 50},
		{"default clamped by quality", nil, 20, 20},
		{"explicit zero is kept", intPtr(0), 100, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := &domain.SelfReport{OverallConfidence: domain.ConfidenceHigh, ConfidenceScore: tc.self}
			metrics, _ := Fuse(report, quality.Assessment{Score: tc.qaScore}, nil)
			assert.Equal(t, tc.expected, metrics.ConfidenceScore)
			assert.LessOrEqual(t, metrics.ConfidenceScore, tc.qaScore)
			if tc.self != nil {
				assert.LessOrEqual(t, metrics.ConfidenceScore, *tc.self)
			}
		})
	}
}

func TestFuse_NilReportDefaultsLow(t *testing.T) {
	metrics, decision := Fuse(nil, quality.Assessment{Score: 100}, nil)
	assert.Equal(t, domain.ConfidenceLow, metrics.OverallConfidence)
	assert.Equal(t, 50, metrics.ConfidenceScore)
	assert.True(t, decision.NeedsReview)
}

func TestFuse_HighQualityCompleteDocument(t *testing.T) {
	report := &domain.SelfReport{
		OverallConfidence: domain.ConfidenceHigh,
		ConfidenceScore:   intPtr(90),
	}
	metrics, decision := Fuse(report, quality.Assessment{Score: 100}, nil)

	assert.Equal(t, 90, metrics.ConfidenceScore)
	assert.Equal(t, domain.ConfidenceHigh, metrics.OverallConfidence)
	assert.False(t, decision.NeedsReview)
	assert.Empty(t, decision.Comments)
}

func TestFuse_PoorQualityAlwaysNeedsReview(t *testing.T) {
	// Quality below 60 forces review regardless of the self-report.
	report := &domain.SelfReport{
		OverallConfidence: domain.ConfidenceHigh,
		ConfidenceScore:   intPtr(95),
	}
	metrics, decision := Fuse(report, quality.Assessment{Score: 59, Issues: []string{"Excessive whitespace"}}, nil)

	assert.True(t, decision.NeedsReview)
	assert.Equal(t, 59, metrics.ConfidenceScore)
	assert.Equal(t, "Poor OCR quality - verify data.", decision.Comments[0])
}

func TestFuse_MissingFieldLimit(t *testing.T) {
	report := &domain.SelfReport{OverallConfidence: domain.ConfidenceHigh, ConfidenceScore: intPtr(90)}

	_, decision := Fuse(report, quality.Assessment{Score: 100}, []string{"Patient Name", "Date of Birth"})
	assert.False(t, decision.NeedsReview, "two missing fields stay under the limit")

	_, decision = Fuse(report, quality.Assessment{Score: 100}, []string{"Patient Name", "Date of Birth", "Chief Complaint"})
	assert.True(t, decision.NeedsReview, "three missing fields force review")
}

func TestFuse_FlaggedFieldsUnionWithoutDedup(t *testing.T) {
	report := &domain.SelfReport{
		OverallConfidence: domain.ConfidenceMedium,
		ConfidenceScore:   intPtr(60),
		FlaggedFields:     []string{"Patient Name"},
	}
	metrics, _ := Fuse(report, quality.Assessment{Score: 80}, []string{"Patient Name"})
	assert.Equal(t, []string{"Patient Name", "Patient Name"}, metrics.FlaggedFields)
}

func TestFuse_IssuesConcatenatedServiceFirst(t *testing.T) {
	report := &domain.SelfReport{
		OverallConfidence: domain.ConfidenceMedium,
		ConfidenceScore:   intPtr(80),
		ParsingIssues:     []string{"ambiguous date"},
	}
	metrics, _ := Fuse(report, quality.Assessment{Score: 70, Issues: []string{"Excessive whitespace"}}, nil)
	assert.Equal(t, []string{"ambiguous date", "Excessive whitespace"}, metrics.ParsingIssues)
}

func TestFuse_CommentOrder(t *testing.T) {
	report := &domain.SelfReport{
		OverallConfidence: domain.ConfidenceLow,
		ConfidenceScore:   intPtr(40),
		FlaggedFields:     []string{"dob"},
		Reasoning:         "handwriting was hard to read",
	}
	_, decision := Fuse(report, quality.Assessment{Score: 50}, []string{"Date of Birth"})

	assert.True(t, decision.NeedsReview)
	assert.Equal(t, []string{
		"Poor OCR quality - verify data.",
		"Missing fields: Date of Birth",
		"Uncertain fields: dob, Date of Birth",
		"Model: handwriting was hard to read",
	}, decision.Comments)
}

func TestFuse_ReviewWithoutComments(t *testing.T) {
	// Low level alone triggers review but produces no advisory comments.
	report := &domain.SelfReport{OverallConfidence: domain.ConfidenceLow, ConfidenceScore: intPtr(85)}
	_, decision := Fuse(report, quality.Assessment{Score: 90}, nil)
	assert.True(t, decision.NeedsReview)
	assert.Empty(t, decision.Comments)
}
