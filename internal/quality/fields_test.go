package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingFields_AllMissing(t *testing.T) {
	missing := MissingFields("nothing relevant here")
	assert.Equal(t, []string{
		"Patient Name",
		"Date of Birth",
		"Medical Record Number",
		"Referring Physician",
		"Chief Complaint",
	}, missing)
}

func TestMissingFields_AllPresent(t *testing.T) {
	text := "Patient Name: Jane\nDOB: 1980-01-02\nMRN: 12345\nReferring Physician: Dr. Smith\nChief Complaint: cough"
	assert.Empty(t, MissingFields(text))
}

func TestMissingFields_AlternatePatterns(t *testing.T) {
	// Each field detected via a secondary pattern.
	text := "first name Jane, born 1980, patient id 42, seen by doctor, symptoms include cough"
	assert.Empty(t, MissingFields(text))
}

func TestMissingFields_SubsetAndOrderStable(t *testing.T) {
	text := "Chief Complaint: headache. Patient Name: John."
	missing := MissingFields(text)
	assert.Equal(t, []string{"Date of Birth", "Medical Record Number", "Referring Physician"}, missing)

	// Deterministic for identical input.
	assert.Equal(t, missing, MissingFields(text))
}
