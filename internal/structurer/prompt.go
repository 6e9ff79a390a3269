package structurer

import "fmt"

// BuildReferralPrompt builds the instruction sent to a model together with
// the OCR text of a referral fax. The response contract is a single JSON
// object carrying the FHIR bundle plus the model's own confidence
// self-assessment.
func BuildReferralPrompt(ocrText string) string {
	return fmt.Sprintf(`Convert the following medical referral form text into FHIR-compliant JSON. IMPORTANT: You must also provide a confidence assessment.

OCR Text:
%s

Please return a JSON response with this exact structure:
{
  "fhirBundle": { ... },
  "confidence": {
    "overallConfidence": "high|medium|low",
    "confidenceScore": 0-100,
    "flaggedFields": [],
    "parsingIssues": [],
    "reasoning": "..."
  }
}

Confidence Guidelines:
- HIGH (80-100): Clear text, all critical fields present, no ambiguity
- MEDIUM (50-79): Some unclear text or missing non-critical fields
- LOW (0-49): Poor text quality, missing critical fields, or high uncertainty

Be conservative with confidence scores for medical data. Flag any field where you had to guess or interpret unclear text.`, ocrText)
}
