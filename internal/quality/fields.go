package quality

import "regexp"

// criticalField pairs a referral field with the patterns that detect it. A
// field is present if any pattern matches; otherwise it counts as missing.
type criticalField struct {
	name     string
	patterns []*regexp.Regexp
}

// criticalFields is the fixed catalog. Order is load-bearing: MissingFields
// returns missing names in catalog order.
var criticalFields = []criticalField{
	{"Patient Name", compileAll(`(?i)patient.*name`, `(?i)first.*name`, `(?i)last.*name`)},
	{"Date of Birth", compileAll(`(?i)date.*birth`, `(?i)dob`, `(?i)born`)},
	{"Medical Record Number", compileAll(`(?i)medical.*record`, `(?i)mrn`, `(?i)patient.*id`)},
	{"Referring Physician", compileAll(`(?i)referring.*physician`, `(?i)doctor`, `(?i)md`)},
	{"Chief Complaint", compileAll(`(?i)chief.*complaint`, `(?i)symptoms`, `(?i)diagnosis`)},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		res[i] = regexp.MustCompile(e)
	}
	return res
}

// MissingFields returns the names of critical fields with no pattern match in
// text, preserving catalog order. The result is always a subset of the
// five-entry catalog.
func MissingFields(text string) []string {
	var missing []string
	for _, f := range criticalFields {
		found := false
		for _, p := range f.patterns {
			if p.MatchString(text) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, f.name)
		}
	}
	return missing
}
