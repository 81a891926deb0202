package utils

import "regexp"

// Institutional addresses are a 7-digit student number at ub.edu.ph.
var institutionalEmailRe = regexp.MustCompile(`^[0-9]{7}@ub\.edu\.ph$`)

func IsInstitutionalEmail(email string) bool {
	return institutionalEmailRe.MatchString(email)
}
