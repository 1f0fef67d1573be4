package reservation

import "regexp"

// MaxSelectedTimes is the number of time slots a single reservation may hold.
const MaxSelectedTimes = 2

// XXX-XXXX-XXXX or XXXXXXXXXXX
var phoneNumberPattern = regexp.MustCompile(`^\d{3}-?\d{4}-?\d{4}$`)

// IsValidPhoneNumber reports whether phone is a mobile number the backend accepts.
func IsValidPhoneNumber(phone string) bool {
	return phoneNumberPattern.MatchString(phone)
}

func isAdjacent(a, b int) bool {
	return a == b+1 || a == b-1
}
