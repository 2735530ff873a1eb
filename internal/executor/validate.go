package executor

import "regexp"

var phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

// ValidPhone reports whether the string is a well-formed subscriber
// number: 11 digits starting 13–19.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
