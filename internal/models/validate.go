package models

import (
	"regexp"
	"strings"
)

var (
	nikRE   = regexp.MustCompile(`^\d{16}$`)
	phoneRE = regexp.MustCompile(`^(08|628|\+628)\d{8,12}$`)
)

// ValidNIK reports whether s is a 16-digit national identity number.
func ValidNIK(s string) bool {
	return nikRE.MatchString(s)
}

// ValidPhoneID reports whether s is an Indonesian phone number. Spaces are
// ignored.
func ValidPhoneID(s string) bool {
	return phoneRE.MatchString(strings.ReplaceAll(s, " ", ""))
}
