package validate

import (
	"regexp"
	"strings"
)

var (
	reEmail   = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePhone   = regexp.MustCompile(`^[0-9+\-() ]{7,20}$`)
	reLast5   = regexp.MustCompile(`^[0-9]{5}$`)
	reOrderID = regexp.MustCompile(`^[A-Za-z0-9_-]{5}$`)
	reCode    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 40 {
		return "", false
	}
	return s, true
}

func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 60 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

func Address(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 120 {
		return "", false
	}
	return s, true
}

// Last5 validates the trailing digits of the transfer account.
func Last5(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reLast5.MatchString(s)
}

// Optional trims free-form optional fields to a sane length.
func Optional(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		s = s[:max]
	}
	return s
}

// Code validates a product code.
func Code(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reCode.MatchString(s)
}

// OrderID validates the 5-character public order id.
func OrderID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reOrderID.MatchString(s)
}
