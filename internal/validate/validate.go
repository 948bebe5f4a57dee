// Package validate holds the field checks shared by every form the service
// accepts. Checks are registered as validator tags; forms report only the
// first failing field.
package validate

import (
	"regexp"
	"strings"
)

var (
	nameRe         = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	phoneRe        = regexp.MustCompile(`^[0-9]{10,15}$`)
	indianMobileRe = regexp.MustCompile(`^[6-9]\d{9}$`)
	gradYearRe     = regexp.MustCompile(`^(19|20)\d{2}$`)
	safeTextRe     = regexp.MustCompile(`^[a-zA-Z0-9\s.,'()-]+$`)
	emailRe        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const (
	MsgInvalidEmail    = "Invalid email format"
	MsgDisposableEmail = "Temporary emails are not allowed. Please use a valid personal email."
	MsgInvalidMobile   = "Invalid Mobile Number. Please enter a valid 10-digit Indian number."
)

var disposableDomains = map[string]struct{}{
	"tempmail.com":      {},
	"mailinator.com":    {},
	"guerrillamail.com": {},
	"10minutemail.com":  {},
	"yopmail.com":       {},
	"throwawaymail.com": {},
}

// Name accepts ASCII letters and whitespace only.
func Name(s string) bool { return nameRe.MatchString(s) }

func Phone(s string) bool { return phoneRe.MatchString(s) }

// IndianMobile is exactly ten digits starting with 6-9.
func IndianMobile(s string) bool { return indianMobileRe.MatchString(s) }

func GradYear(s string) bool { return gradYearRe.MatchString(s) }

func SafeText(s string) bool { return safeTextRe.MatchString(s) }

func EmailAddress(s string) bool { return emailRe.MatchString(strings.TrimSpace(s)) }

// PersonalEmail rejects addresses on the disposable domain list. It does
// not check the shape; pair it with EmailAddress.
func PersonalEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return true
	}
	_, blocked := disposableDomains[strings.ToLower(s[at+1:])]
	return !blocked
}
