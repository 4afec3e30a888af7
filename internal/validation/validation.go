// Package validation holds the stateless field checks shared by the
// registration steps. Every function is pure; there is nothing to construct.
package validation

import (
	"regexp"
	"strings"
	"time"
)

const (
	MsgRequired    = "This field is required"
	MsgAadhaar     = "Aadhaar number must be 12 digits"
	MsgAadhaarBad  = "Invalid Aadhaar number"
	MsgMobile      = "Mobile number must be 10 digits starting with 6-9"
	MsgOTP         = "OTP must be 6 digits"
	MsgPAN         = "PAN must be in format: ABCDE1234F (5 letters, 4 numbers, 1 letter)"
	MsgName        = "Name must contain only letters and spaces (2-100 characters)"
	MsgDateInvalid = "Please enter a valid date"
	MsgDateFuture  = "Date of birth cannot be in the future"
	MsgUnderage    = "You must be at least 18 years old"
	MsgDateOfBirth = "Please enter a valid date of birth"
)

const (
	MinAge = 18
	MaxAge = 100

	// DateLayout is the canonical date-only wire format.
	DateLayout = "2006-01-02"
)

var (
	reAadhaar = regexp.MustCompile(`^\d{12}$`)
	reMobile  = regexp.MustCompile(`^[6-9]\d{9}$`)
	reOTP     = regexp.MustCompile(`^\d{6}$`)
	rePAN     = regexp.MustCompile(`^[A-Z]{5}\d{4}[A-Z]$`)
	reName    = regexp.MustCompile(`^[A-Za-z ]{2,100}$`)
	reLower   = regexp.MustCompile(`[a-z]`)

	reAadhaarSep = regexp.MustCompile(`[\s-]`)
	reMobileSep  = regexp.MustCompile(`[\s\-+()]`)
	reSpaces     = regexp.MustCompile(`\s+`)
	reNonDigit   = regexp.MustCompile(`\D`)
	reAadhaarFmt = regexp.MustCompile(`(\d{4})(\d{4})(\d{4})`)
)

// CleanAadhaar strips spaces and hyphens.
func CleanAadhaar(s string) string { return reAadhaarSep.ReplaceAllString(s, "") }

// CleanMobile strips spaces, hyphens, plus signs and parentheses.
func CleanMobile(s string) string { return reMobileSep.ReplaceAllString(s, "") }

// NormalizeName uppercases and collapses runs of whitespace.
func NormalizeName(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(strings.ToUpper(s), " "))
}

// ValidateAadhaar returns "" when s is a valid Aadhaar number.
func ValidateAadhaar(s string) string {
	if s == "" {
		return MsgRequired
	}
	clean := CleanAadhaar(s)
	if !reAadhaar.MatchString(clean) {
		return MsgAadhaar
	}
	if !aadhaarChecksum(clean) {
		return MsgAadhaarBad
	}
	return ""
}

// aadhaarChecksum is a placeholder: any 12-digit number passes.
func aadhaarChecksum(s string) bool {
	return len(s) == 12 && reAadhaar.MatchString(s)
}

func ValidateMobile(s string) string {
	if s == "" {
		return MsgRequired
	}
	if !reMobile.MatchString(CleanMobile(s)) {
		return MsgMobile
	}
	return ""
}

func ValidateOTP(s string) string {
	if s == "" {
		return MsgRequired
	}
	if !reOTP.MatchString(s) {
		return MsgOTP
	}
	return ""
}

// ValidatePAN rejects lowercase input before normalizing.
func ValidatePAN(s string) string {
	if s == "" {
		return MsgRequired
	}
	if reLower.MatchString(s) {
		return MsgPAN
	}
	if !rePAN.MatchString(FormatPAN(s)) {
		return MsgPAN
	}
	return ""
}

func ValidateName(s string) string {
	if s == "" {
		return MsgRequired
	}
	if !reName.MatchString(strings.TrimSpace(s)) {
		return MsgName
	}
	return ""
}

// ParseDate accepts a date-only value or an RFC3339 timestamp and returns
// midnight UTC of that calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// timestampLayouts are the ISO 8601 shapes accepted for client timestamps.
// Values without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	DateLayout,
}

// ParseTimestamp parses an ISO 8601 date or date-time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

// Age returns whole years between dob and now.
func Age(dob, now time.Time) int {
	now = now.UTC()
	dob = dob.UTC()
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

func ValidateDateOfBirth(s string) string { return ValidateDateOfBirthAt(s, time.Now()) }

func ValidateDateOfBirthAt(s string, now time.Time) string {
	if s == "" {
		return MsgRequired
	}
	dob, err := ParseDate(s)
	if err != nil {
		return MsgDateInvalid
	}
	if dob.After(now.UTC()) {
		return MsgDateFuture
	}
	age := Age(dob, now)
	if age < MinAge {
		return MsgUnderage
	}
	if age > MaxAge {
		return MsgDateOfBirth
	}
	return ""
}

// Values carries the wizard fields of both steps.
type Values struct {
	Aadhaar          string `json:"aadhaar"`
	EntrepreneurName string `json:"entrepreneurName"`
	Mobile           string `json:"mobile"`
	OTP              string `json:"otp"`
	PAN              string `json:"pan"`
	PanHolderName    string `json:"panHolderName"`
	DateOfBirth      string `json:"dateOfBirth"`
}

// ValidateStep returns field -> first error for the given wizard step. Fields
// without errors are omitted; unknown steps yield an empty map.
func ValidateStep(v Values, step int) map[string]string {
	errs := map[string]string{}
	check := func(field, value string, fn func(string) string) {
		if strings.TrimSpace(value) == "" {
			errs[field] = MsgRequired
			return
		}
		if msg := fn(value); msg != "" {
			errs[field] = msg
		}
	}

	switch step {
	case 1:
		check("aadhaar", v.Aadhaar, ValidateAadhaar)
		check("entrepreneurName", v.EntrepreneurName, ValidateName)
		check("mobile", v.Mobile, ValidateMobile)
		if v.OTP != "" {
			check("otp", v.OTP, ValidateOTP)
		}
	case 2:
		check("pan", v.PAN, ValidatePAN)
		check("panHolderName", v.PanHolderName, ValidateName)
		check("dateOfBirth", v.DateOfBirth, ValidateDateOfBirth)
	}
	return errs
}

// FormatAadhaar groups the digits as "1234 5678 9012".
func FormatAadhaar(s string) string {
	clean := reNonDigit.ReplaceAllString(s, "")
	return reAadhaarFmt.ReplaceAllString(clean, "$1 $2 $3")
}

// FormatMobile groups a 10-digit number as "98765 43210".
func FormatMobile(s string) string {
	clean := reNonDigit.ReplaceAllString(s, "")
	if len(clean) == 10 {
		return clean[:5] + " " + clean[5:]
	}
	return clean
}

func FormatPAN(s string) string {
	return reSpaces.ReplaceAllString(strings.ToUpper(s), "")
}
