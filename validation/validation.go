package validation

import (
	"strconv"
	"strings"
	"unicode"

	pdfgen "github.com/diewo77/quotes/pdf"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

// ID parses a positive numeric identifier.
func ID(field, value string, v Violations) uint {
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil || n == 0 {
		v[field] = "invalid_id"
		return 0
	}
	return uint(n)
}

// Paper parses a paper size, empty meaning the default.
func Paper(field, value string, v Violations) pdfgen.PaperSize {
	p, err := pdfgen.ParsePaperSize(value)
	if err != nil {
		v[field] = "invalid_paper"
	}
	return p
}

// Orientation parses a page orientation, empty meaning portrait.
func Orientation(field, value string, v Violations) pdfgen.Orientation {
	o, err := pdfgen.ParseOrientation(value)
	if err != nil {
		v[field] = "invalid_orient"
	}
	return o
}

// Phone keeps the digits of a phone number; 8 to 15 digits are accepted.
func Phone(field, value string, v Violations) string {
	digits := DigitsOnly(value)
	if len(digits) < 8 || len(digits) > 15 {
		v[field] = "invalid_phone"
	}
	return digits
}

// DigitsOnly drops every non-digit rune.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
