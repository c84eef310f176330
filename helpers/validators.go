package helpers

import (
	"regexp"
	"unicode/utf8"
)

var (
	emailRegex   = regexp.MustCompile(`(?i)^[a-z0-9._-]+@[a-z0-9._-]+\.[a-z]{2,}$`)
	integerRegex = regexp.MustCompile(`^[+-]?[0-9]+$`)
	floatRegex   = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]+)?|\.[0-9]+)$`)
	nameRegex    = regexp.MustCompile(`^[a-zA-Z]+$`)
)

// MinPasswordLength минимальная длина пароля
const MinPasswordLength = 8

// IsValidEmail проверяет адрес вида local@domain.tld
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsValidInteger accepts an optional sign followed by digits only.
// "12E3", "12.3" and "" are rejected.
func IsValidInteger(s string) bool {
	return integerRegex.MatchString(s)
}

// IsValidFloat accepts an optional sign, digits and an optional fractional
// part. Exponents are rejected and at least one digit is required.
func IsValidFloat(s string) bool {
	return floatRegex.MatchString(s)
}

// IsValidName принимает только латинские буквы
func IsValidName(s string) bool {
	return nameRegex.MatchString(s)
}

// IsValidPassword проверяет минимальную длину пароля в символах
func IsValidPassword(s string) bool {
	return utf8.RuneCountInString(s) >= MinPasswordLength
}

// IsValidString reports whether v is a string with non-whitespace content.
func IsValidString(v any) bool {
	_, ok := v.(string)
	return ok && IsNotEmpty(v)
}
