package helpers

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cast"
)

const (
	passwordLength  = 12
	passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_)(+=-%$#@!^&*"
)

// CompareDate reports whether a is strictly after b. Values that cannot be
// read as a time compare as false.
func CompareDate(a, b any) bool {
	ta, err := cast.ToTimeE(a)
	if err != nil {
		return false
	}
	tb, err := cast.ToTimeE(b)
	if err != nil {
		return false
	}
	return ta.After(tb)
}

// Capitalize переводит первую букву в верхний регистр
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// CheckNegativeNumber reports whether v is a number >= 0.
func CheckNegativeNumber(v any) bool {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return false
	}
	return f >= 0
}

// GeneratePassword returns a 12-character password drawn from a fixed
// charset. The source is not cryptographically secure.
func GeneratePassword() string {
	var b strings.Builder
	b.Grow(passwordLength)
	for i := 0; i < passwordLength; i++ {
		b.WriteByte(passwordCharset[rand.IntN(len(passwordCharset))])
	}
	return b.String()
}

// Sleep blocks the calling goroutine for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// GetDateString returns the current local time as YYYY-MM-DD-HH-MM-SS.
func GetDateString() string {
	return time.Now().Format("2006-01-02-15-04-05")
}
