package helpers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stringify renders untyped input the way it arrives in a query string.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return x.Hex()
	case time.Time:
		return strconv.FormatInt(x.UnixMilli(), 10)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// GetValidInteger returns input parsed as an integer, or def when input is
// not a valid integer. A def that is itself invalid is treated as 0.
func GetValidInteger(input, def any) int64 {
	fallback := stringify(def)
	if !IsValidInteger(fallback) {
		fallback = "0"
	}

	if s := stringify(input); IsValidInteger(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	}

	n, err := strconv.ParseInt(fallback, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// GetValidFloat returns input parsed as a float, or def when input is not a
// valid float. A def that is itself invalid is treated as 0.
func GetValidFloat(input, def any) float64 {
	fallback := stringify(def)
	if !IsValidFloat(fallback) {
		fallback = "0"
	}

	if s := stringify(input); IsValidFloat(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	f, err := strconv.ParseFloat(fallback, 64)
	if err != nil {
		return 0
	}
	return f
}

// GetValidBoolean returns bool input unchanged and true for any
// case-insensitive "true". Everything else resolves to def, which is coerced
// the same way; an empty def yields false.
func GetValidBoolean(input, def any) bool {
	if b, ok := input.(bool); ok {
		return b
	}
	if IsNotEmpty(input) && strings.EqualFold(stringify(input), "true") {
		return true
	}
	if b, ok := def.(bool); ok {
		return b
	}
	return IsNotEmpty(def) && strings.EqualFold(stringify(def), "true")
}
