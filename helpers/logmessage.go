package helpers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

// RequestContext is the params/body/query triad of a request, kept only to
// build a log line.
type RequestContext struct {
	Params map[string]any
	Body   map[string]any
	Query  map[string]any
}

// ParsedRequest holds the flattened `key = value` segments of a RequestContext.
type ParsedRequest struct {
	Params string
	Body   string
	Query  string
}

// RequestContextFromFiber extracts route params, the JSON or URL-encoded body
// and the query string of c. An undecodable body is left out.
func RequestContextFromFiber(c *fiber.Ctx) RequestContext {
	rc := RequestContext{
		Params: toAnyMap(c.AllParams()),
		Query:  toAnyMap(c.Queries()),
	}

	contentType := c.Get(fiber.HeaderContentType)
	switch {
	case strings.HasPrefix(contentType, fiber.MIMEApplicationJSON):
		var body map[string]any
		if err := sonic.Unmarshal(c.Body(), &body); err == nil {
			rc.Body = body
		}
	case strings.HasPrefix(contentType, fiber.MIMEApplicationForm):
		body := map[string]any{}
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			body[string(k)] = string(v)
		})
		rc.Body = body
	}

	return rc
}

func toAnyMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ParseRequestObject flattens each non-empty section of r into comma-joined
// `key = value` pairs sorted by key.
func ParseRequestObject(r RequestContext) ParsedRequest {
	return ParsedRequest{
		Params: joinPairs(r.Params),
		Body:   joinPairs(r.Body),
		Query:  joinPairs(r.Query),
	}
}

func joinPairs(m map[string]any) string {
	if IsEmpty(m) {
		return ""
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s = %s", k, displayValue(m[k])))
	}
	return strings.Join(pairs, ", ")
}

func displayValue(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any, []any:
		if s, err := sonic.MarshalString(v); err == nil {
			return s
		}
	}
	return stringify(v)
}

// RequestToLog renders the labelled sections of r, each followed by " - ".
func RequestToLog(r RequestContext) string {
	parsed := ParseRequestObject(r)

	var b strings.Builder
	if parsed.Params != "" {
		fmt.Fprintf(&b, "Params: [%s] - ", parsed.Params)
	}
	if parsed.Body != "" {
		fmt.Fprintf(&b, "Body: [%s] - ", parsed.Body)
	}
	if parsed.Query != "" {
		fmt.Fprintf(&b, "Query: [%s] - ", parsed.Query)
	}
	return b.String()
}

// InformationLogMessage builds the info line logged when a handler starts.
func InformationLogMessage(folder, file, function string, r RequestContext) string {
	return trimSeparator(fmt.Sprintf("ℹ️  %s/%s - Function Name: %s - %s", folder, file, function, RequestToLog(r)))
}

// ErrorLogMessage builds the error line logged when a handler fails.
func ErrorLogMessage(errorType, folder, file, function string, r RequestContext) string {
	return trimSeparator(fmt.Sprintf("🚨 %s: %s/%s - Function Name: %s - %s", errorType, folder, file, function, RequestToLog(r)))
}

// trimSeparator drops the last three runes, the trailing " - " of every
// message built above. It does not check that the separator is present, so
// input without one loses real content.
func trimSeparator(s string) string {
	r := []rune(s)
	if len(r) <= 3 {
		return ""
	}
	return string(r[:len(r)-3])
}
