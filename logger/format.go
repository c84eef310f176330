package logger

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
)

// Раскладки отметки времени по локали LANGUAGE
var localeLayouts = map[string]string{
	"en-US": "1/2/2006, 3:04:05 PM",
	"en-GB": "02/01/2006, 15:04:05",
	"sv-SE": "2006-01-02 15:04:05",
	"de-DE": "2.1.2006, 15:04:05",
	"fr-FR": "02/01/2006 15:04:05",
}

func timeLayout(language string) string {
	if layout, ok := localeLayouts[language]; ok {
		return layout
	}
	return time.RFC3339
}

// lineFormat renders a zerolog JSON event as
// `timestamp [label] level: JSON(message)` followed by any context fields.
type lineFormat struct {
	label  string
	layout string
	loc    *time.Location
	now    func() time.Time
}

func (f *lineFormat) render(event []byte) ([]byte, error) {
	var fields map[string]any
	if err := sonic.Unmarshal(event, &fields); err != nil {
		return nil, fmt.Errorf("decode log event: %w", err)
	}

	level, _ := fields[zerolog.LevelFieldName].(string)
	message, _ := fields[zerolog.MessageFieldName].(string)
	delete(fields, zerolog.LevelFieldName)
	delete(fields, zerolog.MessageFieldName)

	quoted, err := sonic.MarshalString(message)
	if err != nil {
		return nil, fmt.Errorf("encode log message: %w", err)
	}

	var b strings.Builder
	b.WriteString(f.now().In(f.loc).Format(f.layout))
	b.WriteString(" [")
	b.WriteString(f.label)
	b.WriteString("] ")
	b.WriteString(level)
	b.WriteString(": ")
	b.WriteString(quoted)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fieldValue(fields[k]))
	}
	b.WriteByte('\n')

	return []byte(b.String()), nil
}

func fieldValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	out, err := sonic.MarshalString(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return out
}

// sink пишет события не ниже min в out
type sink struct {
	mu     sync.Mutex
	out    io.Writer
	min    zerolog.Level
	format *lineFormat
}

func newSink(out io.Writer, min zerolog.Level, format *lineFormat) *sink {
	return &sink{out: out, min: min, format: format}
}

func (s *sink) Write(p []byte) (int, error) {
	return s.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel drops events below the sink threshold without reporting an error.
func (s *sink) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < s.min {
		return len(p), nil
	}

	line, err := s.format.render(p)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(line); err != nil {
		return 0, err
	}
	return len(p), nil
}

// ParseSize разбирает размер файла вида 10m, 512k, 1g или число байт
func ParseSize(s string) (int64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty log file size")
	}

	mult := int64(1)
	switch s[len(s)-1] {
	case 'k':
		mult = 1 << 10
	case 'm':
		mult = 1 << 20
	case 'g':
		mult = 1 << 30
	}
	if mult > 1 {
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid log file size %q", s)
	}
	return n * mult, nil
}

// megabytes rounds up to lumberjack's unit, never below 1.
func megabytes(n int64) int {
	mb := (n + (1<<20 - 1)) >> 20
	if mb < 1 {
		return 1
	}
	return int(mb)
}
