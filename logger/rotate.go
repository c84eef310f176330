package logger

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const datePlaceholder = "%DATE%"

// datedFile пишет в lumberjack-файл, в имени которого стоит текущая дата.
// С наступлением новой даты открывается новый файл; ротация по размеру
// остаётся за lumberjack.
type datedFile struct {
	mu       sync.Mutex
	folder   string
	pattern  string
	maxBytes int64
	loc      *time.Location
	now      func() time.Time

	date string
	file *lumberjack.Logger
}

func newDatedFile(folder, pattern string, maxBytes int64, loc *time.Location, now func() time.Time) *datedFile {
	d := &datedFile{
		folder:   folder,
		pattern:  pattern,
		maxBytes: maxBytes,
		loc:      loc,
		now:      now,
	}
	d.date = d.today()
	d.file = rotatingFile(folder, pattern, d.date, maxBytes)
	return d
}

func (d *datedFile) today() string {
	return d.now().In(d.loc).Format(time.DateOnly)
}

func (d *datedFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if strings.Contains(d.pattern, datePlaceholder) {
		if today := d.today(); today != d.date {
			d.file.Close() //nolint:errcheck
			d.date = today
			d.file = rotatingFile(d.folder, d.pattern, today, d.maxBytes)
		}
	}
	return d.file.Write(p)
}

// Filename возвращает путь к текущему файлу
func (d *datedFile) Filename() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.file.Filename
}

func (d *datedFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.file.Close()
}

func rotatingFile(folder, pattern, date string, maxBytes int64) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(folder, strings.ReplaceAll(pattern, datePlaceholder, date)),
		MaxSize:    megabytes(maxBytes),
		MaxBackups: 1,
	}
}
