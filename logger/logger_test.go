package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "default config",
			config: Config{},
		},
		{
			name:   "error level",
			config: Config{Level: "error", MaxSize: "1m"},
		},
		{
			name:    "invalid level",
			config:  Config{Level: "loud"},
			wantErr: true,
		},
		{
			name:    "invalid size",
			config:  Config{MaxSize: "ten"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Folder = t.TempDir()
			l, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, l.Close())
		})
	}
}

func TestSanitizeConfig(t *testing.T) {
	result := sanitize(&Config{})
	assert.Equal(t, ProductionEnv, result.Environment)
	assert.Equal(t, "debug", result.Level)
	assert.Equal(t, "logs", result.Folder)
	assert.Equal(t, "info-%DATE%.log", result.InfoFile)
	assert.Equal(t, "error-%DATE%.log", result.ErrorFile)
	assert.Equal(t, "10m", result.MaxSize)
	assert.Equal(t, "en-US", result.Language)
	assert.Equal(t, os.Stdout, result.Console)
}

func TestLineFormat(t *testing.T) {
	f := &lineFormat{
		label:  "api",
		layout: timeLayout("sv-SE"),
		loc:    time.UTC,
		now:    func() time.Time { return time.Date(2026, 10, 18, 9, 5, 7, 0, time.UTC) },
	}

	line, err := f.render([]byte(`{"level":"info","message":"hello \"world\"","port":5000}`))
	require.NoError(t, err)
	assert.Equal(t, "2026-10-18 09:05:07 [api] info: \"hello \\\"world\\\"\" port=5000\n", string(line))
}

func TestConsoleSinkOutsideProduction(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{
		Environment: "development",
		Label:       "svc",
		Folder:      t.TempDir(),
		Console:     &buf,
	})
	require.NoError(t, err)
	defer l.Close()

	l.Info().Msg("started")
	assert.Contains(t, buf.String(), "[svc] info: \"started\"")
}

func TestNoConsoleSinkInProduction(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{
		Environment: ProductionEnv,
		Folder:      t.TempDir(),
		Console:     &buf,
	})
	require.NoError(t, err)
	defer l.Close()

	l.Error().Msg("boom")
	assert.Empty(t, buf.String())
}

func TestFileSinksByLevel(t *testing.T) {
	dir := t.TempDir()
	l, err := New(Config{
		Folder:    dir,
		InfoFile:  "info.log",
		ErrorFile: "error.log",
		Level:     "debug",
	})
	require.NoError(t, err)

	l.Debug().Msg("debug only")
	l.Info().Msg("info line")
	l.Error().Err(assert.AnError).Msg("error line")
	require.NoError(t, l.Close())

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(info), "debug only")
	assert.Contains(t, string(info), "info line")
	assert.Contains(t, string(info), "error line")

	errs, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(errs), "info line")
	assert.Contains(t, string(errs), "error line")
	assert.Contains(t, string(errs), "error="+assert.AnError.Error())
}

func TestBelowThresholdIsDropped(t *testing.T) {
	dir := t.TempDir()
	l, err := New(Config{
		Folder:    dir,
		InfoFile:  "info.log",
		ErrorFile: "error.log",
		Level:     "error",
	})
	require.NoError(t, err)

	assert.NotPanics(t, func() { l.Info().Msg("quiet") })
	require.NoError(t, l.Close())

	_, err = os.Stat(filepath.Join(dir, "info.log"))
	assert.True(t, os.IsNotExist(err), "info sink must not be written below threshold")
}

func TestDateTemplate(t *testing.T) {
	dir := t.TempDir()
	l, err := New(Config{Folder: dir, TimeZone: "UTC"})
	require.NoError(t, err)
	l.Info().Msg("x")
	require.NoError(t, l.Close())

	want := "info-" + time.Now().UTC().Format(time.DateOnly) + ".log"
	_, err = os.Stat(filepath.Join(dir, want))
	assert.NoError(t, err)
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "10m", want: 10 << 20},
		{in: "512k", want: 512 << 10},
		{in: "1G", want: 1 << 30},
		{in: "2048", want: 2048},
		{in: "", wantErr: true},
		{in: "-1m", wantErr: true},
		{in: "mm", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMegabytes(t *testing.T) {
	assert.Equal(t, 1, megabytes(1))
	assert.Equal(t, 1, megabytes(1<<20))
	assert.Equal(t, 2, megabytes(1<<20+1))
	assert.Equal(t, 10, megabytes(10<<20))
}

func TestGlobalFunctions(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Environment: "development", Folder: t.TempDir(), Console: &buf})
	require.NoError(t, err)
	defer l.Close()

	prev := GetGlobal()
	SetGlobal(l)
	defer SetGlobal(prev)

	Debug().Msg("global debug")
	Info().Msg("global info")
	Warn().Msg("global warn")
	Error().Msg("global error")
	Component("db").Info().Msg("component")

	out := buf.String()
	assert.Equal(t, 5, strings.Count(out, "\n"))
	assert.Contains(t, out, "component=db")
}

func TestLevel(t *testing.T) {
	l, err := New(Config{Level: "warn", Folder: t.TempDir()})
	require.NoError(t, err)
	defer l.Close()
	assert.Equal(t, zerolog.WarnLevel, l.Level())
}
