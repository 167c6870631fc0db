package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kitout-sh/kitout/internal/paths"
)

// runStamp is the filename timestamp layout. Second granularity: two runs by
// the same operator collide only if started within the same second.
const runStamp = "20060102-150405"

// RunLog is a Logger that additionally tees every entry into a timestamped
// transcript file, so a run can be audited after the fact.
type RunLog struct {
	*Logger
	Path string

	file *os.File
}

// RunOptions configures a run transcript logger.
type RunOptions struct {
	Level   string
	Dir     string // transcript directory; empty means paths.LogDir()
	Console io.Writer
	Start   time.Time
}

// NewRun creates a logger whose output goes both to the console and to a
// transcript file named from the run's start time. The transcript uses the
// console format without colour codes so it stays readable in an editor.
func NewRun(opts RunOptions) (*RunLog, error) {
	dir := opts.Dir
	if dir == "" {
		dir = paths.LogDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	start := opts.Start
	if start.IsZero() {
		start = time.Now()
	}
	path := filepath.Join(dir, fmt.Sprintf("kitout-%s.log", start.Format(runStamp)))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}

	consoleOut := opts.Console
	if consoleOut == nil {
		consoleOut = os.Stdout
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			file.Close()
			return nil, err
		}
		level = parsed
	}

	console := zerolog.NewConsoleWriter()
	console.Out = consoleOut
	console.TimeFormat = time.RFC3339

	transcript := zerolog.NewConsoleWriter()
	transcript.Out = file
	transcript.NoColor = true
	transcript.TimeFormat = time.RFC3339

	base := zerolog.New(zerolog.MultiLevelWriter(console, transcript)).Level(level).With().Timestamp().Logger()

	return &RunLog{
		Logger: &Logger{base: base},
		Path:   path,
		file:   file,
	}, nil
}

// Close flushes and closes the transcript file.
func (r *RunLog) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}
