// Package dlog is the editor's diagnostic logger. It never writes to
// stdout: stdout is the viewport, and interleaving log lines with ANSI
// cursor movement would corrupt the display. Instead it buffers log
// entries on a channel and writes them asynchronously to a dated file
// under the configured log directory, the same non-blocking shape the
// teacher's logger uses for its stdout/file writers.
package dlog

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/lineshare/lineshare/internal/constants"
)

// Level is the logger's verbosity threshold.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// ParseLevel maps a --logLevel flag value onto a Level, defaulting to
// LevelInfo for anything unrecognized.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "error":
		return LevelError
	case "warn", "warning":
		return LevelWarn
	case "debug":
		return LevelDebug
	case "trace":
		return LevelTrace
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return "INFO"
	}
}

// entry is one buffered log line awaiting the file writer.
type entry struct {
	time    time.Time
	message string
}

var (
	mutex       sync.Mutex
	level       Level
	logDir      string
	fd          *os.File
	writer      *bufio.Writer
	lastDateStr string
	bufCh       chan entry
	started     bool
)

// Start launches the async file writer. Safe to call once at process
// startup; logging is a no-op before Start is called.
func Start(ctx context.Context, dir string, lvl Level) {
	mutex.Lock()
	logDir = expandHome(dir)
	level = lvl
	bufCh = make(chan entry, constants.LoggerBufferChannelMultiplier*runtime.NumCPU())
	started = true
	mutex.Unlock()

	go writeLoop(ctx)
}

func expandHome(dir string) string {
	if strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, dir[2:])
		}
	}
	return dir
}

func writeLoop(ctx context.Context) {
	for {
		select {
		case e := <-bufCh:
			fileWriter(e.time.Format("20060102")).WriteString(e.message)
		case <-time.After(100 * time.Millisecond):
			if writer != nil {
				writer.Flush()
			}
		case <-ctx.Done():
			Flush()
			return
		}
	}
}

func fileWriter(dateStr string) *bufio.Writer {
	if dateStr == lastDateStr && writer != nil {
		return writer
	}

	mutex.Lock()
	defer mutex.Unlock()

	if writer != nil {
		writer.Flush()
		fd.Close()
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		// Nothing sensible to do with a broken log dir besides discarding
		// entries; the editor itself must keep running regardless.
		writer = bufio.NewWriter(discardWriter{})
		return writer
	}

	path := filepath.Join(logDir, dateStr+".log")
	newFd, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		writer = bufio.NewWriter(discardWriter{})
		return writer
	}
	fd = newFd
	writer = bufio.NewWriter(fd)
	lastDateStr = dateStr
	return writer
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Flush drains any buffered entries synchronously. Call before process
// exit so the last entries aren't lost.
func Flush() {
	for {
		select {
		case e := <-bufCh:
			fileWriter(e.time.Format("20060102")).WriteString(e.message)
		default:
			if writer != nil {
				writer.Flush()
			}
			return
		}
	}
}

// Logger is a named log source, e.g. Editor or Live.
type Logger struct {
	name string
}

// Editor logs structural buffer/dispatcher events.
var Editor = &Logger{name: "EDITOR"}

// Live logs Live Share connect/disconnect/protocol events.
var Live = &Logger{name: "LIVE"}

func (l *Logger) write(lvl Level, args []interface{}) {
	if !started || lvl > level {
		return
	}
	parts := make([]string, 0, len(args)+1)
	for _, a := range args {
		switch v := a.(type) {
		case string:
			parts = append(parts, v)
		case error:
			parts = append(parts, v.Error())
		default:
			parts = append(parts, fmt.Sprintf("%v", v))
		}
	}
	now := time.Now()
	line := fmt.Sprintf("%s|%s|%s|%s\n", now.Format("20060102-150405"), lvl, l.name, strings.Join(parts, "|"))
	select {
	case bufCh <- entry{time: now, message: line}:
	default:
		// Buffer full: drop rather than block the foreground thread.
	}
}

func (l *Logger) Error(args ...interface{}) { l.write(LevelError, args) }
func (l *Logger) Warn(args ...interface{})  { l.write(LevelWarn, args) }
func (l *Logger) Info(args ...interface{})  { l.write(LevelInfo, args) }
func (l *Logger) Debug(args ...interface{}) { l.write(LevelDebug, args) }
func (l *Logger) Trace(args ...interface{}) { l.write(LevelTrace, args) }

// FatalPanic queues an error entry, flushes the buffered entries to the
// log file synchronously, and then panics. The entry is dropped like any
// other if the buffer is already full.
func (l *Logger) FatalPanic(args ...interface{}) {
	l.write(LevelError, args)
	Flush()
	panic(fmt.Sprint(args...))
}
