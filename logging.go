package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var logger = newSimpleLogger(os.Stderr)

const (
	logLevelDebug logLevel = iota
	logLevelInfo
	logLevelWarn
	logLevelError
)

var levelNames = []string{
	"DEBUG",
	"INFO",
	"WARN",
	"ERROR",
}

type logLevel int32

type logEvent struct {
	level logLevel
	msg   string
	attrs []any
	// flushed, when set, marks a Flush barrier instead of an entry.
	flushed chan struct{}
}

// simpleLogger writes leveled key/value lines from a single background
// goroutine so callers never block on the writer.
type simpleLogger struct {
	level    atomic.Int32
	queue    chan logEvent
	done     chan struct{}
	writerMu sync.RWMutex
	writer   io.Writer
	wg       sync.WaitGroup
	stopOnce sync.Once
	closing  atomic.Bool
}

func newSimpleLogger(w io.Writer) *simpleLogger {
	if w == nil {
		w = io.Discard
	}
	l := &simpleLogger{
		queue:  make(chan logEvent, 256),
		done:   make(chan struct{}),
		writer: w,
	}
	l.level.Store(int32(logLevelWarn))
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *simpleLogger) run() {
	defer l.wg.Done()
	for {
		select {
		case evt := <-l.queue:
			l.writeEntry(evt)
		case <-l.done:
			for {
				select {
				case evt := <-l.queue:
					l.writeEntry(evt)
				default:
					return
				}
			}
		}
	}
}

func (l *simpleLogger) log(level logLevel, msg string, attrs ...any) {
	if int32(level) < l.level.Load() {
		return
	}
	if l.closing.Load() {
		return
	}
	select {
	case l.queue <- logEvent{level: level, msg: msg, attrs: append([]any(nil), attrs...)}:
	case <-l.done:
	}
}

func (l *simpleLogger) Info(msg string, attrs ...any) {
	l.log(logLevelInfo, msg, attrs...)
}

func (l *simpleLogger) Warn(msg string, attrs ...any) {
	l.log(logLevelWarn, msg, attrs...)
}

func (l *simpleLogger) Error(msg string, attrs ...any) {
	l.log(logLevelError, msg, attrs...)
}

func (l *simpleLogger) Debug(msg string, attrs ...any) {
	l.log(logLevelDebug, msg, attrs...)
}

func (l *simpleLogger) setLevel(level logLevel) {
	l.level.Store(int32(level))
}

// Stop drains queued entries and stops the writer goroutine. Entries logged
// after Stop are dropped.
func (l *simpleLogger) Stop() {
	l.stopOnce.Do(func() {
		l.closing.Store(true)
		close(l.done)
		l.wg.Wait()
	})
}

func (l *simpleLogger) setWriter(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	l.writerMu.Lock()
	l.writer = w
	l.writerMu.Unlock()
}

// Flush blocks until every entry queued before the call has been written.
func (l *simpleLogger) Flush() {
	if l.closing.Load() {
		return
	}
	ch := make(chan struct{})
	select {
	case l.queue <- logEvent{flushed: ch}:
	case <-l.done:
		return
	}
	select {
	case <-ch:
	case <-l.done:
	}
}

func (l *simpleLogger) writeEntry(evt logEvent) {
	if evt.flushed != nil {
		close(evt.flushed)
		return
	}
	attrs := formatAttrs(evt.attrs)
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	levelName := "UNKNOWN"
	if int(evt.level) >= 0 && int(evt.level) < len(levelNames) {
		levelName = levelNames[evt.level]
	}
	var entry strings.Builder
	entry.WriteString(timestamp)
	entry.WriteString(" [")
	entry.WriteString(levelName)
	entry.WriteString("] ")
	entry.WriteString(evt.msg)
	if attrs != "" {
		entry.WriteString(" ")
		entry.WriteString(attrs)
	}
	entry.WriteByte('\n')

	l.writerMu.RLock()
	w := l.writer
	l.writerMu.RUnlock()
	_, _ = io.WriteString(w, entry.String())
}

func formatAttrs(attrs []any) string {
	if len(attrs) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(attrs); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		key := fmt.Sprint(attrs[i])
		if i+1 < len(attrs) {
			value := fmt.Sprint(attrs[i+1])
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(value)
			i++
		} else {
			b.WriteString(key)
		}
	}
	return b.String()
}

func parseLogLevel(s string) (logLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return logLevelDebug, nil
	case "info":
		return logLevelInfo, nil
	case "warn", "warning", "":
		return logLevelWarn, nil
	case "error":
		return logLevelError, nil
	default:
		return logLevelWarn, fmt.Errorf("unknown log level %q: %w", s, errInvalidArgument)
	}
}

func setLogLevel(level logLevel) {
	logger.setLevel(level)
}

// syncWriter serializes writes from the logger goroutine and the caller.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
