package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Level names a log severity and doubles as the line prefix
type Level string

const (
	INFO  Level = "INFO"
	WARN  Level = "WARN"
	ERROR Level = "ERROR"
	DEBUG Level = "DEBUG"
)

var (
	instance *Logger
	once     sync.Once
)

// Logger writes levelled lines. INFO, WARN and ERROR always reach the
// console; DEBUG only does in debug mode.
type Logger struct {
	sinks map[Level]*log.Logger
}

// logFilePath resolves where the log file lives, creating ~/.geomys when
// no explicit path is configured.
func logFilePath(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	dir := filepath.Join(homeDir, ".geomys")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}
	return filepath.Join(dir, "geomys.log"), nil
}

func buildLogger(out, debugOut io.Writer) *Logger {
	sinks := make(map[Level]*log.Logger, 4)
	for _, level := range []Level{INFO, WARN, ERROR} {
		sinks[level] = log.New(out, "["+string(level)+"] ", log.Ldate|log.Ltime)
	}
	sinks[DEBUG] = log.New(debugOut, "[DEBUG] ", log.Ldate|log.Ltime)
	return &Logger{sinks: sinks}
}

// NewLogger sets up the process logger on first use and returns it. Lines go
// to the log file and the console; when the file cannot be opened the logger
// falls back to the console alone.
func NewLogger(path string, debugMode bool) *Logger {
	once.Do(func() {
		var file io.Writer = io.Discard
		resolved, err := logFilePath(path)
		if err == nil {
			var f *os.File
			if f, err = os.OpenFile(resolved, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
				file = f
			}
		}

		both := io.MultiWriter(file, os.Stdout)
		debugOut := file
		if debugMode {
			debugOut = both
		}
		instance = buildLogger(both, debugOut)

		if err != nil {
			instance.Warn("Logging to console only: " + err.Error())
		}
	})
	return instance
}

// GetLogger returns the process logger, or a console logger that drops
// debug lines when NewLogger was never called.
func GetLogger() *Logger {
	once.Do(func() {
		instance = buildLogger(os.Stdout, io.Discard)
	})
	return instance
}

func (l *Logger) write(level Level, message string) {
	l.sinks[level].Println(message)
}

func (l *Logger) Info(message string)  { l.write(INFO, message) }
func (l *Logger) Warn(message string)  { l.write(WARN, message) }
func (l *Logger) Error(message string) { l.write(ERROR, message) }
func (l *Logger) Debug(message string) { l.write(DEBUG, message) }
