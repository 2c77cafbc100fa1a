// Package scoutlog provides the rotating file logger used across the
// agent core. Nothing in here writes to stdout — rendering is the UI
// port's job, not the logger's.
package scoutlog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps a rotating file writer with a small structured surface.
type Logger struct {
	std      *log.Logger
	jsonMode bool
}

var (
	instance *Logger
	once     sync.Once
)

// Get returns the process-wide logger, creating it (and its log file)
// under <workDir>/.scout/scout.log on first use.
func Get(workDir string) *Logger {
	once.Do(func() {
		dir := filepath.Join(workDir, ".scout")
		_ = os.MkdirAll(dir, 0o755)
		file := &lumberjack.Logger{
			Filename:   filepath.Join(dir, "scout.log"),
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		instance = &Logger{
			std:      log.New(file, "", log.LstdFlags),
			jsonMode: os.Getenv("SCOUT_JSON_LOGS") == "1",
		}
	})
	return instance
}

// Logf writes a formatted informational line to the log file.
func (l *Logger) Logf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	if l.jsonMode {
		l.writeJSON("info", nil, format, args...)
		return
	}
	l.std.Printf(format, args...)
}

// LogError records an error with its message.
func (l *Logger) LogError(err error) {
	if l == nil || err == nil {
		return
	}
	if l.jsonMode {
		l.writeJSON("error", err, "")
		return
	}
	l.std.Printf("error: %s", err)
}

// LogProcessStep logs a single step of the agent loop's progress.
func (l *Logger) LogProcessStep(step string) {
	l.Logf("step: %s", step)
}

func (l *Logger) writeJSON(level string, err error, format string, args ...interface{}) {
	entry := map[string]interface{}{"level": level}
	if format != "" {
		entry["msg"] = sprintfSafe(format, args...)
	}
	if err != nil {
		entry["error"] = err.Error()
	}
	data, mErr := json.Marshal(entry)
	if mErr != nil {
		return
	}
	l.std.Print(string(data))
}

func sprintfSafe(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
