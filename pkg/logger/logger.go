package logger

import (
	"encoding/json"
	"os"
	"runtime"
	"time"
)

type LogEntry struct {
	Timestamp string      `json:"timestamp"`
	Level     string      `json:"level"`
	Service   string      `json:"service"`
	Action    string      `json:"action"`
	Message   string      `json:"message"`
	Hostname  string      `json:"hostname"`
	RequestID string      `json:"request_id,omitempty"`
	Error     *ErrorEntry `json:"error,omitempty"`
}

type ErrorEntry struct {
	Msg   string `json:"msg"`
	Stack string `json:"stack"`
}

// Logger writes one JSON object per line to stdout.
type Logger struct {
	service  string
	hostname string
	enc      *json.Encoder
}

func NewLogger(service string) *Logger {
	hostname, _ := os.Hostname()
	return &Logger{
		service:  service,
		hostname: hostname,
		enc:      json.NewEncoder(os.Stdout),
	}
}

func (l *Logger) Info(requestID, action, message string) {
	l.log("INFO", requestID, action, message, nil)
}

func (l *Logger) Debug(requestID, action, message string) {
	l.log("DEBUG", requestID, action, message, nil)
}

func (l *Logger) Warn(requestID, action, message string) {
	l.log("WARN", requestID, action, message, nil)
}

func (l *Logger) Error(requestID, action, message string, err error) {
	var errorEntry *ErrorEntry
	if err != nil {
		buf := make([]byte, 1024)
		n := runtime.Stack(buf, false)
		errorEntry = &ErrorEntry{
			Msg:   err.Error(),
			Stack: string(buf[:n]),
		}
	}
	l.log("ERROR", requestID, action, message, errorEntry)
}

func (l *Logger) log(level, requestID, action, message string, errorEntry *ErrorEntry) {
	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Service:   l.service,
		Action:    action,
		Message:   message,
		Hostname:  l.hostname,
		RequestID: requestID,
		Error:     errorEntry,
	}
	_ = l.enc.Encode(entry)
}
