package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// LogConfig holds configuration for the logging middleware
type LogConfig struct {
	Console bool
	File    bool
	// LogFilePath is where JSON lines are appended when File is set.
	LogFilePath string
	// Format is "json" or "text".
	Format string
	// OnlyFailures logs only responses with status >= 400 or a handler error.
	OnlyFailures bool
	// SkipPrefixes are path prefixes never logged.
	SkipPrefixes []string
}

// LogData is one request as it is written out.
type LogData struct {
	Timestamp     time.Time     `json:"timestamp"`
	Method        string        `json:"method"`
	Path          string        `json:"path"`
	URL           string        `json:"url"`
	Status        int           `json:"status"`
	Latency       time.Duration `json:"latency"`
	IP            string        `json:"ip"`
	UserAgent     string        `json:"user_agent"`
	RequestID     string        `json:"request_id"`
	Session       string        `json:"session,omitempty"`
	User          string        `json:"user,omitempty"`
	Error         string        `json:"error,omitempty"`
	ContentLength int           `json:"content_length"`
}

func DefaultLogConfig(dir string) LogConfig {
	return LogConfig{
		Console:      true,
		File:         true,
		LogFilePath:  filepath.Join(dir, "requests.log"),
		Format:       "json",
		SkipPrefixes: []string{"/health", "/static"},
	}
}

var fileMu sync.Mutex

// LoggingMiddleware writes one line per request. It tags every request with
// an X-Request-ID, reusing the caller's when present.
func LoggingMiddleware(cfg LogConfig) fiber.Handler {
	if cfg.File {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0755); err != nil {
			log.Printf("Error creating logs directory: %v\n", err)
		}
	}

	return func(c *fiber.Ctx) error {
		for _, prefix := range cfg.SkipPrefixes {
			if strings.HasPrefix(c.Path(), prefix) {
				return c.Next()
			}
		}

		start := time.Now()
		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, requestID)

		err := c.Next()
		if err != nil {
			// Let the app's error handler set the status before we read it.
			if handlerErr := c.App().Config().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		if cfg.OnlyFailures && err == nil && status < 400 {
			return nil
		}

		data := LogData{
			Timestamp:     start,
			Method:        c.Method(),
			Path:          c.Path(),
			URL:           c.OriginalURL(),
			Status:        status,
			Latency:       time.Since(start),
			IP:            c.IP(),
			UserAgent:     c.Get(fiber.HeaderUserAgent),
			RequestID:     requestID,
			ContentLength: len(c.Response().Body()),
		}
		if s := CurrentSession(c); s != nil {
			data.Session = s.ID
		}
		if user, ok := CurrentUser(c); ok {
			data.User = user.Email
		}
		if err != nil {
			data.Error = err.Error()
		}

		writeLog(cfg, data)
		return nil
	}
}

func writeLog(cfg LogConfig, data LogData) {
	var line string
	if cfg.Format == "text" {
		line = fmt.Sprintf("[%s] %s %s %d %s %s %s",
			data.Timestamp.Format("2006-01-02 15:04:05"),
			data.Method, data.Path, data.Status, data.Latency, data.IP, data.User)
	} else {
		encoded, _ := json.Marshal(data)
		line = string(encoded)
	}

	if cfg.Console {
		log.Println(line)
	}
	if cfg.File {
		appendLine(cfg.LogFilePath, line)
	}
}

func appendLine(path, line string) {
	fileMu.Lock()
	defer fileMu.Unlock()

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}
	defer file.Close()

	if _, err := file.WriteString(line + "\n"); err != nil {
		log.Printf("Error writing to log file: %v\n", err)
	}
}

// RequestLogger logs every request to <dir>/requests.log.
func RequestLogger(dir string) fiber.Handler {
	return LoggingMiddleware(DefaultLogConfig(dir))
}

// ErrorLogger logs failed requests to <dir>/errors.log only.
func ErrorLogger(dir string) fiber.Handler {
	cfg := DefaultLogConfig(dir)
	cfg.Console = false
	cfg.LogFilePath = filepath.Join(dir, "errors.log")
	cfg.OnlyFailures = true
	return LoggingMiddleware(cfg)
}
