package logger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

type poster interface {
	Post(tag string, message interface{}) error
	Close() error
}

// FluentWriter forwards each log line to Fluent Bit as a record.
type FluentWriter struct {
	client  poster
	tag     string
	service string
}

// NewFluentWriter connects to a Fluent Bit forward input.
func NewFluentWriter(host string, port int, tagPrefix, service string) (*FluentWriter, error) {
	client, err := fluent.New(fluent.Config{
		FluentHost: host,
		FluentPort: port,
		TagPrefix:  tagPrefix,
		Async:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluent client: %w", err)
	}
	return &FluentWriter{client: client, tag: "log", service: service}, nil
}

// Write implements io.Writer. Delivery failures are dropped so logging never blocks a request.
func (w *FluentWriter) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	record := map[string]interface{}{
		"message":   line,
		"level":     levelOf(line),
		"service":   w.service,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	}
	_ = w.client.Post(w.tag, record)
	return len(p), nil
}

// Close flushes and closes the fluent connection.
func (w *FluentWriter) Close() error {
	return w.client.Close()
}

func levelOf(line string) string {
	switch {
	case strings.Contains(line, "ERROR: "):
		return "error"
	case strings.Contains(line, "DEBUG: "):
		return "debug"
	default:
		return "info"
	}
}

// Tee combines the console writer with any additional sinks.
func Tee(primary io.Writer, sinks ...io.Writer) io.Writer {
	writers := []io.Writer{primary}
	for _, s := range sinks {
		if s != nil {
			writers = append(writers, s)
		}
	}
	if len(writers) == 1 {
		return primary
	}
	return io.MultiWriter(writers...)
}
