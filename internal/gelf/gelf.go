package gelf

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

// Writer sends GELF messages over UDP and implements io.Writer so it can
// feed log.SetOutput via io.MultiWriter.
type Writer struct {
	conn     net.Conn
	hostname string
}

// New creates a GELF UDP writer connected to addr (e.g. "10.0.0.1:12201").
func New(addr string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "nhcma-intake"
	}

	return &Writer{conn: conn, hostname: hostname}, nil
}

// Write implements io.Writer. Each call sends one GELF message.
// The standard log package writes lines like "2006/01/02 15:04:05 message\n";
// the date prefix and trailing newline are stripped for the short_message.
func (w *Writer) Write(p []byte) (int, error) {
	short := ShortMessage(string(p))

	msg := map[string]any{
		"version":       "1.1",
		"host":          w.hostname,
		"short_message": short,
		"timestamp":     float64(time.Now().UnixNano()) / 1e9,
		"level":         Level(short),
		"_service":      "nhcma-intake",
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return len(p), nil // never fail the log call
	}

	// Fire-and-forget.
	w.conn.Write(payload)
	return len(p), nil
}

// ShortMessage strips the Go log date/time prefix and trailing newline.
// The prefix is exactly 20 characters when present.
func ShortMessage(line string) string {
	msg := strings.TrimRight(line, "\n")
	if len(msg) > 20 && msg[4] == '/' && msg[7] == '/' && msg[10] == ' ' && msg[13] == ':' {
		return msg[20:]
	}
	return msg
}

// Level maps a log line to a syslog severity.
func Level(short string) int {
	switch {
	case strings.Contains(short, "PANIC:") || strings.Contains(short, "Fatal"):
		return 3 // Error
	case strings.HasPrefix(short, "Warning:"):
		return 4 // Warning
	default:
		return 6 // Informational
	}
}
