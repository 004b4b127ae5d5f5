package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
}

// sendLog pushes the entry to Loki in the background.
func sendLog(level, message string, attrs []slog.Attr) {
	mu.RLock()
	uri, stream := remoteURI, job
	mu.RUnlock()
	if uri == "" {
		return
	}

	go func() {
		logEntry := buildLogEntry(stream, level, message, attrs)

		jsonData, err := json.Marshal(logEntry)
		if err != nil {
			// stderr only, never recurse into the logger
			fmt.Fprintf(os.Stderr, "Failed to marshal for remote log entry: %v\n", err)
			return
		}

		req, err := http.NewRequest(http.MethodPost, uri, bytes.NewBuffer(jsonData))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create request for remote log: %v\n", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := httpClient.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to send to remote log: %v\n", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			fmt.Fprintf(os.Stderr, "Remote log returned error status: %d\n", resp.StatusCode)
		}
	}()
}
