package logger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// buildLogEntry creates a Loki push payload with a single stream and value.
func buildLogEntry(stream, level, message string, attrs []slog.Attr) map[string]any {
	return map[string]any{
		"streams": []map[string]any{
			{
				"stream": map[string]string{
					"level": level,
					"job":   stream,
				},
				"values": [][]string{
					{
						fmt.Sprintf("%d", time.Now().UnixNano()),
						buildLogLine(level, message, attrs),
					},
				},
			},
		},
	}
}

func buildLogLine(level, message string, attrs []slog.Attr) string {
	logData := map[string]any{
		"level":   level,
		"message": message,
		"time":    time.Now().Format(time.RFC3339),
	}
	for _, attr := range attrs {
		logData[attr.Key] = attr.Value.Any()
	}

	jsonBytes, _ := json.Marshal(logData)
	return string(jsonBytes)
}
