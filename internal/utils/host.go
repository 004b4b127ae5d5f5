package utils

import (
	"os"
	"sync"
)

var (
	hostInstance string
	hostOnce     sync.Once
)

// GetHost returns POD_NAME when running in a cluster, else the OS hostname.
func GetHost() string {
	hostOnce.Do(func() {
		if pod := os.Getenv("POD_NAME"); pod != "" {
			hostInstance = pod
			return
		}
		h, err := os.Hostname()
		if err != nil {
			hostInstance = "unknown"
		} else {
			hostInstance = h
		}
	})

	return hostInstance
}
