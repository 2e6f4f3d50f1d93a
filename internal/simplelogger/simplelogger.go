package simplelogger

import (
	"bytes"
	"fmt"
	"os"
	"sync"
)

// EnvVar names the environment variable holding the default log path.
const EnvVar = "SIDEBYSIDE_LOG_FILE"

var (
	mu       sync.Mutex
	override string
)

// SetPath makes Log append to path instead of the file named by SIDEBYSIDE_LOG_FILE. An empty path restores the environment variable.
func SetPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	override = path
}

// Log is a minimal printf-style logger. It appends formatted output to the file set with SetPath, or else to the file specified by the SIDEBYSIDE_LOG_FILE
// environment variable.
//
// If no path is configured or the path can't be opened as a file, Log is a no-op.
func Log(format string, args ...any) {
	// Serialize open/write/close to reduce interleaving within a single process.
	mu.Lock()
	defer mu.Unlock()

	path := override
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	var b bytes.Buffer
	_, _ = fmt.Fprintf(&b, format, args...)
	if b.Len() == 0 || b.Bytes()[b.Len()-1] != '\n' {
		_ = b.WriteByte('\n')
	}
	_, _ = f.Write(b.Bytes())
}

// Defect logs a recoverable defect of the given kind as "defect: <kind>: <detail>".
func Defect(kind string, format string, args ...any) {
	Log("defect: %s: %s", kind, fmt.Sprintf(format, args...))
}
