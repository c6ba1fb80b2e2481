package cmd

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/iburimskiy/constellation/internal/config"
)

const logFileName = "constellation.log"

// setupLogging sends the standard logger to a file when debug is set and
// discards it otherwise; the window and terminal hosts own the screen.
func setupLogging(debug bool, path string) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}
	if path == "" {
		path = filepath.Join(config.StateDir(), logFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f
}

// closeLog closes the debug log, if one is open, and discards further output.
func closeLog() {
	if logFile == nil {
		return
	}
	log.SetOutput(io.Discard)
	logFile.Close()
	logFile = nil
}
