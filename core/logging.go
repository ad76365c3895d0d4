// Package core wires configuration, the map/print domain model and the
// remote service clients together behind the UI.
package core

import (
	"log"
	"os"
)

// maxLogFileSize is the rotation threshold (10 MB). One .old generation is
// kept.
const maxLogFileSize = 10 * 1024 * 1024

// checkAndRotateLogFile renames logPath to logPath.old once it outgrows
// maxLogFileSize, dropping the previous backup.
func checkAndRotateLogFile(logPath string) {
	info, err := os.Stat(logPath)
	if err != nil {
		return // nothing to rotate yet
	}
	if info.Size() <= maxLogFileSize {
		return
	}

	oldPath := logPath + ".old"
	_ = os.Remove(oldPath)
	if err := os.Rename(logPath, oldPath); err != nil {
		log.Printf("checkAndRotateLogFile: Failed to rotate log file %s: %v", logPath, err)
	} else {
		log.Printf("checkAndRotateLogFile: Rotated log file %s (size: %d bytes)", logPath, info.Size())
	}
}

// openLogFileWithRotation opens logPath for appending, rotating it first if
// it is oversized. Append mode preserves recent lines across restarts.
func openLogFileWithRotation(logPath string) (*os.File, error) {
	checkAndRotateLogFile(logPath)
	return os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
