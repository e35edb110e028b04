package writer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ExecutionIdToFileName convert an execution id and chunk number to a filename
// assuming a convention of <executionId>-<chunkNumber>.<extension>
func ExecutionIdToFileName(executionId string, chunkNumber int, extension string) string {
	return fmt.Sprintf("%s-%d.%s", executionId, chunkNumber, extension)
}

// FileNameToExecutionId convert a filename to an execution id
// assuming a convention of <executionId>-<chunkNumber>.<extension>
func FileNameToExecutionId(filename string) (string, error) {
	// remove path and extension
	filename = filepath.Base(filename)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	// remove chunk number
	lastDash := strings.LastIndex(filename, "-")
	if lastDash == -1 {
		return "", fmt.Errorf("invalid filename %s", filename)
	}
	return filename[:lastDash], nil
}
