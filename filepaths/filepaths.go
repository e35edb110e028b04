package filepaths

import (
	"fmt"
	"os"
)

// EnsureOutputPath ensures the output path exists - this is the folder writers create their files in
func EnsureOutputPath(outputPath string) (string, error) {
	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		err = os.MkdirAll(outputPath, 0755)
		if err != nil {
			return "", fmt.Errorf("could not create output directory %s: %w", outputPath, err)
		}
	} else if err != nil {
		return "", fmt.Errorf("could not access output directory %s: %w", outputPath, err)
	}

	return outputPath, nil
}
