package utils

import (
	"os"
	"path/filepath"

	"github.com/Ix1ax/upme-platform/config"

	"github.com/google/uuid"
)

// SaveCourseBlob writes a course payload (structure, bulk lessons) to blob
// storage and returns the public URL it will be served under.
func SaveCourseBlob(courseID uuid.UUID, name string, data []byte) (string, error) {
	dir := filepath.Join(config.AppConfig.BlobDir, courseID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", err
	}

	return config.AppConfig.BlobBaseURL + "/" + courseID.String() + "/" + name, nil
}
