// utils/files.go - Upload path helpers
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadRoot returns the base directory for stored files
func UploadRoot() string {
	root := os.Getenv("UPLOAD_PATH")
	if root == "" {
		root = "./uploads"
	}
	return root
}

// GenerateUniqueFilename keeps the original extension but replaces the
// name with a uuid so faculty uploads can never collide or overwrite
func GenerateUniqueFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.New().String() + ext
}

// CreateFolderDirIfNotExists makes the per-folder upload directory
// (uploads/folders/<folderID>) and returns its path
func CreateFolderDirIfNotExists(folderID int) (string, error) {
	dir := filepath.Join(UploadRoot(), "folders", fmt.Sprintf("%d", folderID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
