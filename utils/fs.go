package utils

import (
	"fmt"
	"os"
)

// FileOperations provides file system utilities
type FileOperations struct{}

// NewFileOperations creates a new FileOperations instance
func NewFileOperations() *FileOperations {
	return &FileOperations{}
}

// EnsureDir creates the directory and any missing parents
func (f *FileOperations) EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// FileExists checks if a file exists
func (f *FileOperations) FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetFileSize returns the size of a file
func (f *FileOperations) GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// CheckWritable verifies the directory accepts new files
func (f *FileOperations) CheckWritable(dir string) error {
	testFile := dir + string(os.PathSeparator) + ".cpxfetch_write_test"
	file, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("cannot write to directory %s: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)
	return nil
}
