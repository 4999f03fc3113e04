package utils

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// MakeDirectory creates a directory at the provided path, including any missing parents.
func MakeDirectory(path string) error {
	return errors.Wrapf(os.MkdirAll(path, 0o755), "could not create directory %s", path)
}

// CreateFile creates a file with the provided name inside the provided directory, creating the directory first if it
// does not exist. An empty path creates the file in the working directory.
func CreateFile(path string, fileName string) (*os.File, error) {
	// By default, the path will be the name of the file
	filePath := fileName

	// Check to see if the file needs to be created in another directory or the working directory
	if path != "" {
		// Make the directory, if it does not exist already
		if err := MakeDirectory(path); err != nil {
			return nil, err
		}
		filePath = filepath.Join(path, fileName)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create file %s", filePath)
	}
	return file, nil
}
