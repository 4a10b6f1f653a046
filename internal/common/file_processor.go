package common

import (
	"fmt"
	"os"
	"path/filepath"

	"resumelens/internal/errors"
)

// FileProcessor reads resume input files and writes rendered output,
// wrapping OS failures in the application error taxonomy.
type FileProcessor struct {
	logger *errors.Logger
}

// NewFileProcessor creates a file processor. A nil logger downgrades
// warnings to stderr.
func NewFileProcessor(logger *errors.Logger) *FileProcessor {
	return &FileProcessor{logger: logger}
}

// ReadFile returns the file's content, distinguishing missing files from
// unreadable ones.
func (fp *FileProcessor) ReadFile(filename string) (string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	return string(content), nil
}

// WriteFile writes content to filename, creating parent directories as
// needed.
func (fp *FileProcessor) WriteFile(filename, content string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}
	return nil
}

// ValidateAndReadFiles validates each input path and returns the file
// contents in argument order. Non-text extensions produce a warning, not
// an error, since resumes are often exported with odd suffixes.
func (fp *FileProcessor) ValidateAndReadFiles(filenames ...string) ([]string, error) {
	contents := make([]string, len(filenames))

	for i, filename := range filenames {
		if err := ValidateInputFile(filename); err != nil {
			return nil, errors.NewValidationError("INVALID_INPUT_FILE",
				fmt.Sprintf("Invalid file %s", filename), err)
		}

		if !IsTextFile(filename) {
			fp.warn("File may not be a text file", filename)
		}

		content, err := fp.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		contents[i] = content
	}

	return contents, nil
}

// ValidateOutputFile checks that the output destination is writable.
// An empty filename means stdout and is always valid.
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil
	}

	if err := ValidateOutputPath(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}
	return nil
}

func (fp *FileProcessor) warn(msg, filename string) {
	if fp.logger != nil {
		fp.logger.Warn(msg, "filename", filename)
		return
	}
	fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", msg, filename)
}
