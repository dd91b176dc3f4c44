package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// dataDirName is the directory under the home directory that holds every
// PrintQuote file.
const dataDirName = ".printquote"

// DefaultConfigDir returns ~/.printquote, or ./.printquote when the home
// directory is unknown.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, dataDirName)
}

// dataFile returns the path of name inside ~/.printquote.
func dataFile(name string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, dataDirName, name), nil
}

// writeJSON marshals v with indentation and writes it to path, creating
// any missing parent directories.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// readJSON decodes the file at path into v. A missing file is not an
// error; found is false and v is untouched.
func readJSON(path string, v any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

// mustReadJSON is readJSON for files the user picked, where a missing
// file is an error.
func mustReadJSON(path string, v any) error {
	found, err := readJSON(path, v)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), os.ErrNotExist)
	}
	return nil
}
