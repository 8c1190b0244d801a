// Package uploads stores entity pictures (cover art, console and peripheral
// photos) on local disk.
package uploads

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrInvalidPicture  = errors.New("invalid picture data")
	ErrFileExists      = errors.New("file already exists")
	ErrFileNotExists   = errors.New("file does not exist")
	ErrInvalidFileName = errors.New("invalid file name")
)

type IUploads interface {
	SavePicture(picture []byte, filename string) error
	DeletePicture(filename string) error
	ReplacePicture(picture []byte, oldFilename, newFilename string) error
	Path() string
}

type Uploads struct {
	folderPath string
	mu         sync.RWMutex
}

func NewUploads(folderPath string) (*Uploads, error) {
	if folderPath == "" {
		return nil, errors.New("folder path is empty")
	}

	folderPath = filepath.Clean(folderPath) + string(filepath.Separator)

	u := &Uploads{folderPath: folderPath}

	if err := u.ensureFolderExists(); err != nil {
		return nil, err
	}

	return u, nil
}

func (u *Uploads) Path() string {
	return u.folderPath
}

func (u *Uploads) ensureFolderExists() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, err := os.Stat(u.folderPath); os.IsNotExist(err) {
		if err := os.MkdirAll(u.folderPath, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func validFilename(filename string) bool {
	if filename == "" {
		return false
	}
	// a stored name is always a bare file name, never a path
	return filename == filepath.Base(filename) && !strings.Contains(filename, "..")
}

func (u *Uploads) SavePicture(picture []byte, filename string) error {
	if len(picture) == 0 {
		return ErrInvalidPicture
	}

	if !validFilename(filename) {
		return ErrInvalidFileName
	}

	fullPath := filepath.Join(u.folderPath, filename)

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, err := os.Stat(fullPath); err == nil {
		return ErrFileExists
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := file.Write(picture); err != nil {
		_ = os.Remove(fullPath)
		return err
	}

	return nil
}

func (u *Uploads) DeletePicture(filename string) error {
	if !validFilename(filename) {
		return ErrInvalidFileName
	}

	fullPath := filepath.Join(u.folderPath, filename)

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return ErrFileNotExists
	}

	return os.Remove(fullPath)
}

func (u *Uploads) ReplacePicture(picture []byte, oldFilename, newFilename string) error {
	if len(picture) == 0 {
		return ErrInvalidPicture
	}

	if !validFilename(oldFilename) || !validFilename(newFilename) {
		return ErrInvalidFileName
	}

	oldPath := filepath.Join(u.folderPath, oldFilename)
	newPath := filepath.Join(u.folderPath, newFilename)

	if _, err := os.Stat(oldPath); oldFilename != newFilename && os.IsNotExist(err) {
		return ErrFileNotExists
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	tempPath := newPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := file.Write(picture); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write picture data: %w", err)
	}
	file.Close()

	if err := os.Rename(tempPath, newPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	if oldFilename != newFilename {
		if err := os.Remove(oldPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove old file: %w", err)
		}
	}

	return nil
}
