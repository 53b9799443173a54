package keyring

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	tokenFileName = "rpc.token"
	tokenFileMode = 0600
)

// FileTokenStore keeps the token in a 0600 file. Writes go through a
// temporary file and a rename so a crash never leaves a partial token.
type FileTokenStore struct {
	fs  afero.Fs
	dir string
}

func NewFileTokenStore(fsys afero.Fs, dir string) *FileTokenStore {
	return &FileTokenStore{fs: fsys, dir: dir}
}

func (f *FileTokenStore) path() string {
	return filepath.Join(f.dir, tokenFileName)
}

func (f *FileTokenStore) SetToken() (string, error) {
	if err := f.fs.MkdirAll(f.dir, 0755); err != nil {
		return "", fmt.Errorf("create token dir: %w", err)
	}
	token, err := newToken()
	if err != nil {
		return "", err
	}

	tmp, err := afero.TempFile(f.fs, f.dir, ".rpc.token.tmp.*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		_ = f.fs.Remove(tmpPath)
		return "", fmt.Errorf("write token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = f.fs.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := f.fs.Chmod(tmpPath, tokenFileMode); err != nil {
		_ = f.fs.Remove(tmpPath)
		return "", fmt.Errorf("set permissions: %w", err)
	}
	if err := f.fs.Rename(tmpPath, f.path()); err != nil {
		_ = f.fs.Remove(tmpPath)
		return "", fmt.Errorf("rename token file: %w", err)
	}
	return token, nil
}

func (f *FileTokenStore) GetToken() (string, error) {
	data, err := afero.ReadFile(f.fs, f.path())
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

func (f *FileTokenStore) DeleteToken() error {
	err := f.fs.Remove(f.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
