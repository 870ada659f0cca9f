package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// Exists reports whether path is present. Broken symlinks count as present.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return false, err
}

// MovePath renames source to destination, falling back to copy and remove
// when the two sit on different devices.
func MovePath(source string, destination string) error {
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return err
	}

	if err := os.Rename(source, destination); err == nil {
		return nil
	} else if !isCrossDeviceRenameError(err) {
		return err
	}

	if err := CopyPath(source, destination); err != nil {
		_ = os.RemoveAll(destination)
		return err
	}

	return os.RemoveAll(source)
}

// RemovePath deletes a file, or a directory with everything below it.
func RemovePath(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return os.RemoveAll(path)
	}

	return os.Remove(path)
}

func isCrossDeviceRenameError(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && strings.Contains(strings.ToLower(linkErr.Err.Error()), "cross-device") {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "cross-device")
}

// CopyPath copies a file or a whole directory tree from source to destination.
func CopyPath(source string, destination string) error {
	info, err := os.Lstat(source)
	if err != nil {
		return err
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		return copySymlink(source, destination)
	}

	if !info.IsDir() {
		return CopyFile(source, destination, info)
	}

	return copyTree(source, destination, info)
}

type dirMode struct {
	path string
	perm fs.FileMode
}

// copyTree walks source concurrently. Directories are created writable during
// the walk and get their real permissions once every child has been copied.
func copyTree(source string, destination string, rootInfo fs.FileInfo) error {
	if err := os.MkdirAll(destination, 0o700|rootInfo.Mode().Perm()); err != nil {
		return err
	}

	var (
		mu   sync.Mutex
		dirs = []dirMode{{path: destination, perm: rootInfo.Mode().Perm()}}
	)

	conf := fastwalk.Config{Follow: false}
	walkErr := fastwalk.Walk(&conf, source, func(current string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, relErr := filepath.Rel(source, current)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}

		target := filepath.Join(destination, rel)
		entryInfo, infoErr := entry.Info()
		if infoErr != nil {
			return infoErr
		}

		switch {
		case entry.IsDir():
			if err := os.MkdirAll(target, 0o700|entryInfo.Mode().Perm()); err != nil {
				return err
			}
			mu.Lock()
			dirs = append(dirs, dirMode{path: target, perm: entryInfo.Mode().Perm()})
			mu.Unlock()
			return nil
		case entry.Type()&fs.ModeSymlink != 0:
			return copySymlink(current, target)
		case !entryInfo.Mode().IsRegular():
			return nil
		default:
			return CopyFile(current, target, entryInfo)
		}
	})
	if walkErr != nil {
		return walkErr
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		if err := os.Chmod(dirs[i].path, dirs[i].perm); err != nil {
			return err
		}
	}

	return nil
}

// CopyFile copies one regular file, keeping its permission bits and modification time.
func CopyFile(source string, destination string, info fs.FileInfo) error {
	input, err := os.Open(source)
	if err != nil {
		return err
	}
	defer input.Close()

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return err
	}

	output, err := os.OpenFile(destination, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(output, input)
	closeErr := output.Close()
	if copyErr != nil {
		return copyErr
	}
	if closeErr != nil {
		return closeErr
	}

	if err := os.Chmod(destination, info.Mode().Perm()); err != nil {
		return err
	}

	return os.Chtimes(destination, info.ModTime(), info.ModTime())
}

func copySymlink(source string, destination string) error {
	link, err := os.Readlink(source)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return err
	}

	if err := os.Symlink(link, destination); err != nil {
		return fmt.Errorf("copy symlink %q: %w", source, err)
	}

	return nil
}
