package service

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"

	"fileshell/internal/model"
	"fileshell/internal/session"
	"fileshell/internal/storage"
	"fileshell/pkg/cmderror"
)

const trashStampLayout = "20060102_150405"

var trashNamePattern = regexp.MustCompile(`^(.+)_(\d{8}_\d{6})(?:_(\d+))?$`)

type TrashService struct {
	root string
	now  func() time.Time

	mu     sync.Mutex
	issued map[string]struct{}
}

func NewTrashService(trashRoot string) (*TrashService, error) {
	root, err := filepath.Abs(trashRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve trash directory: %w", err)
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("prepare trash directory: %w", err)
	}

	return &TrashService{root: root, now: time.Now, issued: map[string]struct{}{}}, nil
}

func (s *TrashService) Root() string {
	return s.root
}

// SetClock replaces the time source used for trash names.
func (s *TrashService) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// Put moves userPath into the trash. Directories need recursive and a positive
// answer from the session's confirm function.
func (s *TrashService) Put(_ context.Context, sess *session.Session, userPath string, recursive bool) (model.TrashEntry, error) {
	resolved := sess.Resolve(userPath)

	if storage.IsProtectedRoot(sess.Dir(), userPath, resolved) {
		return model.TrashEntry{}, cmderror.New(model.ErrPermissionDenied, "PERMISSION_DENIED", fmt.Sprintf("Cannot delete '%s'", userPath), "root or parent directory")
	}
	if storage.IsWithin(resolved, s.root) {
		return model.TrashEntry{}, cmderror.New(model.ErrPermissionDenied, "PERMISSION_DENIED", fmt.Sprintf("Cannot delete '%s'", userPath), "contains the trash directory")
	}

	info, err := os.Lstat(resolved)
	if err != nil {
		return model.TrashEntry{}, cmderror.FromOS(err, userPath)
	}

	if info.IsDir() {
		if !recursive {
			return model.TrashEntry{}, cmderror.New(model.ErrIsADirectory, "IS_A_DIRECTORY", fmt.Sprintf("'%s' is a directory", userPath), "use -r to delete it")
		}

		confirmed, err := sess.AskConfirm(fmt.Sprintf("Remove directory '%s' recursively? (y/n): ", userPath))
		if err != nil {
			return model.TrashEntry{}, err
		}
		if !confirmed {
			return model.TrashEntry{}, cmderror.New(model.ErrOperationCancelled, "CANCELLED", "Operation cancelled", "")
		}
	}

	deletedAt := s.now()
	trashPath, err := s.reserve(sess.Dir(), resolved, deletedAt)
	if err != nil {
		return model.TrashEntry{}, err
	}

	if info.Mode().IsRegular() {
		err = moveFileToTrash(resolved, trashPath, info)
	} else {
		err = storage.MovePath(resolved, trashPath)
	}
	if err != nil {
		return model.TrashEntry{}, cmderror.FromOS(err, userPath)
	}

	return model.TrashEntry{
		OriginalPath: resolved,
		TrashPath:    trashPath,
		Name:         filepath.Base(resolved),
		DeletedAt:    deletedAt,
		IsDir:        info.IsDir(),
	}, nil
}

// moveFileToTrash copies then removes, falling back to a plain move when the
// copy or the removal fails.
func moveFileToTrash(source string, trashPath string, info fs.FileInfo) error {
	if err := storage.CopyFile(source, trashPath, info); err == nil {
		if err := os.Remove(source); err == nil {
			return nil
		}
	}

	_ = os.Remove(trashPath)
	return storage.MovePath(source, trashPath)
}

// reserve picks a trash path that is neither on disk nor handed out before.
func (s *TrashService) reserve(base string, resolved string, at time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.root, storage.RelativeDir(base, resolved))
	name := filepath.Base(resolved) + "_" + at.Format(trashStampLayout)

	candidate := filepath.Join(dir, name)
	for n := 1; ; n++ {
		if _, taken := s.issued[candidate]; !taken {
			exists, err := storage.Exists(candidate)
			if err != nil {
				return "", fmt.Errorf("check trash path: %w", err)
			}
			if !exists {
				break
			}
		}
		candidate = filepath.Join(dir, name+"_"+strconv.Itoa(n))
	}

	s.issued[candidate] = struct{}{}
	return candidate, nil
}

// Restore moves a trash entry back to its original location.
func (s *TrashService) Restore(_ context.Context, trashPath string, originalPath string) error {
	inTrash, err := storage.Exists(trashPath)
	if err != nil {
		return cmderror.FromOS(err, trashPath)
	}
	if !inTrash {
		return cmderror.New(model.ErrConflict, "CONFLICT", fmt.Sprintf("'%s' is no longer in the trash", trashPath), "")
	}

	occupied, err := storage.Exists(originalPath)
	if err != nil {
		return cmderror.FromOS(err, originalPath)
	}
	if occupied {
		return cmderror.New(model.ErrConflict, "CONFLICT", fmt.Sprintf("'%s' already exists", originalPath), "")
	}

	if err := storage.MovePath(trashPath, originalPath); err != nil {
		return cmderror.FromOS(err, originalPath)
	}

	return nil
}

// List reports every entry in the trash. OriginalPath is relative to the
// working directory the entry was deleted from.
func (s *TrashService) List(_ context.Context) ([]model.TrashEntry, error) {
	exists, err := storage.Exists(s.root)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []model.TrashEntry{}, nil
	}

	var (
		mu      sync.Mutex
		entries = []model.TrashEntry{}
	)

	conf := fastwalk.Config{Follow: false}
	walkErr := fastwalk.Walk(&conf, s.root, func(current string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if current == s.root {
			return nil
		}

		match := trashNamePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			return nil
		}

		deletedAt, parseErr := time.ParseInLocation(trashStampLayout, match[2], time.Local)
		if parseErr != nil {
			return nil
		}

		rel, relErr := filepath.Rel(s.root, filepath.Dir(current))
		if relErr != nil {
			return relErr
		}

		mu.Lock()
		entries = append(entries, model.TrashEntry{
			OriginalPath: filepath.Join(rel, match[1]),
			TrashPath:    current,
			Name:         match[1],
			DeletedAt:    deletedAt,
			IsDir:        entry.IsDir(),
		})
		mu.Unlock()

		if entry.IsDir() {
			return fs.SkipDir
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk trash directory: %w", walkErr)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].DeletedAt.Equal(entries[j].DeletedAt) {
			return entries[i].TrashPath < entries[j].TrashPath
		}
		return entries[i].DeletedAt.Before(entries[j].DeletedAt)
	})

	return entries, nil
}
