package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fileshell/internal/model"
	"fileshell/internal/session"
	"fileshell/pkg/cmderror"
)

type DirectoryService struct{}

func NewDirectoryService() *DirectoryService {
	return &DirectoryService{}
}

// List reads the directory at requestedPath, sorted by sortBy ("name", "size",
// "modified_at" or "type") in the given order ("asc" or "desc").
func (s *DirectoryService) List(_ context.Context, sess *session.Session, requestedPath string, sortBy string, order string) (model.DirectoryListData, error) {
	resolved := sess.Resolve(requestedPath)

	info, err := os.Stat(resolved)
	if err != nil {
		return model.DirectoryListData{}, cmderror.FromOS(err, displayPath(requestedPath))
	}
	if !info.IsDir() {
		return model.DirectoryListData{}, cmderror.New(model.ErrNotADirectory, "NOT_A_DIRECTORY", fmt.Sprintf("'%s' is not a directory", displayPath(requestedPath)), "")
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		return model.DirectoryListData{}, cmderror.FromOS(err, displayPath(requestedPath))
	}

	items := make([]model.FileItem, 0, len(entries))
	for _, entry := range entries {
		entryInfo, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}

		items = append(items, model.FileItem{
			Name:       entry.Name(),
			Path:       filepath.Join(resolved, entry.Name()),
			IsDir:      entry.IsDir(),
			Size:       entryInfo.Size(),
			Mode:       entryInfo.Mode(),
			ModifiedAt: entryInfo.ModTime(),
		})
	}

	sortItems(items, sortBy, order)

	return model.DirectoryListData{CurrentPath: resolved, Items: items}, nil
}

// ChangeDir moves the session to path. The process working directory stays put.
func (s *DirectoryService) ChangeDir(_ context.Context, sess *session.Session, path string) (string, error) {
	resolved := sess.Resolve(path)

	info, err := os.Stat(resolved)
	if err != nil {
		return "", cmderror.FromOS(err, path)
	}
	if !info.IsDir() {
		return "", cmderror.New(model.ErrNotADirectory, "NOT_A_DIRECTORY", fmt.Sprintf("'%s' is not a directory", path), "")
	}

	sess.SetDir(resolved)
	return resolved, nil
}

func sortItems(items []model.FileItem, sortBy string, order string) {
	field := strings.ToLower(strings.TrimSpace(sortBy))
	if field == "" {
		field = "name"
	}

	ascending := strings.ToLower(strings.TrimSpace(order)) != "desc"

	less := func(i int, j int) bool {
		switch field {
		case "size":
			return items[i].Size < items[j].Size
		case "modified_at":
			return items[i].ModifiedAt.Before(items[j].ModifiedAt)
		case "type":
			if items[i].IsDir == items[j].IsDir {
				return items[i].Name < items[j].Name
			}
			return items[i].IsDir
		default:
			return items[i].Name < items[j].Name
		}
	}

	sort.SliceStable(items, func(i int, j int) bool {
		if ascending {
			return less(i, j)
		}
		return less(j, i)
	})
}

func displayPath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	return path
}
