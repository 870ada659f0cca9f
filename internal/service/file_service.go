package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"fileshell/internal/model"
	"fileshell/internal/session"
	"fileshell/pkg/cmderror"
)

var textLikeMIMETypes = []string{
	"application/json",
	"application/xml",
	"application/javascript",
	"application/x-sh",
}

type FileService struct{}

func NewFileService() *FileService {
	return &FileService{}
}

// View returns the content of a text file. Directories and binary content are refused.
func (s *FileService) View(_ context.Context, sess *session.Session, path string) (string, error) {
	resolved := sess.Resolve(path)

	info, err := os.Stat(resolved)
	if err != nil {
		return "", cmderror.FromOS(err, path)
	}
	if info.IsDir() {
		return "", cmderror.New(model.ErrIsADirectory, "IS_A_DIRECTORY", fmt.Sprintf("'%s' is a directory", path), "")
	}

	mtype, err := mimetype.DetectFile(resolved)
	if err != nil {
		return "", cmderror.FromOS(err, path)
	}
	if !isTextMIME(mtype) {
		return "", cmderror.New(model.ErrBinaryFile, "BINARY_FILE", fmt.Sprintf("'%s' is not a text file", path), mtype.String())
	}

	content, err := os.ReadFile(resolved)
	if err != nil {
		return "", cmderror.FromOS(err, path)
	}

	return string(content), nil
}

func isTextMIME(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "text/") {
			return true
		}
		for _, allowed := range textLikeMIMETypes {
			if m.Is(allowed) {
				return true
			}
		}
	}

	return false
}
