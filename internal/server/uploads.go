package server

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxUploadBytes = 32 << 20

var errUnsupportedImage = errors.New("unsupported image type")

// saveUpload writes an uploaded image under MediaDir/subdir with a
// random name and returns the media-relative path stored in the
// database (forward slashes, served under /media/).
func (s *Server) saveUpload(subdir string, fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return "", errUnsupportedImage
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dir := filepath.Join(s.MediaDir, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return path.Join(subdir, name), nil
}

func (s *Server) removeUploads(paths []string) {
	for _, p := range paths {
		if err := os.Remove(filepath.Join(s.MediaDir, filepath.FromSlash(p))); err != nil {
			s.Log.Error("remove upload", "path", p, "error", err)
		}
	}
}
