// Package attachments turns files chosen in the native picker into
// descriptors the UI can preview and upload.
package attachments

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/wailsapp/mimetype"

	"sunless-desktop/internal/cache"
)

const (
	KindImage = "image"
	KindFile  = "file"

	fallbackMimeType = "application/octet-stream"
)

var imageMimeTypes = map[string]string{
	".apng":  "image/apng",
	".avif":  "image/avif",
	".bmp":   "image/bmp",
	".gif":   "image/gif",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".jfif":  "image/jpeg",
	".pjpeg": "image/jpeg",
	".pjp":   "image/jpeg",
	".png":   "image/png",
	".svg":   "image/svg+xml",
	".webp":  "image/webp",
}

// Attachment describes one picked file.
type Attachment struct {
	Kind     string `json:"kind"`
	MimeType string `json:"mimeType"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	FilePath string `json:"filePath"`
	DataURL  string `json:"dataUrl,omitempty"`
}

// Picker shows the native multi-file open dialog. A cancelled dialog returns
// no paths and no error.
type Picker interface {
	PickFiles(ctx context.Context) ([]string, error)
}

// Service loads picked files.
type Service struct {
	picker Picker
	cache  *cache.Service
	log    logrus.FieldLogger
}

// New creates a service. cache may be nil.
func New(picker Picker, c *cache.Service, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{picker: picker, cache: c, log: log}
}

// Pick asks the user for files and loads them.
func (s *Service) Pick(ctx context.Context) ([]Attachment, error) {
	if s.picker == nil {
		return nil, fmt.Errorf("Main window is not available")
	}
	paths, err := s.picker.PickFiles(ctx)
	if err != nil {
		return nil, err
	}
	return s.Load(paths), nil
}

// Load describes each path. Files that cannot be read are logged and skipped.
func (s *Service) Load(paths []string) []Attachment {
	out := make([]Attachment, 0, len(paths))
	for _, path := range paths {
		a, err := s.load(path)
		if err != nil {
			s.log.WithField("path", path).WithError(err).Error("Failed to load attachment")
			continue
		}
		out = append(out, a)
	}
	return out
}

func (s *Service) load(path string) (Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Attachment{}, err
	}
	if info.IsDir() {
		return Attachment{}, fmt.Errorf("%s is a directory", path)
	}

	a := Attachment{
		Kind:     KindFile,
		MimeType: fallbackMimeType,
		Name:     filepath.Base(path),
		Size:     info.Size(),
		FilePath: path,
	}

	imageType, isImage := imageMimeTypes[strings.ToLower(filepath.Ext(path))]
	if !isImage {
		if detected, err := mimetype.DetectFile(path); err == nil && detected != nil {
			a.MimeType = detected.String()
		}
		return a, nil
	}

	a.Kind = KindImage
	a.MimeType = imageType

	key := cache.Key(path, info.Size(), info.ModTime())
	if s.cache != nil {
		if dataURL, ok := s.cache.Get(key); ok {
			a.DataURL = dataURL
			return a, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Attachment{}, err
	}
	a.DataURL = "data:" + imageType + ";base64," + base64.StdEncoding.EncodeToString(data)
	if s.cache != nil {
		s.cache.Set(key, a.DataURL)
	}
	return a, nil
}
