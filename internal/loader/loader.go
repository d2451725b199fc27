// Package loader reads bundle documents from any storage supported by
// viant/afs (local files, mem://, cloud buckets) and enforces the size and
// media type limits that bound the cost of validating them.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"slices"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

var (
	// ErrTooLarge is returned for documents above the configured size limit.
	ErrTooLarge = errors.New("document too large")
	// ErrUnsupportedType is returned for documents of a media type that is
	// not in the allow-list.
	ErrUnsupportedType = errors.New("unsupported document type")
)

// DefaultMaxSize is the default size limit, 10 MiB.
const DefaultMaxSize int64 = 10 << 20

// Config holds the loader limits.
type Config struct {
	// MaxSize is the largest accepted document in bytes. Zero disables the
	// limit.
	MaxSize int64 `yaml:"maxSize"`
	// AllowedTypes lists the accepted media types.
	AllowedTypes []string `yaml:"allowedTypes"`
}

// DefaultConfig returns the default loader limits.
func DefaultConfig() Config {
	return Config{
		MaxSize: DefaultMaxSize,
		AllowedTypes: []string{
			"application/json",
			"application/yaml",
			"application/x-yaml",
			"text/yaml",
			"text/x-yaml",
			"text/plain",
		},
	}
}

var extensionTypes = map[string]string{
	".json": "application/json",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".txt":  "text/plain",
}

// TypeByExtension infers the media type of location from its extension.
// It returns an empty string when nothing is known about the extension.
func TypeByExtension(location string) string {
	ext := strings.ToLower(path.Ext(url.Path(location)))
	if ext == "" {
		return ""
	}

	if t, ok := extensionTypes[ext]; ok {
		return t
	}

	return mime.TypeByExtension(ext)
}

// File is a loaded document.
type File struct {
	URL      string
	Size     int64
	MimeType string
	Data     []byte
}

// Loader reads and writes documents through an afs.Service.
type Loader struct {
	fs     afs.Service
	config Config
}

// New creates a Loader. A nil fs means afs.New().
func New(fs afs.Service, config Config) *Loader {
	if fs == nil {
		fs = afs.New()
	}

	return &Loader{fs: fs, config: config}
}

// Check applies the limits to a document described by its size and media
// type. An empty media type is not checked.
func (l *Loader) Check(declaredSize int64, declaredType string) error {
	if l.config.MaxSize > 0 && declaredSize > l.config.MaxSize {
		return fmt.Errorf("%w: %d bytes exceeds the limit of %d", ErrTooLarge, declaredSize, l.config.MaxSize)
	}

	if declaredType == "" || len(l.config.AllowedTypes) == 0 {
		return nil
	}

	mediaType, _, err := mime.ParseMediaType(declaredType)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedType, declaredType, err)
	}

	allowed := slices.ContainsFunc(l.config.AllowedTypes, func(t string) bool {
		return strings.EqualFold(t, mediaType)
	})

	if !allowed {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, mediaType)
	}

	return nil
}

// Load reads the document at URL after checking its size and inferred media
// type.
func (l *Loader) Load(ctx context.Context, URL string) (*File, error) {
	object, err := l.fs.Object(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to locate %s: %w", URL, err)
	}

	if object.IsDir() {
		return nil, fmt.Errorf("failed to load %s: is a directory", URL)
	}

	mimeType := TypeByExtension(URL)
	if err := l.Check(object.Size(), mimeType); err != nil {
		return nil, fmt.Errorf("rejected %s: %w", URL, err)
	}

	data, err := l.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", URL, err)
	}

	if err := l.Check(int64(len(data)), ""); err != nil {
		return nil, fmt.Errorf("rejected %s: %w", URL, err)
	}

	return &File{URL: URL, Size: int64(len(data)), MimeType: mimeType, Data: data}, nil
}

// Save writes data to URL, creating parent locations as needed.
func (l *Loader) Save(ctx context.Context, URL string, data []byte) error {
	if err := l.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", URL, err)
	}

	return nil
}
