package loader

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

func TestLoader_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	l := New(afs.New(), DefaultConfig())

	URL := "mem://localhost/loader/case001/bundle.json"
	payload := []byte(`{"version":"1.0.0"}`)

	require.NoError(t, l.Save(ctx, URL, payload))

	f, err := l.Load(ctx, URL)
	require.NoError(t, err)
	assert.Equal(t, payload, f.Data)
	assert.Equal(t, int64(len(payload)), f.Size)
	assert.Equal(t, "application/json", f.MimeType)
}

func TestLoader_TooLarge(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.MaxSize = 8

	l := New(afs.New(), cfg)
	URL := "mem://localhost/loader/case002/bundle.yaml"
	require.NoError(t, l.Save(ctx, URL, []byte(strings.Repeat("x", 9))))

	_, err := l.Load(ctx, URL)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestLoader_UnsupportedType(t *testing.T) {
	ctx := context.Background()
	l := New(nil, DefaultConfig())

	URL := "mem://localhost/loader/case003/picture.png"
	require.NoError(t, l.Save(ctx, URL, []byte("not really a png")))

	_, err := l.Load(ctx, URL)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLoader_Missing(t *testing.T) {
	_, err := New(nil, DefaultConfig()).Load(context.Background(), "mem://localhost/loader/case004/none.json")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	l := New(nil, DefaultConfig())

	tests := []struct {
		name    string
		size    int64
		mime    string
		wantErr error
	}{
		{"json", 100, "application/json", nil},
		{"json with charset", 100, "application/json; charset=utf-8", nil},
		{"upper case yaml", 100, "Text/YAML", nil},
		{"unknown type skipped", 100, "", nil},
		{"too large", DefaultMaxSize + 1, "application/json", ErrTooLarge},
		{"image", 100, "image/png", ErrUnsupportedType},
		{"malformed type", 100, "///", ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.Check(tt.size, tt.mime)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTypeByExtension(t *testing.T) {
	assert.Equal(t, "application/yaml", TypeByExtension("file:///tmp/export.YML"))
	assert.Equal(t, "application/json", TypeByExtension("mem://localhost/a/b.json"))
	assert.Equal(t, "", TypeByExtension("mem://localhost/a/noext"))
}
