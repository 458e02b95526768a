package covers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		slug     string
		coverURL string
		want     string
	}{
		{"jpg", "show-x", "https://img.example/covers/abc.jpg", "show-x.jpg"},
		{"png", "show-x", "https://img.example/a/b/c.png", "show-x.png"},
		{"query ignored", "show-x", "https://img.example/abc.webp?v=2", "show-x.webp"},
		{"no extension", "show-x", "https://img.example/abc", ""},
		{"trailing dot", "show-x", "https://img.example/abc.", ""},
		{"empty url", "show-x", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.slug, tt.coverURL))
		})
	}
}

func TestEnsure_DownloadsOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := NewFetcher(dir)

	downloaded, err := f.Ensure(context.Background(), srv.URL+"/abc.jpg", "show-x.jpg")
	require.NoError(t, err)
	assert.True(t, downloaded)

	// Second call finds the file on disk and never touches the network.
	downloaded, err = f.Ensure(context.Background(), srv.URL+"/abc.jpg", "show-x.jpg")
	require.NoError(t, err)
	assert.False(t, downloaded)

	assert.Equal(t, int32(1), hits.Load())

	data, err := os.ReadFile(filepath.Join(dir, "show-x.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestEnsure_SendsFixedHeaders(t *testing.T) {
	var gotUA, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	_, err := f.Ensure(context.Background(), srv.URL+"/a.jpg", "a.jpg")
	require.NoError(t, err)

	assert.Contains(t, gotUA, "iPhone")
	assert.Equal(t, "vi-VN", gotLang)
}

func TestEnsure_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := NewFetcher(dir)
	_, err := f.Ensure(context.Background(), srv.URL+"/gone.jpg", "gone.jpg")
	require.Error(t, err)

	// A failed download must not leave a file behind.
	_, statErr := os.Stat(filepath.Join(dir, "gone.jpg"))
	assert.True(t, os.IsNotExist(statErr))
}
