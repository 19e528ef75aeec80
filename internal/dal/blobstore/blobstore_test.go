package blobstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadAndDownloadURL(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := New(fs, "http://shop.test/media/")
	ctx := context.Background()

	require.NoError(t, store.Upload(ctx, "products/1700000000000_cola can.png", strings.NewReader("png")))

	got, err := afero.ReadFile(fs, "/products/1700000000000_cola can.png")
	require.NoError(t, err)
	assert.Equal(t, "png", string(got))

	u, err := store.DownloadURL(ctx, "products/1700000000000_cola can.png")
	require.NoError(t, err)
	assert.Equal(t, "http://shop.test/media/products/1700000000000_cola%20can.png", u)
}

func TestDownloadURLMissingBlob(t *testing.T) {
	store := New(afero.NewMemMapFs(), "/media")

	_, err := store.DownloadURL(context.Background(), "products/nope.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadStaysInsideStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := New(fs, "/media")

	require.NoError(t, store.Upload(context.Background(), "../../etc/passwd", strings.NewReader("x")))

	ok, err := afero.Exists(fs, "/etc/passwd")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUploadRejectsEmptyName(t *testing.T) {
	store := New(afero.NewMemMapFs(), "/media")
	assert.Error(t, store.Upload(context.Background(), "/", strings.NewReader("x")))
}

func TestHandlerServesFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := New(fs, "/media")
	require.NoError(t, store.Upload(context.Background(), "products/a.txt", strings.NewReader("hello")))

	srv := httptest.NewServer(http.StripPrefix("/media", store.Handler()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/media/products/a.txt")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello", string(body))
}
