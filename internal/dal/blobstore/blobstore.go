package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var ErrNotFound = errors.New("blob not found")

// Store keeps uploaded files on an afero filesystem and hands out public URLs
// under publicPrefix.
type Store struct {
	fs           afero.Fs
	publicPrefix string
}

// New creates a store on fs. publicPrefix is the URL prefix the files are
// served under, e.g. "https://shop.example/media".
func New(fs afero.Fs, publicPrefix string) *Store {
	return &Store{
		fs:           fs,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
	}
}

// MustNewLocalStore creates a store rooted at blob.base_dir on the local disk.
func MustNewLocalStore() *Store {
	baseDir := viper.GetString("blob.base_dir")
	if baseDir == "" {
		baseDir = "./data/blobs"
	}

	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(baseDir, 0o755); err != nil {
		panic(fmt.Sprintf("Failed to create blob directory %s: %v", baseDir, err))
	}

	publicPrefix := strings.TrimRight(viper.GetString("server.public_url"), "/") +
		PublicPath()

	slog.Info("Blob store ready", "base_dir", baseDir, "public_prefix", publicPrefix)

	return New(afero.NewBasePathFs(osFs, baseDir), publicPrefix)
}

// PublicPath is the route the blob files are served under.
func PublicPath() string {
	p := viper.GetString("blob.public_path")
	if p == "" {
		p = "/media"
	}

	return "/" + strings.Trim(p, "/")
}

// Upload writes r to name, replacing any existing file.
func (s *Store) Upload(ctx context.Context, name string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	clean, err := cleanName(name)
	if err != nil {
		return err
	}

	if err := afero.WriteReader(s.fs, "/"+clean, r); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", clean, err)
	}

	return nil
}

// DownloadURL returns the public URL of an uploaded file.
func (s *Store) DownloadURL(_ context.Context, name string) (string, error) {
	clean, err := cleanName(name)
	if err != nil {
		return "", err
	}

	ok, err := afero.Exists(s.fs, "/"+clean)
	if err != nil {
		return "", fmt.Errorf("failed to stat blob %s: %w", clean, err)
	}
	if !ok {
		return "", fmt.Errorf("%s: %w", clean, ErrNotFound)
	}

	segments := strings.Split(clean, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}

	return s.publicPrefix + "/" + strings.Join(segments, "/"), nil
}

// Handler serves the stored files read-only.
func (s *Store) Handler() http.Handler {
	return http.FileServer(afero.NewHttpFs(afero.NewReadOnlyFs(s.fs)).Dir("/"))
}

// cleanName resolves name to a slash-separated path relative to the store
// root. Files are kept under the absolute form "/"+clean.
func cleanName(name string) (string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	if clean == "" || clean == "." {
		return "", fmt.Errorf("invalid blob name %q", name)
	}

	return clean, nil
}
