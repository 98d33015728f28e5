// Package media is the object storage gateway. Uploaded binaries live
// on the local filesystem under an event-scoped directory: photos as
// images/{eventID}/{photoID}.png, documents under documents/{eventID}
// keeping their original name and extension. Bytes are stored verbatim;
// there is no dedup and no checksum.
package media

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"snapfeed.io/snapfeed-backend/internal/errs"
)

type Store struct {
	imagesDir    string
	documentsDir string
}

func NewStore(root string) (*Store, error) {
	s := &Store{
		imagesDir:    filepath.Join(root, "images"),
		documentsDir: filepath.Join(root, "documents"),
	}
	for _, dir := range []string{s.imagesDir, s.documentsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create media directory %s", dir)
		}
	}
	return s, nil
}

func (s *Store) SaveImage(eventID, photoID int64, data []byte) (string, error) {
	dir := filepath.Join(s.imagesDir, fmt.Sprint(eventID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create event image directory")
	}
	path := filepath.Join(dir, fmt.Sprintf("%d.png", photoID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write image")
	}
	return path, nil
}

func (s *Store) SaveDocument(eventID int64, name string, data []byte) (string, error) {
	dir := filepath.Join(s.documentsDir, fmt.Sprint(eventID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create event document directory")
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write document")
	}
	return path, nil
}

// OpenImage returns the named image file for an event, or
// errs.ErrNotFound when it does not exist. The name is flattened to its
// base to keep lookups inside the event directory.
func (s *Store) OpenImage(eventID int64, name string) (*os.File, error) {
	path := filepath.Join(s.imagesDir, fmt.Sprint(eventID), filepath.Base(name))
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image")
	}
	return f, nil
}

// DeleteImage removes a photo's file; absent files are a no-op.
func (s *Store) DeleteImage(eventID, photoID int64) error {
	path := filepath.Join(s.imagesDir, fmt.Sprint(eventID), fmt.Sprintf("%d.png", photoID))
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete image")
	}
	return nil
}
