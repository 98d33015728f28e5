package core

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"snapfeed.io/snapfeed-backend/internal/store"
)

type PhotoStore interface {
	InsertPhoto(ctx context.Context, eventID int64, embedding []float32, norm float64) (int64, error)
	GetPhoto(ctx context.Context, eventID, photoID int64) (*store.Photo, error)
	ListPhotos(ctx context.Context, eventID int64) ([]store.Photo, error)
	DeletePhoto(ctx context.Context, eventID, photoID int64) error
}

type ImageFiles interface {
	SaveImage(eventID, photoID int64, data []byte) (string, error)
	OpenImage(eventID int64, name string) (*os.File, error)
	DeleteImage(eventID, photoID int64) error
}

type PhotosService struct {
	store PhotoStore
	files ImageFiles
	embed Embedder
}

func NewPhotosService(s PhotoStore, files ImageFiles, embed Embedder) *PhotosService {
	return &PhotosService{store: s, files: files, embed: embed}
}

// UploadResult reports what happened to a batch of uploaded images.
type UploadResult struct {
	UploadedImageIDs []int64 `json:"uploaded_image_ids"`
	SharpCount       int     `json:"sharp_count"`
	BlurredCount     int     `json:"blurred_count"`
}

// Upload embeds and stores each image. With the quality filter enabled,
// images whose Laplacian variance falls below threshold are counted as
// blurred and skipped. A gateway failure mid-batch aborts the upload;
// images already committed stay committed.
func (s *PhotosService) Upload(ctx context.Context, eventID int64, images [][]byte, qualityFilter bool, threshold float64) (*UploadResult, error) {
	result := &UploadResult{UploadedImageIDs: []int64{}}

	for _, data := range images {
		if qualityFilter {
			blurry, err := IsBlurry(data, threshold)
			if err != nil {
				return nil, err
			}
			if blurry {
				result.BlurredCount++
				continue
			}
			result.SharpCount++
		}

		id, err := s.Add(ctx, eventID, data)
		if err != nil {
			return nil, err
		}
		result.UploadedImageIDs = append(result.UploadedImageIDs, id)
	}
	return result, nil
}

// Add embeds one image, stores the unit vector and its scale factor,
// and saves the bytes under the event's directory as {id}.png.
func (s *PhotosService) Add(ctx context.Context, eventID int64, data []byte) (int64, error) {
	embedding, scale, err := s.embed.EmbedImage(ctx, data)
	if err != nil {
		return 0, err
	}

	id, err := s.store.InsertPhoto(ctx, eventID, embedding, float64(scale))
	if err != nil {
		return 0, err
	}

	if _, err := s.files.SaveImage(eventID, id, data); err != nil {
		return 0, err
	}
	return id, nil
}

// Get returns nil when the photo does not exist.
func (s *PhotosService) Get(ctx context.Context, eventID, photoID int64) (*store.Photo, error) {
	return s.store.GetPhoto(ctx, eventID, photoID)
}

func (s *PhotosService) List(ctx context.Context, eventID int64) ([]store.Photo, error) {
	return s.store.ListPhotos(ctx, eventID)
}

// OpenFile serves a photo's binary by its file name.
func (s *PhotosService) OpenFile(eventID int64, name string) (*os.File, error) {
	return s.files.OpenImage(eventID, name)
}

// Delete removes the row and the file; both are no-ops when already
// gone.
func (s *PhotosService) Delete(ctx context.Context, eventID, photoID int64) error {
	if err := s.store.DeletePhoto(ctx, eventID, photoID); err != nil {
		return err
	}
	return s.files.DeleteImage(eventID, photoID)
}

// DeleteBatch deletes each id independently; a failure on one id does
// not stop the rest.
func (s *PhotosService) DeleteBatch(ctx context.Context, eventID int64, photoIDs []int64) error {
	var firstErr error
	for _, id := range photoIDs {
		if err := s.Delete(ctx, eventID, id); err != nil {
			logrus.Warnf("failed to delete photo %d in event %d: %v", id, eventID, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
