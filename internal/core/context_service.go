package core

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"snapfeed.io/snapfeed-backend/internal/errs"
	"snapfeed.io/snapfeed-backend/internal/store"
)

type ContextStore interface {
	InsertContext(ctx context.Context, c *store.Context) (int64, error)
	InsertDocument(ctx context.Context, eventID int64, title, fileExt string) (int64, error)
	ListContexts(ctx context.Context, eventID int64) ([]store.Context, error)
	SimilarContexts(ctx context.Context, eventID int64, query []float32, k int) ([]store.ScoredContext, error)
}

type DocumentFiles interface {
	SaveDocument(eventID int64, name string, data []byte) (string, error)
}

// UploadedFile is one file received from a multipart upload.
type UploadedFile struct {
	Name string
	Data []byte
}

// ContextService ingests event context: it splits text into overlapping
// chunks, embeds each chunk independently in the textual space, and
// stores one row per chunk. Chunk inserts are independent; a failure
// mid-batch leaves earlier chunks in place.
type ContextService struct {
	store        ContextStore
	files        DocumentFiles
	embed        Embedder
	chunkSize    int
	chunkOverlap int
}

func NewContextService(s ContextStore, files DocumentFiles, embed Embedder, chunkSize, chunkOverlap int) *ContextService {
	return &ContextService{
		store:        s,
		files:        files,
		embed:        embed,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// NormalizeContextType maps the API's spelling of a context type onto
// the stored one ("main context" and "main_context" both mean the main
// event context).
func NormalizeContextType(contextType string) (string, error) {
	switch strings.ReplaceAll(strings.TrimSpace(contextType), " ", "_") {
	case store.ContextTypeDocument:
		return store.ContextTypeDocument, nil
	case store.ContextTypeMain, "":
		return store.ContextTypeMain, nil
	default:
		return "", errors.Wrapf(errs.ErrValidation, "unknown context type %q", contextType)
	}
}

// AddText chunks, embeds and stores a text as context rows. docID links
// chunks extracted from an uploaded document; it is nil for
// main-context text.
func (s *ContextService) AddText(ctx context.Context, eventID int64, text, contextType string, docID *int64) error {
	contextType, err := NormalizeContextType(contextType)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errors.Wrap(errs.ErrValidation, "context text is required")
	}

	chunks := SplitChunks(text, s.chunkSize, s.chunkOverlap)
	for i, chunk := range chunks {
		embedding, err := s.embed.EmbedContext(ctx, chunk)
		if err != nil {
			return errors.WithMessagef(err, "embedding chunk %d/%d", i+1, len(chunks))
		}
		if _, err := s.store.InsertContext(ctx, &store.Context{
			EventID:     eventID,
			DocID:       docID,
			ContextType: contextType,
			Content:     chunk,
			Embedding:   embedding,
		}); err != nil {
			return err
		}
	}
	logrus.Debugf("ingested %d context chunks for event %d", len(chunks), eventID)
	return nil
}

// AddDocuments saves the uploaded files, records their metadata and
// ingests their text content as document-type context; chunks from the
// same file share its document id.
func (s *ContextService) AddDocuments(ctx context.Context, eventID int64, files []UploadedFile) error {
	if len(files) == 0 {
		return errors.Wrap(errs.ErrValidation, "at least one document is required")
	}

	for _, f := range files {
		if _, err := s.files.SaveDocument(eventID, f.Name, f.Data); err != nil {
			return err
		}

		ext := filepath.Ext(f.Name)
		title := strings.TrimSuffix(filepath.Base(f.Name), ext)
		docID, err := s.store.InsertDocument(ctx, eventID, title, ext)
		if err != nil {
			return err
		}

		if err := s.AddText(ctx, eventID, string(f.Data), store.ContextTypeDocument, &docID); err != nil {
			return err
		}
	}
	return nil
}

func (s *ContextService) Get(ctx context.Context, eventID int64) ([]store.Context, error) {
	return s.store.ListContexts(ctx, eventID)
}

// Similar retrieves the event's n most similar context chunks to a
// query string.
func (s *ContextService) Similar(ctx context.Context, eventID int64, query string, n int) ([]store.ScoredContext, error) {
	embedding, err := s.embed.EmbedContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.store.SimilarContexts(ctx, eventID, embedding, n)
}

// SplitChunks splits text into rune chunks of at most size with the
// given overlap between consecutive chunks. A text of length L yields
// ceil(L / (size - overlap)) chunks, and re-concatenating the chunks
// minus their overlaps reproduces the text.
func SplitChunks(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	stride := size - overlap

	var chunks []string
	for start := 0; start < len(runes); start += stride {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
