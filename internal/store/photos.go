package store

import (
	"context"
	"database/sql"
	"sort"

	"github.com/sirupsen/logrus"

	"snapfeed.io/snapfeed-backend/internal/vector"
)

func (s *Store) InsertPhoto(ctx context.Context, eventID int64, embedding []float32, norm float64) (int64, error) {
	encoded, err := vector.EncodeJSON(embedding)
	if err != nil {
		return 0, dataErr("encode photo embedding", err)
	}

	var id int64
	err = s.withConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			"INSERT INTO images (event_id, embedding, norm) VALUES (?, ?, ?)",
			eventID, encoded, norm)
		if err != nil {
			return dataErr("insert photo", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return dataErr("insert photo id", err)
		}
		return nil
	})
	return id, err
}

func (s *Store) GetPhoto(ctx context.Context, eventID, photoID int64) (*Photo, error) {
	var photo *Photo
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		var p Photo
		var encoded string
		err := conn.QueryRowContext(ctx,
			"SELECT id, event_id, embedding, norm FROM images WHERE event_id = ? AND id = ?",
			eventID, photoID).Scan(&p.ID, &p.EventID, &encoded, &p.Norm)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return dataErr("get photo", err)
		}
		if p.Embedding, err = vector.DecodeJSON(encoded); err != nil {
			return dataErr("decode photo embedding", err)
		}
		photo = &p
		return nil
	})
	return photo, err
}

func (s *Store) ListPhotos(ctx context.Context, eventID int64) ([]Photo, error) {
	var photos []Photo
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			"SELECT id, event_id, embedding, norm FROM images WHERE event_id = ? ORDER BY id",
			eventID)
		if err != nil {
			return dataErr("list photos", err)
		}
		defer rows.Close()

		for rows.Next() {
			var p Photo
			var encoded string
			if err := rows.Scan(&p.ID, &p.EventID, &encoded, &p.Norm); err != nil {
				return dataErr("scan photo row", err)
			}
			if p.Embedding, err = vector.DecodeJSON(encoded); err != nil {
				return dataErr("decode photo embedding", err)
			}
			photos = append(photos, p)
		}
		return rows.Err()
	})
	return photos, err
}

// DeletePhoto is a no-op when the photo is already gone.
func (s *Store) DeletePhoto(ctx context.Context, eventID, photoID int64) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx,
			"DELETE FROM images WHERE event_id = ? AND id = ?", eventID, photoID); err != nil {
			return dataErr("delete photo", err)
		}
		return nil
	})
}

// SimilarPhotos returns the event's photos scored by cosine similarity
// to the query vector, descending. k <= 0 returns all scoped rows;
// otherwise the result is truncated to k. Threshold floors are a caller
// concern.
func (s *Store) SimilarPhotos(ctx context.Context, eventID int64, query []float32, k int) ([]ScoredPhoto, error) {
	photos, err := s.ListPhotos(ctx, eventID)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredPhoto, 0, len(photos))
	for _, p := range photos {
		sim, err := vector.CosineSimilarity(query, p.Embedding)
		if err != nil {
			logrus.Warnf("skipping photo %d in similarity scan: %v", p.ID, err)
			continue
		}
		scored = append(scored, ScoredPhoto{Photo: p, Similarity: float64(sim)})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}
