package store

import (
	"context"
	"database/sql"
	"sort"

	"github.com/sirupsen/logrus"

	"snapfeed.io/snapfeed-backend/internal/vector"
)

func (s *Store) InsertDocument(ctx context.Context, eventID int64, title, fileExt string) (int64, error) {
	var id int64
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			"INSERT INTO documents (event_id, title, file_ext) VALUES (?, ?, ?)",
			eventID, title, fileExt)
		if err != nil {
			return dataErr("insert document", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return dataErr("insert document id", err)
		}
		return nil
	})
	return id, err
}

func (s *Store) InsertContext(ctx context.Context, c *Context) (int64, error) {
	encoded, err := vector.EncodeJSON(c.Embedding)
	if err != nil {
		return 0, dataErr("encode context embedding", err)
	}

	var id int64
	err = s.withConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			"INSERT INTO contexts (event_id, doc_id, context_type, content, embedding) VALUES (?, ?, ?, ?, ?)",
			c.EventID, c.DocID, c.ContextType, c.Content, encoded)
		if err != nil {
			return dataErr("insert context", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return dataErr("insert context id", err)
		}
		return nil
	})
	return id, err
}

func (s *Store) ListContexts(ctx context.Context, eventID int64) ([]Context, error) {
	var contexts []Context
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			"SELECT id, event_id, doc_id, context_type, content, embedding FROM contexts WHERE event_id = ? ORDER BY id",
			eventID)
		if err != nil {
			return dataErr("list contexts", err)
		}
		defer rows.Close()

		for rows.Next() {
			c, err := scanContext(rows)
			if err != nil {
				return err
			}
			contexts = append(contexts, *c)
		}
		return rows.Err()
	})
	return contexts, err
}

// SimilarContexts scores the event's context chunks against the query
// vector and returns the top k by descending cosine similarity (all
// rows when k <= 0).
func (s *Store) SimilarContexts(ctx context.Context, eventID int64, query []float32, k int) ([]ScoredContext, error) {
	contexts, err := s.ListContexts(ctx, eventID)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredContext, 0, len(contexts))
	for _, c := range contexts {
		sim, err := vector.CosineSimilarity(query, c.Embedding)
		if err != nil {
			logrus.Warnf("skipping context %d in similarity scan: %v", c.ID, err)
			continue
		}
		scored = append(scored, ScoredContext{Context: c, Similarity: float64(sim)})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func scanContext(rows *sql.Rows) (*Context, error) {
	var c Context
	var docID sql.NullInt64
	var encoded string
	if err := rows.Scan(&c.ID, &c.EventID, &docID, &c.ContextType, &c.Content, &encoded); err != nil {
		return nil, dataErr("scan context row", err)
	}
	if docID.Valid {
		c.DocID = &docID.Int64
	}
	var err error
	if c.Embedding, err = vector.DecodeJSON(encoded); err != nil {
		return nil, dataErr("decode context embedding", err)
	}
	return &c, nil
}
