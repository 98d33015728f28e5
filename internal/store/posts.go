package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
)

func (s *Store) InsertPost(ctx context.Context, p *Post) (int64, error) {
	imageIDs, err := encodeImageIDs(p.ImageIDs)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.withConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			"INSERT INTO posts (event_id, caption, image_ids, user_id) VALUES (?, ?, ?, ?)",
			p.EventID, p.Caption, imageIDs, p.UserID)
		if err != nil {
			return dataErr("insert post", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return dataErr("insert post id", err)
		}
		return nil
	})
	return id, err
}

func (s *Store) GetPost(ctx context.Context, postID int64) (*Post, error) {
	var post *Post
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		var p Post
		var imageIDs string
		err := conn.QueryRowContext(ctx,
			"SELECT id, event_id, caption, image_ids, user_id FROM posts WHERE id = ?",
			postID).Scan(&p.ID, &p.EventID, &p.Caption, &imageIDs, &p.UserID)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return dataErr("get post", err)
		}
		if p.ImageIDs, err = decodeImageIDs(imageIDs); err != nil {
			return err
		}
		post = &p
		return nil
	})
	return post, err
}

func (s *Store) ListPostsByEvent(ctx context.Context, eventID int64) ([]Post, error) {
	var posts []Post
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			"SELECT id, event_id, caption, image_ids, user_id FROM posts WHERE event_id = ? ORDER BY id",
			eventID)
		if err != nil {
			return dataErr("list posts", err)
		}
		defer rows.Close()

		for rows.Next() {
			var p Post
			var imageIDs string
			if err := rows.Scan(&p.ID, &p.EventID, &p.Caption, &imageIDs, &p.UserID); err != nil {
				return dataErr("scan post row", err)
			}
			if p.ImageIDs, err = decodeImageIDs(imageIDs); err != nil {
				return err
			}
			posts = append(posts, p)
		}
		return rows.Err()
	})
	return posts, err
}

// UpdatePost applies the non-nil fields of upd and reports how many rows
// changed (0 when the post does not exist).
func (s *Store) UpdatePost(ctx context.Context, postID int64, upd PostUpdate) (int64, error) {
	var sets []string
	var args []interface{}
	if upd.EventID != nil {
		sets = append(sets, "event_id = ?")
		args = append(args, *upd.EventID)
	}
	if upd.Caption != nil {
		sets = append(sets, "caption = ?")
		args = append(args, *upd.Caption)
	}
	if upd.ImageIDs != nil {
		encoded, err := encodeImageIDs(upd.ImageIDs)
		if err != nil {
			return 0, err
		}
		sets = append(sets, "image_ids = ?")
		args = append(args, encoded)
	}
	if len(sets) == 0 {
		return 0, nil
	}
	args = append(args, postID)

	var affected int64
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			"UPDATE posts SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
		if err != nil {
			return dataErr("update post", err)
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return dataErr("update post affected", err)
		}
		return nil
	})
	return affected, err
}

// DeletePost removes the post row only; referenced photos are untouched.
func (s *Store) DeletePost(ctx context.Context, postID int64) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", postID); err != nil {
			return dataErr("delete post", err)
		}
		return nil
	})
}

func encodeImageIDs(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", dataErr("encode image ids", err)
	}
	return string(b), nil
}

func decodeImageIDs(s string) ([]int64, error) {
	if s == "" {
		return []int64{}, nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return nil, dataErr("decode image ids", err)
	}
	return ids, nil
}
