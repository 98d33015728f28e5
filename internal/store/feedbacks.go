package store

import (
	"context"
	"database/sql"
)

func (s *Store) InsertFeedback(ctx context.Context, f *Feedback) (int64, error) {
	var id int64
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			"INSERT INTO feedbacks (event_id, post_id, feedback_comment, feedback_status) VALUES (?, ?, ?, ?)",
			f.EventID, f.PostID, f.Comment, f.Status)
		if err != nil {
			return dataErr("insert feedback", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return dataErr("insert feedback id", err)
		}
		return nil
	})
	return id, err
}

func (s *Store) ListFeedback(ctx context.Context, eventID, postID int64) ([]Feedback, error) {
	var feedbacks []Feedback
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			"SELECT id, event_id, post_id, feedback_comment, feedback_status FROM feedbacks WHERE event_id = ? AND post_id = ? ORDER BY id",
			eventID, postID)
		if err != nil {
			return dataErr("list feedback", err)
		}
		defer rows.Close()

		for rows.Next() {
			var f Feedback
			if err := rows.Scan(&f.ID, &f.EventID, &f.PostID, &f.Comment, &f.Status); err != nil {
				return dataErr("scan feedback row", err)
			}
			feedbacks = append(feedbacks, f)
		}
		return rows.Err()
	})
	return feedbacks, err
}

func (s *Store) DeleteFeedback(ctx context.Context, eventID, postID, feedbackID int64) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx,
			"DELETE FROM feedbacks WHERE event_id = ? AND post_id = ? AND id = ?",
			eventID, postID, feedbackID); err != nil {
			return dataErr("delete feedback", err)
		}
		return nil
	})
}
