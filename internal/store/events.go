package store

import (
	"context"
	"database/sql"
)

func (s *Store) InsertEvent(ctx context.Context, title, description string, orgID int64) (int64, error) {
	var id int64
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			"INSERT INTO events (title, description, org_id) VALUES (?, ?, ?)",
			title, description, orgID)
		if err != nil {
			return dataErr("insert event", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return dataErr("insert event id", err)
		}
		return nil
	})
	return id, err
}

func (s *Store) GetEvent(ctx context.Context, orgID, eventID int64) (*Event, error) {
	var event *Event
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		var e Event
		err := conn.QueryRowContext(ctx,
			"SELECT id, title, description, org_id FROM events WHERE org_id = ? AND id = ?",
			orgID, eventID).Scan(&e.ID, &e.Title, &e.Description, &e.OrgID)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return dataErr("get event", err)
		}
		event = &e
		return nil
	})
	return event, err
}

func (s *Store) ListEvents(ctx context.Context, orgID int64) ([]Event, error) {
	var events []Event
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			"SELECT id, title, description, org_id FROM events WHERE org_id = ? ORDER BY id",
			orgID)
		if err != nil {
			return dataErr("list events", err)
		}
		defer rows.Close()

		for rows.Next() {
			var e Event
			if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.OrgID); err != nil {
				return dataErr("scan event row", err)
			}
			events = append(events, e)
		}
		return rows.Err()
	})
	return events, err
}

// DeleteEvent removes the event row only; photos, posts and contexts of
// the event are deleted through their own operations.
func (s *Store) DeleteEvent(ctx context.Context, orgID, eventID int64) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx,
			"DELETE FROM events WHERE org_id = ? AND id = ?", orgID, eventID); err != nil {
			return dataErr("delete event", err)
		}
		return nil
	})
}
