package store

import (
	"context"
	"database/sql"
	"strings"
)

func (s *Store) InsertUser(ctx context.Context, u *User) (int64, error) {
	var id int64
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			"INSERT INTO users (first_name, last_name, email, password_hash) VALUES (?, ?, ?, ?)",
			u.FirstName, u.LastName, u.Email, u.PasswordHash)
		if err != nil {
			return dataErr("insert user", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return dataErr("insert user id", err)
		}
		return nil
	})
	return id, err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user *User
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		var u User
		err := conn.QueryRowContext(ctx,
			"SELECT id, first_name, last_name, email, password_hash FROM users WHERE email = ?",
			email).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return dataErr("get user", err)
		}
		user = &u
		return nil
	})
	return user, err
}

func (s *Store) RolesByNames(ctx context.Context, names []string) ([]Role, error) {
	if len(names) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	args := make([]interface{}, len(names))
	for i, n := range names {
		args[i] = n
	}

	var roles []Role
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			"SELECT id, name FROM roles WHERE name IN ("+placeholders+")", args...)
		if err != nil {
			return dataErr("query roles", err)
		}
		defer rows.Close()

		for rows.Next() {
			var r Role
			if err := rows.Scan(&r.ID, &r.Name); err != nil {
				return dataErr("scan role row", err)
			}
			roles = append(roles, r)
		}
		return rows.Err()
	})
	return roles, err
}

func (s *Store) AssignRole(ctx context.Context, userID, roleID int64) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx,
			"INSERT OR IGNORE INTO user_roles (user_id, role_id) VALUES (?, ?)",
			userID, roleID); err != nil {
			return dataErr("assign role", err)
		}
		return nil
	})
}

func (s *Store) RoleNamesForUser(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `
            SELECT roles.name
            FROM user_roles
            JOIN roles ON user_roles.role_id = roles.id
            WHERE user_roles.user_id = ?`, userID)
		if err != nil {
			return dataErr("query user roles", err)
		}
		defer rows.Close()

		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return dataErr("scan user role row", err)
			}
			names = append(names, name)
		}
		return rows.Err()
	})
	return names, err
}
