package models

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrDuplicateUsername   = errors.New("username already exists")
	ErrDuplicateTitle      = errors.New("a post with this title already exists")
	ErrDuplicateSubscriber = errors.New("this email is already subscribed")
)

// constraintError maps sqlite UNIQUE violations to sentinel errors the
// handlers can act on. Anything unrecognized passes through unchanged.
func constraintError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed: users.email"):
		return ErrDuplicateEmail
	case strings.Contains(msg, "UNIQUE constraint failed: users.username"):
		return ErrDuplicateUsername
	case strings.Contains(msg, "UNIQUE constraint failed: posts.title"):
		return ErrDuplicateTitle
	case strings.Contains(msg, "UNIQUE constraint failed: subscribers.email"):
		return ErrDuplicateSubscriber
	}
	return err
}

func CreateUser(db *sql.DB, email, username, passwordHash string) error {
	_, err := db.Exec(`INSERT INTO users (email, username, password_hash) VALUES (?, ?, ?)`, email, username, passwordHash)
	return constraintError(err)
}

func GetUserByEmail(db *sql.DB, email string) (*User, error) {
	row := db.QueryRow(`SELECT id, email, username, password_hash, created_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func GetUserByID(db *sql.DB, id int) (*User, error) {
	row := db.QueryRow(`SELECT id, email, username, password_hash, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func UpdatePassword(db *sql.DB, userID int, passwordHash string) error {
	_, err := db.Exec(`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, userID)
	return err
}

func CreateSession(db *sql.DB, userID int, sessionID string, expires time.Time) error {
	// revoke existing
	_, err := db.Exec(`UPDATE sessions SET revoked_at = CURRENT_TIMESTAMP WHERE user_id = ? AND revoked_at IS NULL`, userID)
	if err != nil {
		return err
	}
	_, err = db.Exec(`INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)`, sessionID, userID, expires)
	return err
}

func GetSession(db *sql.DB, id string) (*Session, error) {
	row := db.QueryRow(`SELECT id, user_id, created_at, expires_at, revoked_at FROM sessions WHERE id = ?`, id)
	var s Session
	var revoked sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt, &revoked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if revoked.Valid {
		s.RevokedAt = &revoked.Time
	}
	return &s, nil
}

func RevokeSession(db *sql.DB, id string) error {
	_, err := db.Exec(`UPDATE sessions SET revoked_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}

// GetOrCreateProfile returns the user's profile, creating the row on
// first access. Idempotent: concurrent or repeated calls settle on the
// single row guarded by the UNIQUE(user_id) constraint.
func GetOrCreateProfile(db *sql.DB, userID int) (*UserProfile, error) {
	p, err := GetProfileByUser(db, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	_, err = db.Exec(`INSERT INTO user_profiles (user_id) VALUES (?)`, userID)
	if err != nil && !strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return nil, err
	}
	return GetProfileByUser(db, userID)
}

func GetProfileByUser(db *sql.DB, userID int) (*UserProfile, error) {
	row := db.QueryRow(`SELECT id, user_id, avatar_path, updated_at FROM user_profiles WHERE user_id = ?`, userID)
	var p UserProfile
	err := row.Scan(&p.ID, &p.UserID, &p.AvatarPath, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func UpdateProfileAvatar(db *sql.DB, userID int, avatarPath string) error {
	_, err := db.Exec(`UPDATE user_profiles SET avatar_path = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?`, avatarPath, userID)
	return err
}

func CreateSubscriber(db *sql.DB, email string) error {
	_, err := db.Exec(`INSERT INTO subscribers (email) VALUES (?)`, email)
	return constraintError(err)
}

func ListSubscriberEmails(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT email FROM subscribers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}
