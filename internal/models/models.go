package models

import "time"

type User struct {
	ID           int
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type Session struct {
	ID        string
	UserID    int
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// UserProfile holds supplementary per-user data. It is created lazily
// by GetOrCreateProfile, so a User may not have one.
type UserProfile struct {
	ID         int
	UserID     int
	AvatarPath string
	UpdatedAt  time.Time
}

type Category struct {
	ID   int
	Name string
}

type Post struct {
	ID          int
	UserID      int
	CategoryID  int
	Title       string
	Content     string
	PublishedAt time.Time

	// Joined display fields.
	Author   string
	Category string
	Photos   []PostPhoto
}

type PostPhoto struct {
	ID        int
	PostID    int
	ImagePath string
}

type Comment struct {
	ID        int
	PostID    int
	UserID    int
	Content   string
	CreatedAt time.Time

	Author string
}

type Subscriber struct {
	ID        int
	Email     string
	CreatedAt time.Time
}
