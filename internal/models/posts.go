package models

import (
	"database/sql"
	"errors"
	"strings"
)

func ListCategories(db *sql.DB) ([]Category, error) {
	rows, err := db.Query(`SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cats []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func GetCategoryByName(db *sql.DB, name string) (*Category, error) {
	row := db.QueryRow(`SELECT id, name FROM categories WHERE name = ?`, name)
	var c Category
	err := row.Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func GetOrCreateCategory(db *sql.DB, name string) (*Category, error) {
	c, err := GetCategoryByName(db, name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	_, err = db.Exec(`INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil && !strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return nil, err
	}
	return GetCategoryByName(db, name)
}

// CreatePost persists the post and its photos in one transaction, so a
// rejected title leaves no photo rows behind.
func CreatePost(db *sql.DB, userID, categoryID int, title, content string, photoPaths []string) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	res, err := tx.Exec(`INSERT INTO posts (user_id, category_id, title, content) VALUES (?, ?, ?, ?)`, userID, categoryID, title, content)
	if err != nil {
		tx.Rollback()
		return 0, constraintError(err)
	}
	postID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	for _, p := range photoPaths {
		if _, err := tx.Exec(`INSERT INTO post_photos (post_id, image_path) VALUES (?, ?)`, postID, p); err != nil {
			tx.Rollback()
			return 0, err
		}
	}
	return postID, tx.Commit()
}

const postSelect = `SELECT p.id, p.user_id, p.category_id, p.title, p.content, p.published_at, u.username, c.name
	FROM posts p
	JOIN users u ON u.id = p.user_id
	JOIN categories c ON c.id = p.category_id`

func ListPosts(db *sql.DB) ([]Post, error) {
	return queryPosts(db, postSelect+` ORDER BY p.published_at DESC, p.id DESC`)
}

func ListPostsByCategory(db *sql.DB, categoryID int) ([]Post, error) {
	return queryPosts(db, postSelect+` WHERE p.category_id = ? ORDER BY p.published_at DESC, p.id DESC`, categoryID)
}

// SearchPosts matches the query against title or content,
// case-insensitively. An empty query matches everything. Results stay
// in insertion order.
func SearchPosts(db *sql.DB, query string) ([]Post, error) {
	pattern := "%" + query + "%"
	return queryPosts(db, postSelect+` WHERE p.title LIKE ? OR p.content LIKE ?`, pattern, pattern)
}

func queryPosts(db *sql.DB, q string, args ...any) ([]Post, error) {
	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.CategoryID, &p.Title, &p.Content, &p.PublishedAt, &p.Author, &p.Category); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func GetPostByTitle(db *sql.DB, title string) (*Post, error) {
	row := db.QueryRow(postSelect+` WHERE p.title = ?`, title)
	var p Post
	err := row.Scan(&p.ID, &p.UserID, &p.CategoryID, &p.Title, &p.Content, &p.PublishedAt, &p.Author, &p.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	photos, err := listPhotos(db, p.ID)
	if err != nil {
		return nil, err
	}
	p.Photos = photos
	return &p, nil
}

func listPhotos(db *sql.DB, postID int) ([]PostPhoto, error) {
	rows, err := db.Query(`SELECT id, post_id, image_path FROM post_photos WHERE post_id = ? ORDER BY id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var photos []PostPhoto
	for rows.Next() {
		var ph PostPhoto
		if err := rows.Scan(&ph.ID, &ph.PostID, &ph.ImagePath); err != nil {
			return nil, err
		}
		photos = append(photos, ph)
	}
	return photos, rows.Err()
}

func CreateComment(db *sql.DB, postID, userID int, content string) error {
	_, err := db.Exec(`INSERT INTO comments (post_id, user_id, content) VALUES (?, ?, ?)`, postID, userID, content)
	return err
}

// ListComments returns a post's comments newest-first (insertion order
// is the id).
func ListComments(db *sql.DB, postID int) ([]Comment, error) {
	rows, err := db.Query(`SELECT c.id, c.post_id, c.user_id, c.content, c.created_at, u.username
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ? ORDER BY c.id DESC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cs []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt, &c.Author); err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return cs, rows.Err()
}
