package server

import (
	"net/mail"
	"strings"
)

// Per-operation form structs with explicit validation. Validate returns
// a field→message map; an empty map means the input is acceptable.

type RegisterForm struct {
	Email    string
	Username string
	Password string
	Confirm  string
}

func (f RegisterForm) Validate() map[string]string {
	errs := map[string]string{}
	if f.Email == "" {
		errs["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(f.Email); err != nil {
		errs["email"] = "Enter a valid email address."
	}
	if f.Username == "" {
		errs["username"] = "Username is required."
	}
	if len(f.Password) < 8 {
		errs["password"] = "Password must be at least 8 characters."
	}
	if f.Password != f.Confirm {
		errs["confirm"] = "Passwords do not match."
	}
	return errs
}

type PostForm struct {
	Title    string
	Content  string
	Category string
}

func (f PostForm) Validate() map[string]string {
	errs := map[string]string{}
	if f.Title == "" {
		errs["title"] = "Title is required."
	}
	if f.Content == "" {
		errs["content"] = "Content is required."
	}
	if f.Category == "" {
		errs["category"] = "Category is required."
	}
	return errs
}

type CommentForm struct {
	Content string
}

func (f CommentForm) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.Content) == "" {
		errs["content"] = "Comment cannot be empty."
	}
	return errs
}

type SubscribeForm struct {
	Email string
}

func (f SubscribeForm) Validate() map[string]string {
	errs := map[string]string{}
	if f.Email == "" {
		errs["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(f.Email); err != nil {
		errs["email"] = "Enter a valid email address."
	}
	return errs
}

type PasswordChangeForm struct {
	Current string
	New     string
	Confirm string
}

func (f PasswordChangeForm) Validate() map[string]string {
	errs := map[string]string{}
	if f.Current == "" {
		errs["current"] = "Current password is required."
	}
	if len(f.New) < 8 {
		errs["new"] = "New password must be at least 8 characters."
	}
	if f.New != f.Confirm {
		errs["confirm"] = "Passwords do not match."
	}
	return errs
}
