package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"blog/internal/models"
)

// requireAuth redirects anonymous visitors to the login page and hands
// the resolved user to the wrapped handler.
func (s *Server) requireAuth(next func(http.ResponseWriter, *http.Request, *models.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r, user)
	}
}

func (s *Server) currentUser(r *http.Request) *models.User {
	cookie, err := r.Cookie(s.CookieName)
	if err != nil {
		return nil
	}
	sess, err := models.GetSession(s.DB, cookie.Value)
	if err != nil || sess.RevokedAt != nil || sess.ExpiresAt.Before(time.Now()) {
		return nil
	}
	user, err := models.GetUserByID(s.DB, sess.UserID)
	if err != nil {
		return nil
	}
	return user
}

// startSession logs the user in: a fresh session row plus the cookie.
// Used by login and by register, which authenticates immediately.
func (s *Server) startSession(w http.ResponseWriter, userID int) error {
	sid := uuid.NewString()
	expires := time.Now().Add(s.SessionTTL)
	if err := models.CreateSession(s.DB, userID, sid, expires); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.CookieName,
		Value:    sid,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
	})
	return nil
}

func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(s.CookieName)
	if err != nil {
		return
	}
	if err := models.RevokeSession(s.DB, cookie.Value); err != nil {
		s.Log.Error("revoke session", "error", err)
	}
	http.SetCookie(w, &http.Cookie{Name: s.CookieName, Path: "/", MaxAge: -1})
}
