package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"blog/internal/models"
)

// placeholderAvatar is shown for commenters and profiles without an
// uploaded avatar.
const placeholderAvatar = "http://placehold.it/64x64"

type commentView struct {
	models.Comment
	AvatarURL string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	posts, err := models.ListPosts(s.DB)
	if err != nil {
		s.serverError(w, "list posts", err)
		return
	}
	data := s.baseData(w, r)
	data["Posts"] = posts
	s.render(w, "index", data)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")
	post, err := models.GetPostByTitle(s.DB, title)
	if errors.Is(err, models.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, "get post", err)
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.renderPostPage(w, r, post, nil, CommentForm{})
	case http.MethodPost:
		user := s.currentUser(r)
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		form := CommentForm{Content: r.FormValue("content")}
		if errs := form.Validate(); len(errs) > 0 {
			s.renderPostPage(w, r, post, errs, form)
			return
		}
		if err := models.CreateComment(s.DB, post.ID, user.ID, strings.TrimSpace(form.Content)); err != nil {
			s.serverError(w, "create comment", err)
			return
		}
		// GET after POST so a refresh does not resubmit.
		http.Redirect(w, r, "/post/"+url.PathEscape(post.Title), http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderPostPage(w http.ResponseWriter, r *http.Request, post *models.Post, formErrs map[string]string, form CommentForm) {
	comments, err := models.ListComments(s.DB, post.ID)
	if err != nil {
		s.serverError(w, "list comments", err)
		return
	}
	views := make([]commentView, 0, len(comments))
	for _, c := range comments {
		avatar := placeholderAvatar
		if p, err := models.GetProfileByUser(s.DB, c.UserID); err == nil && p.AvatarPath != "" {
			avatar = "/media/" + p.AvatarPath
		}
		views = append(views, commentView{Comment: c, AvatarURL: avatar})
	}
	data := s.baseData(w, r)
	data["Post"] = post
	data["Comments"] = views
	data["Errors"] = formErrs
	data["Form"] = form
	s.render(w, "post", data)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := models.GetCategoryByName(s.DB, r.PathValue("name"))
	if errors.Is(err, models.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, "get category", err)
		return
	}
	posts, err := models.ListPostsByCategory(s.DB, cat.ID)
	if err != nil {
		s.serverError(w, "list posts by category", err)
		return
	}
	data := s.baseData(w, r)
	data["Posts"] = posts
	s.render(w, "index", data)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	posts, err := models.SearchPosts(s.DB, query)
	if err != nil {
		s.serverError(w, "search posts", err)
		return
	}
	data := s.baseData(w, r)
	data["Posts"] = posts
	data["Query"] = query
	s.render(w, "index", data)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request, user *models.User) {
	switch r.Method {
	case http.MethodGet:
		data := s.baseData(w, r)
		data["Form"] = PostForm{}
		s.render(w, "create", data)
	case http.MethodPost:
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		form := PostForm{
			Title:    strings.TrimSpace(r.FormValue("title")),
			Content:  strings.TrimSpace(r.FormValue("content")),
			Category: strings.TrimSpace(r.FormValue("category")),
		}
		if errs := form.Validate(); len(errs) > 0 {
			s.renderCreatePage(w, r, form, errs, "")
			return
		}
		cat, err := models.GetOrCreateCategory(s.DB, form.Category)
		if err != nil {
			s.serverError(w, "get or create category", err)
			return
		}
		var photoPaths []string
		if r.MultipartForm != nil {
			for _, fh := range r.MultipartForm.File["images"] {
				p, err := s.saveUpload("posts", fh)
				if errors.Is(err, errUnsupportedImage) {
					s.removeUploads(photoPaths)
					s.renderCreatePage(w, r, form, map[string]string{"images": "Only image files can be attached."}, "")
					return
				}
				if err != nil {
					s.removeUploads(photoPaths)
					s.serverError(w, "save photo", err)
					return
				}
				photoPaths = append(photoPaths, p)
			}
		}
		_, err = models.CreatePost(s.DB, user.ID, cat.ID, form.Title, form.Content, photoPaths)
		if errors.Is(err, models.ErrDuplicateTitle) {
			s.removeUploads(photoPaths)
			s.renderCreatePage(w, r, form, nil, "A post with this title already exists.")
			return
		}
		if err != nil {
			s.removeUploads(photoPaths)
			s.serverError(w, "create post", err)
			return
		}
		emails, err := models.ListSubscriberEmails(s.DB)
		if err != nil {
			s.Log.Error("list subscribers", "error", err)
		} else {
			s.Notifier.NotifyNewPost(form.Title, form.Content, emails)
		}
		s.setFlash(w, "success", "Post created successfully!")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderCreatePage(w http.ResponseWriter, r *http.Request, form PostForm, formErrs map[string]string, errMsg string) {
	data := s.baseData(w, r)
	data["Form"] = form
	data["Errors"] = formErrs
	data["Error"] = errMsg
	s.render(w, "create", data)
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		data := s.baseData(w, r)
		data["Form"] = SubscribeForm{}
		s.render(w, "subscribe", data)
	case http.MethodPost:
		form := SubscribeForm{Email: strings.TrimSpace(r.FormValue("email"))}
		renderErr := func(formErrs map[string]string, errMsg string) {
			data := s.baseData(w, r)
			data["Form"] = form
			data["Errors"] = formErrs
			data["Error"] = errMsg
			s.render(w, "subscribe", data)
		}
		if errs := form.Validate(); len(errs) > 0 {
			renderErr(errs, "")
			return
		}
		err := models.CreateSubscriber(s.DB, form.Email)
		if errors.Is(err, models.ErrDuplicateSubscriber) {
			renderErr(nil, "This email is already subscribed.")
			return
		}
		if err != nil {
			s.serverError(w, "create subscriber", err)
			return
		}
		s.setFlash(w, "success", form.Email+" has been successfully registered.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, user *models.User) {
	avatar := placeholderAvatar
	if p, err := models.GetProfileByUser(s.DB, user.ID); err == nil && p.AvatarPath != "" {
		avatar = "/media/" + p.AvatarPath
	}
	data := s.baseData(w, r)
	data["AvatarURL"] = avatar
	s.render(w, "profile", data)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, user *models.User) {
	profile, err := models.GetOrCreateProfile(s.DB, user.ID)
	if err != nil {
		s.serverError(w, "get or create profile", err)
		return
	}
	switch r.Method {
	case http.MethodGet:
		data := s.baseData(w, r)
		data["Profile"] = profile
		s.render(w, "update_profile", data)
	case http.MethodPost:
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if r.MultipartForm != nil {
			if files := r.MultipartForm.File["avatar"]; len(files) > 0 {
				p, err := s.saveUpload("avatars", files[0])
				if errors.Is(err, errUnsupportedImage) {
					data := s.baseData(w, r)
					data["Profile"] = profile
					data["Errors"] = map[string]string{"avatar": "Only image files can be used as an avatar."}
					s.render(w, "update_profile", data)
					return
				}
				if err != nil {
					s.serverError(w, "save avatar", err)
					return
				}
				if err := models.UpdateProfileAvatar(s.DB, user.ID, p); err != nil {
					s.serverError(w, "update avatar", err)
					return
				}
			}
		}
		s.setFlash(w, "success", "Profile updated successfully!")
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		data := s.baseData(w, r)
		data["Form"] = RegisterForm{}
		s.render(w, "register", data)
	case http.MethodPost:
		form := RegisterForm{
			Email:    strings.TrimSpace(r.FormValue("email")),
			Username: strings.TrimSpace(r.FormValue("username")),
			Password: r.FormValue("password"),
			Confirm:  r.FormValue("confirm"),
		}
		renderErrs := func(errs map[string]string) {
			data := s.baseData(w, r)
			data["Form"] = form
			data["Errors"] = errs
			s.render(w, "register", data)
		}
		if errs := form.Validate(); len(errs) > 0 {
			renderErrs(errs)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
		if err != nil {
			s.serverError(w, "hash password", err)
			return
		}
		err = models.CreateUser(s.DB, form.Email, form.Username, string(hash))
		switch {
		case errors.Is(err, models.ErrDuplicateEmail):
			renderErrs(map[string]string{"email": "An account with this email already exists."})
			return
		case errors.Is(err, models.ErrDuplicateUsername):
			renderErrs(map[string]string{"username": "This username is taken."})
			return
		case err != nil:
			s.serverError(w, "create user", err)
			return
		}
		user, err := models.GetUserByEmail(s.DB, form.Email)
		if err != nil {
			s.serverError(w, "load new user", err)
			return
		}
		// New accounts are logged in immediately.
		if err := s.startSession(w, user.ID); err != nil {
			s.serverError(w, "start session", err)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, "login", s.baseData(w, r))
	case http.MethodPost:
		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		fail := func() {
			// Same message for unknown user and wrong password.
			data := s.baseData(w, r)
			data["Error"] = "Invalid email or password."
			s.render(w, "login", data)
		}
		user, err := models.GetUserByEmail(s.DB, email)
		if err != nil {
			fail()
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			fail()
			return
		}
		if err := s.startSession(w, user.ID); err != nil {
			s.serverError(w, "start session", err)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		s.endSession(w, r)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, "logged_out", s.baseData(w, r))
}

func (s *Server) handlePasswordChange(w http.ResponseWriter, r *http.Request, user *models.User) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, "password_change", s.baseData(w, r))
	case http.MethodPost:
		form := PasswordChangeForm{
			Current: r.FormValue("current"),
			New:     r.FormValue("new"),
			Confirm: r.FormValue("confirm"),
		}
		errs := form.Validate()
		if len(errs) == 0 && bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Current)) != nil {
			errs["current"] = "Current password is incorrect."
		}
		if len(errs) > 0 {
			data := s.baseData(w, r)
			data["Errors"] = errs
			s.render(w, "password_change", data)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(form.New), bcrypt.DefaultCost)
		if err != nil {
			s.serverError(w, "hash password", err)
			return
		}
		if err := models.UpdatePassword(s.DB, user.ID, string(hash)); err != nil {
			s.serverError(w, "update password", err)
			return
		}
		http.Redirect(w, r, "/password_change/done", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePasswordChangeDone(w http.ResponseWriter, r *http.Request, _ *models.User) {
	s.render(w, "password_change_done", s.baseData(w, r))
}
