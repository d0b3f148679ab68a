package web

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"pitchboard/db"
	"pitchboard/internal/avatar"
	"pitchboard/internal/config"
	"pitchboard/internal/post"
	"pitchboard/internal/quote"
	"pitchboard/internal/user"
	"pitchboard/models"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

const (
	sessionName    = "pitchboard-session"
	sessionMaxAge  = 86400 * 30 // 30 days, used when "remember me" is set
	maxUploadBytes = 10 << 20
)

type WebHandler struct {
	userService   *user.UserService
	postService   *post.PostService
	quoteService  *quote.QuoteService
	avatarService *avatar.AvatarService
	templates     *template.Template
	sessionStore  *sessions.CookieStore
	config        *config.Config
}

type PageData struct {
	Page     string
	User     *models.User
	Flashes  []interface{}
	Error    string
	Posts    []*models.Post
	Post     *models.Post
	Quote    *models.Quote
	Legend   string
	Next     string
	Username string
	Email    string
}

func NewWebHandler(
	userService *user.UserService,
	postService *post.PostService,
	quoteService *quote.QuoteService,
	avatarService *avatar.AvatarService,
	cfg *config.Config,
) *WebHandler {
	funcMap := template.FuncMap{
		"formatTime": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
	}

	tmpl := template.New("").Funcs(funcMap)

	files, err := filepath.Glob(filepath.Join(cfg.TemplateDir, "*.html"))
	if err != nil {
		panic(fmt.Sprintf("Failed to glob templates: %v", err))
	}
	if len(files) == 0 {
		panic("No template files found")
	}

	tmpl, err = tmpl.ParseFiles(files...)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse templates: %v", err))
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0, // session cookie unless the user asks to be remembered
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}

	return &WebHandler{
		userService:   userService,
		postService:   postService,
		quoteService:  quoteService,
		avatarService: avatarService,
		templates:     tmpl,
		sessionStore:  store,
		config:        cfg,
	}
}

func (h *WebHandler) render(w http.ResponseWriter, name string, data PageData) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Template execution error for %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *WebHandler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.WriteHeader(status)
	h.render(w, "error.html", PageData{
		Page:  "error",
		User:  h.currentUser(r),
		Error: message,
	})
}

// currentUser resolves the session cookie to an account. Nil means
// anonymous: no cookie, an expired cookie, or a user that no longer exists.
func (h *WebHandler) currentUser(r *http.Request) *models.User {
	session, _ := h.sessionStore.Get(r, sessionName)
	userID, ok := session.Values["user_id"].(string)
	if !ok || userID == "" {
		return nil
	}
	account, err := h.userService.FindByID(r.Context(), userID)
	if err != nil {
		return nil
	}
	return account
}

func (h *WebHandler) addFlash(w http.ResponseWriter, r *http.Request, message string) {
	session, _ := h.sessionStore.Get(r, sessionName)
	session.AddFlash(message)
	if err := session.Save(r, w); err != nil {
		log.Printf("Failed to save flash: %v", err)
	}
}

func (h *WebHandler) popFlashes(w http.ResponseWriter, r *http.Request) []interface{} {
	session, _ := h.sessionStore.Get(r, sessionName)
	flashes := session.Flashes()
	if len(flashes) > 0 {
		if err := session.Save(r, w); err != nil {
			log.Printf("Failed to clear flashes: %v", err)
		}
	}
	return flashes
}

// requireAuth redirects anonymous requests to the login page, preserving the
// requested path in the next parameter so login can send the user back.
func (h *WebHandler) requireAuth(next func(http.ResponseWriter, *http.Request, *models.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := h.currentUser(r)
		if account == nil {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
			return
		}
		next(w, r, account)
	}
}

// safeNext only allows local redirect targets.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return ""
}

// Page Handlers

func (h *WebHandler) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.FindAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// The quote feed is decoration; render without it if the call fails.
	q, err := h.quoteService.Random()
	if err != nil {
		log.Printf("Quote feed unavailable: %v", err)
		q = nil
	}

	h.render(w, "root.html", PageData{
		Page:    "root",
		User:    h.currentUser(r),
		Flashes: h.popFlashes(w, r),
		Posts:   posts,
		Quote:   q,
	})
}

func (h *WebHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, "home.html", PageData{
		Page:    "home",
		User:    h.currentUser(r),
		Flashes: h.popFlashes(w, r),
	})
}

func (h *WebHandler) Pickup(w http.ResponseWriter, r *http.Request) {
	h.render(w, "pickup.html", PageData{
		Page: "pickup",
		User: h.currentUser(r),
	})
}

func (h *WebHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h.currentUser(r) != nil {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, "register.html", PageData{Page: "register", Flashes: h.popFlashes(w, r)})
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")
	if username == "" || email == "" || password == "" {
		h.render(w, "register.html", PageData{
			Page:     "register",
			Error:    "All fields are required",
			Username: username,
			Email:    email,
		})
		return
	}

	_, err := h.userService.Register(r.Context(), username, email, password)
	if err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			h.render(w, "register.html", PageData{
				Page:     "register",
				Error:    "That email is already registered",
				Username: username,
				Email:    email,
			})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.addFlash(w, r, "Your account has been created! You are now able to log in")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *WebHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.currentUser(r) != nil {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, "login.html", PageData{
			Page:    "login",
			Flashes: h.popFlashes(w, r),
			Next:    safeNext(r.URL.Query().Get("next")),
		})
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	remember := r.FormValue("remember") != ""
	next := safeNext(r.FormValue("next"))

	account, err := h.userService.Authenticate(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			h.render(w, "login.html", PageData{
				Page:  "login",
				Error: "Login unsuccessful. Please check your email and password",
				Email: email,
				Next:  next,
			})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	session, _ := h.sessionStore.Get(r, sessionName)
	session.Values["user_id"] = account.ID
	if remember {
		session.Options.MaxAge = sessionMaxAge
	}
	if err := session.Save(r, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if next != "" {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *WebHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.sessionStore.Get(r, sessionName)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		log.Printf("Failed to clear session: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *WebHandler) Account(w http.ResponseWriter, r *http.Request, account *models.User) {
	if r.Method == http.MethodGet {
		h.render(w, "account.html", PageData{
			Page:     "account",
			User:     account,
			Flashes:  h.popFlashes(w, r),
			Username: account.Username,
			Email:    account.Email,
		})
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	if username == "" || email == "" {
		h.render(w, "account.html", PageData{
			Page:     "account",
			User:     account,
			Error:    "Username and email are required",
			Username: username,
			Email:    email,
		})
		return
	}

	avatarFilename := ""
	if file, _, err := r.FormFile("picture"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			http.Error(w, "failed to read upload", http.StatusBadRequest)
			return
		}
		avatarFilename, err = h.avatarService.Save(data)
		if err != nil {
			if errors.Is(err, avatar.ErrUnsupportedImage) {
				h.render(w, "account.html", PageData{
					Page:     "account",
					User:     account,
					Error:    "Profile pictures must be JPEG or PNG images",
					Username: username,
					Email:    email,
				})
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	_, err := h.userService.UpdateAccount(r.Context(), account.ID, username, email, avatarFilename)
	if err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			h.render(w, "account.html", PageData{
				Page:     "account",
				User:     account,
				Error:    "That email is already registered",
				Username: username,
				Email:    email,
			})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.addFlash(w, r, "Account Updated Successfully!")
	http.Redirect(w, r, "/account", http.StatusSeeOther)
}

func (h *WebHandler) NewPost(w http.ResponseWriter, r *http.Request, account *models.User) {
	if r.Method == http.MethodGet {
		h.render(w, "create_post.html", PageData{
			Page:    "new_post",
			User:    account,
			Flashes: h.popFlashes(w, r),
			Legend:  "New Blog",
		})
		return
	}

	title := r.FormValue("title")
	category := r.FormValue("category")
	content := r.FormValue("content")
	if title == "" || content == "" {
		h.render(w, "create_post.html", PageData{
			Page:   "new_post",
			User:   account,
			Error:  "Title and content are required",
			Legend: "New Blog",
		})
		return
	}

	if _, err := h.postService.Create(r.Context(), account.ID, title, category, content); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.addFlash(w, r, "Your post has been created!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *WebHandler) ShowPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, err := h.postService.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.renderError(w, r, http.StatusNotFound, "Post not found")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.render(w, "post.html", PageData{
		Page:    "post",
		User:    h.currentUser(r),
		Flashes: h.popFlashes(w, r),
		Post:    p,
	})
}

func (h *WebHandler) UpdatePost(w http.ResponseWriter, r *http.Request, account *models.User) {
	id := mux.Vars(r)["id"]
	p, err := h.postService.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.renderError(w, r, http.StatusNotFound, "Post not found")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if p.AuthorID != account.ID {
		h.renderError(w, r, http.StatusForbidden, "You are not the author of this post")
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, "create_post.html", PageData{
			Page:   "update_post",
			User:   account,
			Legend: "Update Post",
			Post:   p,
		})
		return
	}

	title := r.FormValue("title")
	category := r.FormValue("category")
	content := r.FormValue("content")
	if title == "" || content == "" {
		h.render(w, "create_post.html", PageData{
			Page:   "update_post",
			User:   account,
			Error:  "Title and content are required",
			Legend: "Update Post",
			Post:   p,
		})
		return
	}

	if _, err := h.postService.Update(r.Context(), account.ID, id, title, category, content); err != nil {
		if errors.Is(err, post.ErrForbidden) {
			h.renderError(w, r, http.StatusForbidden, "You are not the author of this post")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.addFlash(w, r, "Your post has been updated!")
	http.Redirect(w, r, "/post/"+id, http.StatusSeeOther)
}

func (h *WebHandler) DeletePost(w http.ResponseWriter, r *http.Request, account *models.User) {
	id := mux.Vars(r)["id"]
	if err := h.postService.Delete(r.Context(), account.ID, id); err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			h.renderError(w, r, http.StatusNotFound, "Post not found")
		case errors.Is(err, post.ErrForbidden):
			h.renderError(w, r, http.StatusForbidden, "You are not the author of this post")
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	h.addFlash(w, r, "Your post has been deleted!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *WebHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Page not found")
}
