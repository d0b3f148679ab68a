package web

import (
	"net/http"

	"pitchboard/internal/api"
	"pitchboard/internal/auth"
	"pitchboard/middleware"

	"github.com/gorilla/mux"
)

const uuidPattern = "[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}"

func (h *WebHandler) SetupRoutes(authHandlers *auth.AuthHandlers, postAPI *api.PostHandlers, mw *middleware.Middleware) *mux.Router {
	r := mux.NewRouter()

	// Web pages
	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/home", h.Home).Methods("GET")
	r.HandleFunc("/pickup", h.Pickup).Methods("GET")
	r.HandleFunc("/register", h.Register).Methods("GET", "POST")
	r.HandleFunc("/login", h.Login).Methods("GET", "POST")
	r.HandleFunc("/logout", h.Logout).Methods("GET")
	r.HandleFunc("/account", h.requireAuth(h.Account)).Methods("GET", "POST")
	r.HandleFunc("/post/new", h.requireAuth(h.NewPost)).Methods("GET", "POST")
	r.HandleFunc("/post/{id:"+uuidPattern+"}", h.ShowPost).Methods("GET")
	r.HandleFunc("/post/{id:"+uuidPattern+"}/update", h.requireAuth(h.UpdatePost)).Methods("GET", "POST")
	r.HandleFunc("/post/{id:"+uuidPattern+"}/delete", h.requireAuth(h.DeletePost)).Methods("POST")

	// JSON API
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(middleware.SetupCORS())
	apiRouter.HandleFunc("/auth/login", authHandlers.LoginHandler).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/auth/check", authHandlers.CheckAuthHandler).Methods("GET")
	apiRouter.HandleFunc("/posts", postAPI.GetAllPosts).Methods("GET")
	apiRouter.HandleFunc("/posts/{id:"+uuidPattern+"}", postAPI.GetPost).Methods("GET")
	apiRouter.HandleFunc("/posts", mw.AuthMiddleware(postAPI.CreatePost)).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/posts/{id:"+uuidPattern+"}", mw.AuthMiddleware(postAPI.UpdatePost)).Methods("PUT")
	apiRouter.HandleFunc("/posts/{id:"+uuidPattern+"}", mw.AuthMiddleware(postAPI.DeletePost)).Methods("DELETE")

	// Static files (css, avatars)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// 404 handler
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)

	return r
}
