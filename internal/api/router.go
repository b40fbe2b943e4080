package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret, publicDomain string) http.Handler {
	mux := http.NewServeMux()

	statusHandler := &StatusHandler{DB: db, PublicDomain: publicDomain}
	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)

	// Public: health, config, signup, login.
	mux.HandleFunc("GET /api/health", statusHandler.Health)
	mux.HandleFunc("GET /api/config", statusHandler.Config)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated account routes.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Items, scoped to the authenticated user.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("PATCH /api/items/{id}/toggle", authMW(http.HandlerFunc(itemsHandler.Toggle)))
	mux.Handle("PATCH /api/items/{id}/move", authMW(http.HandlerFunc(itemsHandler.Move)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))

	return mux
}
