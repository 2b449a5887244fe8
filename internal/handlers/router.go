package handlers

import (
	"net/http"
)

type Middleware = func(next http.Handler) http.Handler

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...Middleware) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(auth *AuthHandler, authMiddleware Middleware, mds ...Middleware) http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("POST /register", auth.register)
	api.HandleFunc("POST /login", auth.login)
	api.HandleFunc("POST /refresh", auth.refresh)
	api.Handle("GET /me", authMiddleware(http.HandlerFunc(auth.me)))

	root := http.NewServeMux()
	root.Handle("/api/auth/", http.StripPrefix("/api/auth", api))

	return chain(root, mds...)
}
