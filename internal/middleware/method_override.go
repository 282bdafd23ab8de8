package middleware

import (
	"net/http"
	"strings"
)

// MethodOverride lets HTML forms, which can only POST, reach DELETE and PUT
// routes through a "_method" field. It must wrap the router because gin
// picks the route before its own middleware runs.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			switch m := strings.ToUpper(r.PostFormValue("_method")); m {
			case http.MethodDelete, http.MethodPut, http.MethodPatch:
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}
