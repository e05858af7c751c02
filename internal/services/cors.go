package services

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// CORS wraps handlers so browsers on the allowed origins can call them.
type CORS struct {
	cors *cors.Cors
}

// NewCORS parses a comma-separated origin list. "*" allows any origin.
func NewCORS(origins string) *CORS {
	var allowed []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	return &CORS{cors: cors.New(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})}
}

// Wrap answers preflight requests and sets the allow headers for known origins.
func (c *CORS) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return c.cors.Handler(next).ServeHTTP
}
