package webd

import (
	"io"
	"net/http"

	ghandlers "github.com/gorilla/handlers"
)

// tokenAuthenticationMiddleware checks for the configured token in the AuthorizationOfCats header,
// or the api_token query param. If no token is configured, it allows all requests.
func (s *WebDaemon) tokenAuthenticationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Config.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		token := r.Header.Get("AuthorizationOfCats")
		if token == "" {
			token = r.URL.Query().Get("api_token")
		}
		if token != s.Config.Token {
			s.logger.Warn("Invalid token", "method", r.Method, "url", r.URL.Path,
				"remote", r.RemoteAddr, "user-agent", r.UserAgent())
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func permissiveCorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Add("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization, AuthorizationOfCats")
		next.ServeHTTP(w, r)
	})
}

func contentTypeMiddlewareFunc(contentType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", contentType)
			next.ServeHTTP(w, r)
		})
	}
}

func recoveryMiddleware(next http.Handler) http.Handler {
	return ghandlers.RecoveryHandler(ghandlers.PrintRecoveryStack(true))(next)
}

// loggingMiddleware logs one line per request, after the response is written.
func (s *WebDaemon) loggingMiddleware(next http.Handler) http.Handler {
	return ghandlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, p ghandlers.LogFormatterParams) {
		remote := p.Request.RemoteAddr
		for _, v := range p.Request.Header.Values("X-Forwarded-For") {
			remote += "->" + v
		}
		s.logger.Info("HTTP",
			"method", p.Request.Method,
			"uri", p.URL.RequestURI(),
			"status", p.StatusCode,
			"size", p.Size,
			"remote", remote)
	})
}
