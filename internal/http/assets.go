package httpapp

import (
	_ "embed"
	"net/http"
)

// Front-end assets for the login page. The credential API itself does not
// depend on any of this.

//go:embed static/login.html
var loginHTML []byte

//go:embed static/script.js
var scriptJS []byte

//go:embed static/style.css
var styleCSS []byte

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	switch r.URL.Path {
	case "/", "/login.html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(loginHTML)
	case "/script.js", "/static/script.js":
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Write(scriptJS)
	case "/style.css", "/static/style.css":
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Write(styleCSS)
	default:
		notFound(w)
	}
}
