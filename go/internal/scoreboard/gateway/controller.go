package gateway

import (
	"embed"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed static/index.html
var staticFiles embed.FS

// ControllerHandler serves the browser controller page at "/".
func ControllerHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		page, err := staticFiles.ReadFile("static/index.html")
		if err != nil {
			log.Error().Err(err).Msg("controller page missing from binary")
			http.Error(w, "controller page unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})
}
