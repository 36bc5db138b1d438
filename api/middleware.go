package api

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// TokenMiddleware checks the X-Auth-Token header, a bcrypt hash of the configured token, on every
// request that isn't for a public URL or a CORS preflight
func TokenMiddleware(psk []byte, public map[string]string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := public[r.URL.Path]; ok {
			log.Debugf("not authenticating for public url %s", r.URL.Path)
			h.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodOptions {
			h.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("X-Auth-Token")
		if header == "" {
			log.Warnf("missing auth token for %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusForbidden)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(header), psk); err != nil {
			log.Warnf("bad auth token for %s %s: %s", r.Method, r.URL.Path, err)
			w.WriteHeader(http.StatusForbidden)
			return
		}

		h.ServeHTTP(w, r)
	})
}
