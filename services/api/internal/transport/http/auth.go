package http

import "net/http"

// userIDHeader carries the opaque caller identity. Session management is
// handled upstream; the API only needs the id.
const userIDHeader = "X-User-ID"

func callerID(r *http.Request) string {
	return r.Header.Get(userIDHeader)
}

// RequireAdmin gates a handler on the caller being a configured admin.
func RequireAdmin(adminIDs map[string]struct{}, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := callerID(r)
		if id == "" {
			writeError(w, http.StatusUnauthorized, codeUserRequired, "missing "+userIDHeader+" header")
			return
		}
		if _, ok := adminIDs[id]; !ok {
			writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}
