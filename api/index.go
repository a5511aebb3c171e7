package handler

import (
	"net/http"

	taohttp "github.com/taobot/taobot/http"
)

// Handler is the entry point for Vercel serverless functions. Every path is
// rewritten to this function; the adapter routes it in process.
func Handler(w http.ResponseWriter, r *http.Request) {
	taohttp.Handler(w, r)
}
