package http

import "net/http"

// defaultAdapter serves every function invocation in this process. The
// application behind it is built on the first request.
var defaultAdapter = NewAdapter(ApplicationFactory(nil))

// DefaultAdapter returns the process-wide adapter used by Handler.
func DefaultAdapter() *Adapter {
	return defaultAdapter
}

// Handler is the entry point for Vercel serverless functions.
func Handler(w http.ResponseWriter, r *http.Request) {
	defaultAdapter.ServeHTTP(w, r)
}
