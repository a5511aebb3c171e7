package core

import (
	"net/http"

	"github.com/taobot/taobot/utils"
)

// GenerateHTTPHandlers registers a route on mux for every operation in ops.
func GenerateHTTPHandlers(mux *http.ServeMux, ops []*OperationDefinition) {
	for _, op := range ops {
		if op.SkipHTTP {
			continue
		}
		mux.HandleFunc(RoutePattern(op), generateHTTPHandler(op))
	}
}

// RoutePattern returns the ServeMux pattern for op. The root path matches
// only "/" itself rather than acting as a catch-all.
func RoutePattern(op *OperationDefinition) string {
	path := op.HTTPPath
	if path == "/" {
		path = "/{$}"
	}
	return op.HTTPMethod + " " + path
}

// generateHTTPHandler creates the HTTP handler for a single operation
func generateHTTPHandler(op *OperationDefinition) http.HandlerFunc {
	if op.HTTPHandler != nil {
		return op.HTTPHandler
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if op.Handler == nil {
			utils.WriteHTTPError(w, "operation has no handler", http.StatusNotImplemented)
			return
		}
		result, err := op.Handler(r.Context(), r)
		if err != nil {
			utils.ErrorCtx(r.Context(), "operation failed", "operation", op.ID, "error", err)
			utils.WriteHTTPError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = utils.WriteHTTPJSON(w, http.StatusOK, result)
	}
}
