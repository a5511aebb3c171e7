package core

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/taobot/taobot/constants"
)

// OperationDefinition defines a single operation exposed over HTTP and listed
// in the API documentation.
type OperationDefinition struct {
	ID          string                                                  // Unique identifier
	Name        string                                                  // Human-readable name
	Description string                                                  // Description for docs
	Group       string                                                  // Logical group (system, ...)
	HTTPMethod  string                                                  // HTTP method (GET, POST, etc.)
	HTTPPath    string                                                  // HTTP path pattern (/healthz)
	ContentType string                                                  // Response content type for docs; JSON when empty
	Handler     func(ctx context.Context, r *http.Request) (any, error) // Core implementation
	HTTPHandler func(w http.ResponseWriter, r *http.Request)            // Optional custom HTTP handler
	SkipHTTP    bool                                                    // Skip route generation
	SkipDocs    bool                                                    // Omit from the API document
}

var (
	registryMu        sync.RWMutex
	operationRegistry = make(map[string]*OperationDefinition)
)

// RegisterOperation registers an operation definition, replacing any
// existing definition with the same ID.
func RegisterOperation(op *OperationDefinition) {
	if op.HTTPMethod == "" {
		op.HTTPMethod = http.MethodGet
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	operationRegistry[op.ID] = op
}

// UnregisterOperation removes an operation by ID.
func UnregisterOperation(id string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(operationRegistry, id)
}

// GetOperation retrieves an operation by ID
func GetOperation(id string) (*OperationDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	op, exists := operationRegistry[id]
	return op, exists
}

// GetAllOperations returns all registered operations sorted by ID.
func GetAllOperations() []*OperationDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]*OperationDefinition, 0, len(operationRegistry))
	for _, op := range operationRegistry {
		result = append(result, op)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// GetOperationsByGroups returns operations filtered by the specified groups.
// An empty group list returns every operation.
func GetOperationsByGroups(groups []string) []*OperationDefinition {
	all := GetAllOperations()
	if len(groups) == 0 {
		return all
	}

	groupSet := make(map[string]bool)
	for _, group := range groups {
		if trimmed := strings.TrimSpace(group); trimmed != "" {
			groupSet[trimmed] = true
		}
	}
	if len(groupSet) == 0 {
		return all
	}

	var filtered []*OperationDefinition
	for _, op := range all {
		if groupSet[op.Group] {
			filtered = append(filtered, op)
		}
	}
	return filtered
}

// init registers the built-in system operations
func init() {
	// Root Greeting
	RegisterOperation(&OperationDefinition{
		ID:          "root",
		Name:        "Root Greeting",
		Description: "Simple greeting at the API root path",
		Group:       constants.GroupSystem,
		HTTPMethod:  http.MethodGet,
		HTTPPath:    "/",
		ContentType: constants.ContentTypeText,
		HTTPHandler: func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(constants.HeaderContentType, "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(constants.RootGreeting))
		},
	})

	// Health Check
	RegisterOperation(&OperationDefinition{
		ID:          "healthz",
		Name:        "Health Check",
		Description: "Reports that the service is up",
		Group:       constants.GroupSystem,
		HTTPMethod:  http.MethodGet,
		HTTPPath:    constants.DefaultHealthPath,
		Handler: func(ctx context.Context, r *http.Request) (any, error) {
			return map[string]string{"status": constants.ResponseHealthy}, nil
		},
	})
}
