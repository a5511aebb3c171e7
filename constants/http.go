package constants

// Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeText = "text/plain"
)

// HTTP Headers
const (
	HeaderContentType = "Content-Type"
	HeaderRequestID   = "X-Request-ID"
)

// CORS Defaults
const (
	CORSAllowedMethods = "GET,HEAD,PUT,PATCH,POST,DELETE"
)

// Default Values
const (
	DefaultURL        = "/"
	DefaultHealthPath = "/healthz"
	DefaultMetrics    = "/metrics"
	RootGreeting      = "Tao Bot API"
)
