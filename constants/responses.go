package constants

// HTTP Response Messages
const (
	ResponseInternalServerError = "Internal Server Error"
	ResponseUnknownError        = "Unknown error"
	ResponseHealthy             = "healthy"
)

// Error Messages for Logging
const (
	LogHandlerError      = "Handler error"
	LogFailedEncodeJSON  = "Failed to encode JSON response"
	LogWriteFailed       = "w.Write failed: %v"
	LogServerRunning     = "Server running on port %d"
	LogServerStopped     = "Server stopped"
	LogAppInitialized    = "Application initialized"
	LogAppInitFailed     = "Application initialization failed"
	LogTracingInitFailed = "Failed to initialize tracing exporter %q: %v"
)
