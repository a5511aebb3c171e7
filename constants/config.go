package constants

// Configuration Files
const (
	ConfigFileName   = "taobot.config.json"
	ConfigSchemaFile = "taobot.schema.json"
)

// Environment Variables
const (
	EnvDebug            = "TAOBOT_DEBUG"
	EnvLogLevel         = "TAOBOT_LOG_LEVEL"
	EnvEndpoints        = "TAOBOT_ENDPOINTS"
	EnvTracingExporter  = "TAOBOT_TRACING_EXPORTER"
	EnvOTLPEndpoint     = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvPort             = "PORT"
	EnvHost             = "HOST"
	EnvLambdaFunctionID = "AWS_LAMBDA_FUNCTION_NAME"
)

// Service Defaults
const (
	DefaultServiceName = "taobot"
	DefaultAPITitle    = "Tao Bot API"
	DefaultAPIVersion  = "1.0"
	DefaultPort        = 3000
	DefaultDocsPath    = "api/docs"
	DefaultJSONPath    = "api/json"
	DefaultLogLevel    = "warn"
)

// Tracing Exporters
const (
	TracingExporterNone   = "none"
	TracingExporterStdout = "stdout"
	TracingExporterOTLP   = "otlp"
	DefaultOTLPEndpoint   = "localhost:4318"
)

// Operation Groups
const (
	GroupSystem = "system"
)
