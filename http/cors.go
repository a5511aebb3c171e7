package http

import (
	"net/http"
	"strings"

	"github.com/rs/cors"

	"github.com/taobot/taobot/config"
	"github.com/taobot/taobot/constants"
)

// CORS reflects any request origin as allowed and, unless turned off in cfg,
// permits credentialed requests. Preflight requests are answered directly
// with 204.
func CORS(cfg config.CORSConfig, next http.Handler) http.Handler {
	if cfg.Disabled {
		return next
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowOriginFunc:      func(string) bool { return true },
		AllowCredentials:     cfg.Credentials(),
		AllowedMethods:       strings.Split(constants.CORSAllowedMethods, ","),
		AllowedHeaders:       allowedHeaders,
		ExposedHeaders:       cfg.ExposedHeaders,
		OptionsSuccessStatus: http.StatusNoContent,
	}).Handler(next)
}
