package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMaxAge is how long browsers may cache a preflight answer
const CORSMaxAge = 24 * time.Hour

// CORS answers browser preflights for the API. Preflights get 200 rather
// than 204 because the frontend treats any non-200 OPTIONS as a failure.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:              []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:              []string{"Content-Type", RequestIDHeader},
		ExposeHeaders:             []string{RequestIDHeader},
		MaxAge:                    CORSMaxAge,
		OptionsResponseStatusCode: http.StatusOK,
	}

	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}

	return cors.New(cfg)
}
