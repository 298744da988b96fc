package controllers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-desk-api/middleware"
)

// Request is the transport-neutral view of an API call
type Request struct {
	Method    string
	Query     map[string]string
	Body      string
	RequestID string
}

// Param returns query parameter name, or fallback when it is absent or empty
func (r Request) Param(name, fallback string) string {
	if v := r.Query[name]; v != "" {
		return v
	}
	return fallback
}

// Response is what a handler answers with
type Response struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

// EnvelopeHandler handles one request envelope
type EnvelopeHandler func(ctx context.Context, req Request) Response

// Adapt serves an EnvelopeHandler through gin
func Adapt(handler EnvelopeHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}

		query := make(map[string]string)
		for key, values := range c.Request.URL.Query() {
			if len(values) > 0 {
				query[key] = values[0]
			}
		}

		req := Request{
			Method:    c.Request.Method,
			Query:     query,
			Body:      string(body),
			RequestID: middleware.GetRequestID(c),
		}
		resp := handler(c.Request.Context(), req)

		if resp.StatusCode >= http.StatusInternalServerError {
			log.Printf("[%s] %s %s failed with %d: %s", req.RequestID, req.Method, c.Request.URL.Path, resp.StatusCode, resp.Body)
		}

		payload := []byte(resp.Body)
		if resp.IsBase64Encoded {
			if payload, err = base64.StdEncoding.DecodeString(resp.Body); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid base64 response body"})
				return
			}
		}

		for key, value := range resp.Headers {
			c.Header(key, value)
		}
		c.Status(resp.StatusCode)
		if len(payload) > 0 {
			if _, err := c.Writer.Write(payload); err != nil {
				log.Printf("[%s] failed to write response: %v", req.RequestID, err)
			}
		}
	}
}

// baseHeaders are carried by every response
func baseHeaders() map[string]string {
	return map[string]string{"Access-Control-Allow-Origin": "*"}
}

// JSON builds a JSON response. Non-ASCII text is written as is.
func JSON(status int, v interface{}) Response {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
		return ErrorJSON(http.StatusInternalServerError, err.Error())
	}

	headers := baseHeaders()
	headers["Content-Type"] = "application/json"
	return Response{
		StatusCode: status,
		Headers:    headers,
		Body:       string(bytes.TrimRight(buf.Bytes(), "\n")),
	}
}

// ErrorJSON builds an {"error": message} response
func ErrorJSON(status int, message string) Response {
	body, _ := json.Marshal(map[string]string{"error": message})
	headers := baseHeaders()
	headers["Content-Type"] = "application/json"
	return Response{StatusCode: status, Headers: headers, Body: string(body)}
}

// Options answers a preflight with the allowed methods
func Options(methods string) Response {
	headers := baseHeaders()
	headers["Access-Control-Allow-Methods"] = methods
	headers["Access-Control-Allow-Headers"] = "Content-Type"
	return Response{StatusCode: http.StatusOK, Headers: headers}
}

// MethodNotAllowed answers a method the handler does not serve
func MethodNotAllowed() Response {
	return ErrorJSON(http.StatusMethodNotAllowed, "Method not allowed")
}

// Unavailable answers preflights normally and every other request with err
func Unavailable(err error) EnvelopeHandler {
	return func(_ context.Context, req Request) Response {
		if req.Method == http.MethodOptions {
			return Options("GET, POST, PUT, DELETE, OPTIONS")
		}
		return ErrorJSON(http.StatusInternalServerError, err.Error())
	}
}
