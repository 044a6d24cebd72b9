// Package proxy forwards gateway requests to the backing services.
package proxy

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/bank/shared/logger"
	"github.com/ledgerline/bank/shared/middleware"
)

// ClientIDHeader carries the authenticated client to the backend.
const ClientIDHeader = "X-Client-ID"

// hop-by-hop headers are never forwarded
var hopHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Te":                  true,
	"Trailer":             true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
	"Content-Length":      true,
}

// To returns a handler that replays the request against serviceURL with the
// same path and query and copies the backend's answer back verbatim.
func To(client *http.Client, serviceURL string) gin.HandlerFunc {
	serviceURL = strings.TrimSuffix(serviceURL, "/")
	return func(c *gin.Context) {
		targetURL := serviceURL + c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			targetURL += "?" + c.Request.URL.RawQuery
		}

		var bodyBytes []byte
		if c.Request.Body != nil {
			var err error
			if bodyBytes, err = io.ReadAll(c.Request.Body); err != nil {
				middleware.RespondWithError(c, http.StatusBadRequest, "Failed to read request body")
				return
			}
		}

		ctx := c.Request.Context()
		req, err := http.NewRequestWithContext(ctx, c.Request.Method, targetURL, bytes.NewReader(bodyBytes))
		if err != nil {
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create request")
			return
		}

		copyHeaders(req.Header, c.Request.Header)
		// never trust a client-supplied identity header
		req.Header.Del(ClientIDHeader)
		if clientID, ok := middleware.GetClientID(c); ok {
			req.Header.Set(ClientIDHeader, strconv.FormatInt(clientID, 10))
		}
		if requestID := logger.RequestID(ctx); requestID != "" {
			req.Header.Set(middleware.RequestIDHeader, requestID)
		}

		resp, err := client.Do(req)
		if err != nil {
			logger.Error("proxy request failed", err, logger.Fields{
				"requestId": logger.RequestID(ctx),
				"target":    targetURL,
			})
			middleware.RespondWithError(c, http.StatusBadGateway, "Service unavailable")
			return
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			middleware.RespondWithError(c, http.StatusBadGateway, "Failed to read response")
			return
		}

		for key, values := range resp.Header {
			if hopHeaders[http.CanonicalHeaderKey(key)] {
				continue
			}
			// the gateway already set its own request id
			if http.CanonicalHeaderKey(key) == middleware.RequestIDHeader {
				continue
			}
			for _, value := range values {
				c.Writer.Header().Add(key, value)
			}
		}

		if len(respBody) == 0 {
			c.Status(resp.StatusCode)
			return
		}
		c.Data(resp.StatusCode, resp.Header.Get("Content-Type"), respBody)
	}
}

func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		if hopHeaders[http.CanonicalHeaderKey(key)] {
			continue
		}
		for _, value := range values {
			dst.Add(key, value)
		}
	}
}
