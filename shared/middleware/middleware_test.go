package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/bank/shared/errs"
	"github.com/ledgerline/bank/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, w.Body.String())
	}
	msg, _ := body["message"].(string)
	return msg
}

func TestRespondWithDomainError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{"validation", errs.Invalid("type", "is required"), http.StatusBadRequest, "type: is required"},
		{"insufficient balance", &errs.InsufficientBalanceError{Opening: 100, Amount: -150, Closing: -50}, http.StatusUnprocessableEntity, "insufficient balance: opening 100, amount -150, closing -50"},
		{"not found", &errs.NotFoundError{Entity: errs.EntityAccount, ID: 9}, http.StatusNotFound, "account not found with id: 9"},
		{"wrapped not found", fmt.Errorf("update: %w", &errs.NotFoundError{Entity: errs.EntityLedgerEntry, ID: 3}), http.StatusNotFound, "update: ledger entry not found with id: 3"},
		{"conflict", &errs.ConflictError{Entity: errs.EntityClient, ID: 1, Reason: "client still owns accounts"}, http.StatusConflict, "client 1: client still owns accounts"},
		{"unauthorized", fmt.Errorf("login 1701: %w", errs.ErrUnauthorized), http.StatusUnauthorized, "Invalid credentials"},
		{"upstream hides cause", &errs.UpstreamError{Entity: errs.EntityAccount, ID: 2, Cause: errors.New("dial tcp: refused")}, http.StatusBadGateway, "Unable to reach the account service"},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) { RespondWithDomainError(c, tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if got := decodeMessage(t, w); got != tt.expectedMessage {
				t.Errorf("expected message %q, got %q", tt.expectedMessage, got)
			}
		})
	}
}

func TestRespondWithDomainErrorLeavesUpstreamLoggingToLookup(t *testing.T) {
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})

	r := gin.New()
	r.GET("/upstream", func(c *gin.Context) {
		RespondWithDomainError(c, &errs.UpstreamError{Entity: errs.EntityAccount, ID: 2, Cause: errors.New("dial tcp: refused")})
	})
	r.GET("/unexpected", func(c *gin.Context) { RespondWithDomainError(c, errors.New("disk on fire")) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/upstream", nil))
	if buf.Len() != 0 {
		t.Errorf("expected no log line for an upstream error, got %q", buf.String())
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/unexpected", nil))
	if !bytes.Contains(buf.Bytes(), []byte("ERROR unhandled error")) {
		t.Errorf("expected unexpected errors to be logged, got %q", buf.String())
	}
}

func TestParseIDParamAndNoRoute(t *testing.T) {
	r := gin.New()
	r.NoRoute(NoRoute())
	r.GET("/items/:id", func(c *gin.Context) {
		id, ok := ParseIDParam(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	tests := []struct {
		name            string
		path            string
		expectedStatus  int
		expectedMessage string
	}{
		{"numeric", "/items/42", http.StatusOK, ""},
		{"not a number", "/items/abc", http.StatusBadRequest, "Parameter 'id' must be a number"},
		{"unknown route", "/nowhere", http.StatusNotFound, "Route not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if got := decodeMessage(t, w); got != tt.expectedMessage {
				t.Errorf("expected message %q, got %q", tt.expectedMessage, got)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	secret := []byte("test-secret")
	valid, err := IssueToken(secret, 7, "1723456789", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	expired, err := IssueToken(secret, 7, "1723456789", -time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	foreign, err := IssueToken([]byte("other-secret"), 7, "1723456789", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	tests := []struct {
		name           string
		secret         []byte
		header         string
		expectedStatus int
	}{
		{"valid token", secret, "Bearer " + valid, http.StatusOK},
		{"missing header", secret, "", http.StatusUnauthorized},
		{"wrong scheme", secret, "Basic " + valid, http.StatusUnauthorized},
		{"expired token", secret, "Bearer " + expired, http.StatusUnauthorized},
		{"wrong signature", secret, "Bearer " + foreign, http.StatusUnauthorized},
		{"auth disabled", nil, "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", AuthMiddleware(tt.secret), func(c *gin.Context) {
				id, _ := GetClientID(c)
				c.JSON(http.StatusOK, gin.H{"clientId": id})
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestParseTokenReturnsClaims(t *testing.T) {
	secret := []byte("test-secret")
	token, err := IssueToken(secret, 12, "0102030405", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.ClientID != 12 || claims.Identification != "0102030405" {
		t.Errorf("unexpected claims %+v", claims)
	}
	if _, err := IssueToken(nil, 1, "x", time.Hour); err == nil {
		t.Errorf("expected error without a secret")
	}
}

func TestLoggingMiddlewareRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggingMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, logger.RequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "inbound-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "inbound-id" {
		t.Errorf("expected inbound request id to be echoed, got %q", got)
	}
	if w.Body.String() != "inbound-id" {
		t.Errorf("expected request id in context, got %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get(RequestIDHeader) == "" {
		t.Errorf("expected a generated request id")
	}
}

func TestValidateRequest(t *testing.T) {
	type request struct {
		Date   string `json:"date" validate:"required,datetime=2006-01-02"`
		Type   string `json:"type" validate:"required"`
		Amount int64  `json:"amount" validate:"ne=0"`
	}

	if errs := ValidateRequest(request{Date: "2024-03-01", Type: "deposit", Amount: 5}); errs != nil {
		t.Fatalf("expected no errors, got %+v", errs)
	}

	got := ValidateRequest(request{Date: "01/03/2024"})
	if len(got) != 3 {
		t.Fatalf("expected 3 errors, got %+v", got)
	}
	byField := map[string]ValidationError{}
	for _, e := range got {
		byField[e.Field] = e
	}
	if byField["date"].Type != "datetime" {
		t.Errorf("expected datetime error on date, got %+v", byField["date"])
	}
	if byField["type"].Message != "This field is required" {
		t.Errorf("unexpected message for type: %+v", byField["type"])
	}
	if byField["amount"].Message != "Value must not be 0" {
		t.Errorf("unexpected message for amount: %+v", byField["amount"])
	}
}
