package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newUsersRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(NewService(NewMemoryRepo()))
	handler.RegisterRoutes(router.Group(""))
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRegisterEndpoint(t *testing.T) {
	router := newUsersRouter()

	resp := postJSON(t, router, "/register", gin.H{
		"email":    "ansh@example.com",
		"password": "s3cret",
		"name":     "Ansh",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["message"] != "Registered Successfully" {
		t.Fatalf("unexpected message %q", body["message"])
	}
}

func TestRegisterEndpointMissingFields(t *testing.T) {
	router := newUsersRouter()

	resp := postJSON(t, router, "/register", gin.H{"email": "ansh@example.com"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestLoginEndpoint(t *testing.T) {
	router := newUsersRouter()

	resp := postJSON(t, router, "/register", gin.H{
		"email":    "ansh@example.com",
		"password": "s3cret",
		"name":     "Ansh",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.Code)
	}

	resp = postJSON(t, router, "/login", gin.H{
		"email":    "ansh@example.com",
		"password": "s3cret",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["token"] == "" {
		t.Fatalf("expected a token in the response")
	}
	if body["name"] != "Ansh" {
		t.Fatalf("expected name Ansh, got %q", body["name"])
	}
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	router := newUsersRouter()

	resp := postJSON(t, router, "/register", gin.H{
		"email":    "ansh@example.com",
		"password": "s3cret",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.Code)
	}

	resp = postJSON(t, router, "/login", gin.H{
		"email":    "ansh@example.com",
		"password": "wrong",
	})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}
