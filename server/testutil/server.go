package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/habit/server"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Server is an httptest server running a server.Server's full handler chain.
type Server struct {
	*httptest.Server
}

// NewServer serves srv until t finishes.
func NewServer(t testing.TB, srv *server.Server) *Server {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &Server{Server: ts}
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the body into v.
func (r *Response) Decode(t testing.TB, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("decode %q: %v", r.Body, err)
	}
}

// ErrorCode returns error.code of an error envelope, or "".
func (r *Response) ErrorCode(t testing.TB) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	r.Decode(t, &env)
	return env.Error.Code
}

// Do sends body as JSON (nil sends no body) with an optional bearer token.
func (s *Server) Do(t testing.TB, method, path string, body any, token string) *Response {
	t.Helper()
	var reader io.Reader = http.NoBody
	contentType := ""
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return s.send(t, method, path, reader, contentType, token)
}

// PostForm sends form as an urlencoded POST body.
func (s *Server) PostForm(t testing.TB, path string, form url.Values) *Response {
	t.Helper()
	return s.send(t, http.MethodPost, path, strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded", "")
}

func (s *Server) send(t testing.TB, method, path string, body io.Reader, contentType, token string) *Response {
	t.Helper()
	req, err := http.NewRequest(method, s.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: raw}
}
