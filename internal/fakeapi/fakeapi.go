// Package fakeapi is an in-process stand-in for the Infinite platform API,
// used by package tests. Routes answer with canned envelopes and every
// request is recorded.
package fakeapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
)

// Request is a recorded call.
type Request struct {
	Method      string
	Path        string // escaped path, as sent on the wire
	Query       url.Values
	Body        []byte
	ContentType string
}

// JSON decodes the request body into v.
func (r Request) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// HandlerFunc answers a request with a value that is written as JSON.
type HandlerFunc func(r Request) any

// Server is a fake platform API.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]HandlerFunc
	requests []Request
}

// New starts a fake server that is closed when the test ends.
func New(t testing.TB) *Server {
	s := &Server{
		routes: make(map[string]HandlerFunc),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle registers h for method and escaped path.
func (s *Server) Handle(method, path string, h HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = h
}

// Reply registers a static response for method and escaped path.
func (s *Server) Reply(method, path string, body any) {
	s.Handle(method, path, func(Request) any { return body })
}

// Requests returns a copy of every recorded request.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns the number of recorded requests.
func (s *Server) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Last returns the most recent request.
func (s *Server) Last() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

// Config returns a client config pointing at the fake server.
func (s *Server) Config() *infinite.Config {
	cfg := infinite.DefaultConfig()
	cfg.BaseURL = s.URL
	return cfg
}

// Client returns a client for the fake server.
func (s *Server) Client(t testing.TB) *infinite.Client {
	t.Helper()
	c, err := infinite.NewClient(s.Config(), infinite.WithLogger(hclog.NewNullLogger()))
	if err != nil {
		t.Fatalf("error creating client: %v", err)
	}
	return c
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	req := Request{
		Method:      r.Method,
		Path:        r.URL.EscapedPath(),
		Query:       r.URL.Query(),
		Body:        body,
		ContentType: r.Header.Get("Content-Type"),
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	h, ok := s.routes[req.Method+" "+req.Path]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(Fail("no route for " + req.Method + " " + req.Path))
		return
	}

	_ = json.NewEncoder(w).Encode(h(req))
}

// ===================================================================
// Envelope builders
// ===================================================================

// OK is a successful envelope carrying data.
func OK(data any) map[string]any {
	return map[string]any{
		"data":     data,
		"response": response(true, "ok"),
	}
}

// OKMessage is a successful envelope with data and a specific message.
func OKMessage(data any, message string) map[string]any {
	return map[string]any{
		"data":     data,
		"response": response(true, message),
	}
}

// NoData is a successful envelope without a data key.
func NoData(message string) map[string]any {
	return map[string]any{
		"response": response(true, message),
	}
}

// Fail is an envelope with success == false.
func Fail(message string) map[string]any {
	return map[string]any{
		"response": response(false, message),
	}
}

func response(success bool, message string) map[string]any {
	return map[string]any{
		"success": success,
		"message": message,
		"action":  "test",
		"time":    1,
	}
}
