package bzapitest

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
)

// RecordedRequest is one request seen by Server.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// Server is a fake API server rooted at /latest. Responses are keyed like Doer's.
type Server struct {
	*httptest.Server
	Responses map[string]string

	lock     sync.Mutex
	requests []RecordedRequest
}

func NewServer(responses map[string]string) *Server {
	s := &Server{Responses: responses}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// APIServer is the value to use for the api_server setting.
func (s *Server) APIServer() string {
	return s.URL + "/latest"
}

// Requests returns a copy of the requests received so far.
func (s *Server) Requests() []RecordedRequest {
	s.lock.Lock()
	defer s.lock.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := ioutil.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, "/latest")
	s.lock.Lock()
	s.requests = append(s.requests, RecordedRequest{Method: r.Method, Path: path, Query: r.URL.Query(), Body: body})
	s.lock.Unlock()

	w.Header().Set("Content-Type", "application/json")
	resp, ok := s.Responses[r.Method+" "+path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": 1, "message": "not found"}`))
		return
	}
	if r.Method == http.MethodPost {
		w.WriteHeader(http.StatusCreated)
	}
	w.Write([]byte(resp))
}
