package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type (
	// Reply is a canned upstream answer.
	Reply struct {
		Status int
		Body   string
	}

	// Request is what the upstream received.
	Request struct {
		Method string
		Path   string
		Query  string
		Token  string
		Body   string
	}

	// Upstream stands in for the remote EcoWaste backend.
	Upstream struct {
		*httptest.Server

		mu       sync.Mutex
		routes   map[string]Reply
		requests []Request
	}
)

func NewUpstream(t *testing.T) *Upstream {
	t.Helper()
	u := &Upstream{routes: make(map[string]Reply)}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Close)
	return u
}

// On registers the reply to `method path`. Later calls replace earlier ones.
func (u *Upstream) On(method, path string, status int, body string) *Upstream {
	u.mu.Lock()
	u.routes[method+" "+path] = Reply{Status: status, Body: body}
	u.mu.Unlock()
	return u
}

// Requests returns every request received, oldest first.
func (u *Upstream) Requests() []Request {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Request(nil), u.requests...)
}

// Last returns the latest request received, or a zero Request.
func (u *Upstream) Last() Request {
	reqs := u.Requests()
	if len(reqs) == 0 {
		return Request{}
	}
	return reqs[len(reqs)-1]
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	req := Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Token:  strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "),
		Body:   string(body),
	}

	u.mu.Lock()
	u.requests = append(u.requests, req)
	reply, ok := u.routes[r.Method+" "+r.URL.Path]
	u.mu.Unlock()

	if !ok {
		reply = Reply{Status: http.StatusNotFound, Body: `{"detail":"Not Found"}`}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	_, _ = io.WriteString(w, reply.Body)
}

// Steps encodes an orchestrator reply holding one step of agent, then the responsible AI review.
func Steps(t *testing.T, agent string, output interface{}) string {
	t.Helper()
	data, err := json.Marshal(map[string]interface{}{
		"task": "custom",
		"steps": []map[string]interface{}{
			{"agent": agent, "output": output},
			{"agent": "responsible_ai", "output": "Looks good."},
		},
	})
	if err != nil {
		t.Fatalf("Steps() failed: %v", err)
	}
	return string(data)
}
