// Package gatewaytest provides a scriptable HTTP stand-in for one Orbital
// endpoint. Each instance serves a scripted sequence of responses and
// records every request body it receives, so transport failover and
// end-to-end request construction can be tested over real HTTP.
package gatewaytest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Response is one scripted reply.
type Response struct {
	Status int
	Body   string
}

// Gateway is a single scripted endpoint.
type Gateway struct {
	srv *httptest.Server

	mu       sync.Mutex
	script   []Response
	calls    int
	requests [][]byte
	headers  []http.Header
}

// New starts a gateway that replies with the scripted responses in order,
// repeating the last one once the script runs out. With no script it
// replies 200 with an empty body.
func New(script ...Response) *Gateway {
	g := &Gateway{script: script}
	r := chi.NewRouter()
	r.Post("/authorize", g.handle)
	g.srv = httptest.NewServer(r)
	return g
}

func (g *Gateway) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	g.mu.Lock()
	g.requests = append(g.requests, body)
	g.headers = append(g.headers, r.Header.Clone())
	idx := g.calls
	g.calls++
	if idx >= len(g.script) {
		idx = len(g.script) - 1
	}
	var resp Response
	if idx >= 0 {
		resp = g.script[idx]
	}
	g.mu.Unlock()

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	w.Write([]byte(resp.Body))
}

// URL is the endpoint address to hand to the client under test.
func (g *Gateway) URL() string {
	return g.srv.URL + "/authorize"
}

// Calls reports how many requests the gateway has served.
func (g *Gateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// Requests returns the recorded request bodies in arrival order.
func (g *Gateway) Requests() [][]byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([][]byte, len(g.requests))
	copy(out, g.requests)
	return out
}

// Headers returns the recorded request headers in arrival order.
func (g *Gateway) Headers() []http.Header {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]http.Header, len(g.headers))
	copy(out, g.headers)
	return out
}

// Close shuts the server down.
func (g *Gateway) Close() {
	g.srv.Close()
}

// Approval is a canned approval response body in the gateway's wire shape.
func Approval(fields map[string]string) string {
	body := "<Response><NewOrderResp>"
	for k, v := range fields {
		body += "<" + k + ">" + v + "</" + k + ">"
	}
	body += "</NewOrderResp></Response>"
	return body
}
