// Package hosts classifies requests by their Host header so a single
// listener can serve the image CDN and the website.
package hosts

import (
	"net/http"
	"strings"
)

// Class is the virtual-routing bucket of a request.
type Class int

const (
	Default Class = iota
	Image
	Web
)

func (c Class) String() string {
	switch c {
	case Image:
		return "image"
	case Web:
		return "web"
	default:
		return "default"
	}
}

// Classifier maps a Host header value to a Class.
type Classifier func(host string) Class

// NewClassifier returns a Classifier matching host names case-insensitively
// against the given lists. Entries may include a port ("cdn.localhost:8080")
// or not ("cdn.example.com"); an entry without a port matches any port.
func NewClassifier(imageHosts, webHosts []string) Classifier {
	img := normalize(imageHosts)
	web := normalize(webHosts)
	return func(host string) Class {
		host = strings.ToLower(strings.TrimSpace(host))
		switch {
		case matches(img, host):
			return Image
		case matches(web, host):
			return Web
		default:
			return Default
		}
	}
}

func normalize(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, h := range list {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			set[h] = struct{}{}
		}
	}
	return set
}

func matches(set map[string]struct{}, host string) bool {
	if _, ok := set[host]; ok {
		return true
	}
	if i := strings.LastIndexByte(host, ':'); i > 0 && !strings.HasSuffix(host, "]") {
		_, ok := set[host[:i]]
		return ok
	}
	return false
}

// Switch dispatches each request to the handler registered for its class.
// Requests without a Host header get 400; classes without a handler fall
// through to Default.
type Switch struct {
	Classify Classifier
	Handlers map[Class]http.Handler

	// BadRequest handles requests without a Host header.
	BadRequest http.Handler
}

func (s *Switch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Host == "" {
		if s.BadRequest != nil {
			s.BadRequest.ServeHTTP(w, r)
			return
		}
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	h, ok := s.Handlers[s.Classify(r.Host)]
	if !ok {
		h, ok = s.Handlers[Default]
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.ServeHTTP(w, r)
}
