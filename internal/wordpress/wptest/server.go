// Package wptest provides an in-process WPGraphQL double for tests.
package wptest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// Post is a post as stored by the fake backend.
type Post struct {
	DatabaseID int
	Title      string
	Slug       string
	Content    string
	Excerpt    string
	Date       string // "2006-01-02T15:04:05"
	Status     string // "publish" or "draft", empty means publish

	// Revision is returned as the latest revision when set.
	RevisionTitle   string
	RevisionContent string
}

func (p Post) published() bool {
	return p.Status == "" || p.Status == "publish"
}

// Request is a decoded GraphQL request seen by the server.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	Authorization string         `json:"-"`
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	posts    []Post
	requests []Request
	failWith int
	delay    time.Duration
}

// NewServer starts a fake WPGraphQL endpoint, closed when the test ends.
func NewServer(t testing.TB, posts ...Post) *Server {
	t.Helper()
	s := &Server{posts: posts}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// APIURL is the GraphQL endpoint, as configured in WORDPRESS_API_URL.
func (s *Server) APIURL() string {
	return s.URL + "/graphql"
}

// Fail makes every following request fail. A 200 status answers with a
// GraphQL error, anything else with a bare HTTP error. 0 restores normal operation.
func (s *Server) Fail(status int) {
	s.mu.Lock()
	s.failWith = status
	s.mu.Unlock()
}

// SetDelay holds every following response for d. 0 answers immediately.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	s.delay = d
	s.mu.Unlock()
}

func (s *Server) SetPosts(posts ...Post) {
	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// CountQueries returns how many requests ran the named operation.
func (s *Server) CountQueries(operation string) int {
	n := 0
	for _, req := range s.Requests() {
		if strings.Contains(req.Query, "query "+operation) {
			n++
		}
	}
	return n
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/graphql" {
		http.NotFound(w, r)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	req.Authorization = r.Header.Get("Authorization")

	s.mu.Lock()
	s.requests = append(s.requests, req)
	failWith := s.failWith
	delay := s.delay
	posts := slices.Clone(s.posts)
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	switch {
	case failWith == http.StatusOK:
		writeJSON(w, map[string]any{"errors": []map[string]any{{"message": "internal server error"}}})
		return
	case failWith != 0:
		http.Error(w, "backend down", failWith)
		return
	}

	authorized := req.Authorization != ""
	var data map[string]any
	switch {
	case strings.Contains(req.Query, "query AllPostsWithSlug"):
		data = map[string]any{"posts": connection(recent(posts, false, 10000), func(p Post) map[string]any {
			return map[string]any{"slug": p.Slug}
		})}
	case strings.Contains(req.Query, "query AllPostsForHome"):
		drafts := authorized && slices.Contains(stringSlice(req.Variables["stati"]), "DRAFT")
		data = map[string]any{"posts": connection(recent(posts, drafts, 20), summary)}
	case strings.Contains(req.Query, "query PreviewPost"):
		p, ok := find(posts, req.Variables, authorized)
		if !ok {
			data = map[string]any{"post": nil}
			break
		}
		data = map[string]any{"post": map[string]any{"databaseId": p.DatabaseID, "slug": p.Slug, "status": statusOf(p)}}
	case strings.Contains(req.Query, "query PostBySlug"):
		data = map[string]any{
			"post":  nil,
			"posts": connection(recent(posts, false, 3), summary),
		}
		p, ok := find(posts, req.Variables, authorized)
		if ok {
			post := map[string]any{
				"databaseId": p.DatabaseID,
				"title":      p.Title,
				"content":    p.Content,
				"slug":       p.Slug,
				"status":     statusOf(p),
			}
			if strings.Contains(req.Query, "revisions") {
				var edges []map[string]any
				if authorized && p.RevisionTitle != "" {
					edges = append(edges, map[string]any{"node": map[string]any{"title": p.RevisionTitle, "content": p.RevisionContent}})
				}
				post["revisions"] = map[string]any{"edges": edges}
			}
			data["post"] = post
		}
	default:
		writeJSON(w, map[string]any{"errors": []map[string]any{{"message": "unknown query"}}})
		return
	}

	writeJSON(w, map[string]any{"data": data})
}

// find resolves id/idType. Drafts are only visible to authorized requests
// and have no slug until published.
func find(posts []Post, vars map[string]any, authorized bool) (Post, bool) {
	id, _ := vars["id"].(string)
	idType, _ := vars["idType"].(string)
	for _, p := range posts {
		if !p.published() && !authorized {
			continue
		}
		switch idType {
		case "DATABASE_ID":
			if strconv.Itoa(p.DatabaseID) == id {
				return p, true
			}
		default:
			if p.published() && p.Slug == id {
				return p, true
			}
		}
	}
	return Post{}, false
}

func recent(posts []Post, drafts bool, limit int) []Post {
	var out []Post
	for _, p := range posts {
		if p.published() || drafts {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b Post) int {
		return strings.Compare(b.Date, a.Date)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func summary(p Post) map[string]any {
	return map[string]any{"title": p.Title, "slug": p.Slug, "date": p.Date, "excerpt": p.Excerpt}
}

func connection(posts []Post, node func(Post) map[string]any) map[string]any {
	edges := make([]map[string]any, 0, len(posts))
	for _, p := range posts {
		edges = append(edges, map[string]any{"node": node(p)})
	}
	return map[string]any{"edges": edges}
}

func statusOf(p Post) string {
	if p.Status == "" {
		return "publish"
	}
	return p.Status
}

func stringSlice(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
