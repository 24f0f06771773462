// Package wordpress reads posts from a WPGraphQL endpoint.
package wordpress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/machinebox/graphql"
	"github.com/templui/headlesswp/internal/model"
)

var (
	ErrPostNotFound = errors.New("post not found")
)

const (
	// The post query asks for one more than it shows so the current post can
	// be filtered out and the list still be full.
	morePostsFetched = "3"
	maxMorePosts     = 2
)

const (
	idTypeSlug       = "SLUG"
	idTypeDatabaseID = "DATABASE_ID"
)

type Client struct {
	gql       *graphql.Client
	authToken string
}

// New creates a client for the given WPGraphQL URL. A non-empty authToken is
// sent as a bearer token, which WordPress requires for drafts and revisions.
func New(apiURL, authToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	gql := graphql.NewClient(apiURL, graphql.WithHTTPClient(httpClient))
	gql.Log = func(s string) {
		slog.Debug("wpgraphql", "msg", s)
	}
	return &Client{
		gql:       gql,
		authToken: authToken,
	}
}

func (c *Client) run(ctx context.Context, req *graphql.Request, resp any) error {
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	err := c.gql.Run(ctx, req, resp)
	if err != nil {
		return fmt.Errorf("failed to fetch API: %w", err)
	}
	return nil
}

// AllPostsWithSlug returns every published post slug.
func (c *Client) AllPostsWithSlug(ctx context.Context) ([]string, error) {
	var resp struct {
		Posts model.PostConnection `json:"posts"`
	}
	err := c.run(ctx, graphql.NewRequest(queryAllPostsWithSlug), &resp)
	if err != nil {
		return nil, err
	}

	slugs := make([]string, 0, len(resp.Posts.Edges))
	for _, edge := range resp.Posts.Edges {
		if edge.Node.Slug == "" {
			continue
		}
		slugs = append(slugs, edge.Node.Slug)
	}
	return slugs, nil
}

// AllPostsForHome returns the most recent posts. Preview includes drafts.
func (c *Client) AllPostsForHome(ctx context.Context, preview bool) ([]model.PostNode, error) {
	stati := []string{"PUBLISH"}
	if preview {
		stati = append(stati, "DRAFT")
	}

	req := graphql.NewRequest(queryAllPostsForHome)
	req.Var("stati", stati)

	var resp struct {
		Posts model.PostConnection `json:"posts"`
	}
	err := c.run(ctx, req, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Posts.Nodes(), nil
}

// PreviewPost resolves the post an editor wants to preview. Numeric ids are
// looked up as database ids, anything else as a slug.
func (c *Client) PreviewPost(ctx context.Context, id string) (*model.Preview, error) {
	req := graphql.NewRequest(queryPreviewPost)
	req.Var("id", id)
	req.Var("idType", idTypeFor(id))

	var resp struct {
		Post *model.Preview `json:"post"`
	}
	err := c.run(ctx, req, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Post == nil {
		return nil, ErrPostNotFound
	}
	return resp.Post, nil
}

// PostAndMorePosts fetches a post together with up to two other recent posts.
// preview is nil outside preview mode.
func (c *Client) PostAndMorePosts(ctx context.Context, slug string, preview *model.Preview) (*model.PostAndMorePosts, error) {
	isSamePost := preview.Matches(slug)
	isDraft := isSamePost && preview.IsDraft()
	isRevision := isSamePost && preview.IsRevision()

	req := graphql.NewRequest(postBySlug(isRevision))
	if isDraft {
		req.Var("id", strconv.Itoa(preview.DatabaseID))
		req.Var("idType", idTypeDatabaseID)
	} else {
		req.Var("id", slug)
		req.Var("idType", idTypeSlug)
	}

	var resp struct {
		Post *struct {
			model.Post
			Revisions model.RevisionConnection `json:"revisions"`
		} `json:"post"`
		Posts model.PostConnection `json:"posts"`
	}
	err := c.run(ctx, req, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Post == nil || (resp.Post.Slug == "" && !isDraft) {
		return nil, ErrPostNotFound
	}

	post := resp.Post.Post
	if isRevision && len(resp.Post.Revisions.Edges) > 0 {
		rev := resp.Post.Revisions.Edges[0].Node
		post.Title = rev.Title
		post.Content = rev.Content
	}

	return &model.PostAndMorePosts{
		Post:  &post,
		Posts: morePosts(resp.Posts, post.Slug, slug),
	}, nil
}

// morePosts drops the current post from the list and caps it at maxMorePosts.
func morePosts(conn model.PostConnection, excludeSlugs ...string) model.PostConnection {
	edges := make([]model.PostEdge, 0, len(conn.Edges))
	for _, edge := range conn.Edges {
		if containsString(excludeSlugs, edge.Node.Slug) {
			continue
		}
		edges = append(edges, edge)
	}
	if len(edges) > maxMorePosts {
		edges = edges[:maxMorePosts]
	}
	return model.PostConnection{Edges: edges}
}

func idTypeFor(id string) string {
	_, err := strconv.Atoi(id)
	if err == nil {
		return idTypeDatabaseID
	}
	return idTypeSlug
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v != "" && v == s {
			return true
		}
	}
	return false
}
