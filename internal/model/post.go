package model

import (
	"time"
)

// Post is the read-only projection of a WordPress post used for one render.
type Post struct {
	DatabaseID int    `json:"databaseId"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Slug       string `json:"slug"`
	Status     string `json:"status"`
}

// PostNode is the lightweight summary carried by "more posts" and listings.
type PostNode struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Date    string `json:"date"`
	Excerpt string `json:"excerpt"`
}

// wpDateLayout is the site-local format WPGraphQL uses for "date".
const wpDateLayout = "2006-01-02T15:04:05"

// PublishedAt parses Date, returning the zero time when it is absent or malformed.
func (n PostNode) PublishedAt() time.Time {
	t, err := time.Parse(wpDateLayout, n.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

type PostEdge struct {
	Node PostNode `json:"node"`
}

type PostConnection struct {
	Edges []PostEdge `json:"edges"`
}

// Nodes returns the edge nodes in display order.
func (c PostConnection) Nodes() []PostNode {
	nodes := make([]PostNode, 0, len(c.Edges))
	for _, edge := range c.Edges {
		nodes = append(nodes, edge.Node)
	}
	return nodes
}

// PostAndMorePosts is the data backing a single post page.
type PostAndMorePosts struct {
	Post  *Post
	Posts PostConnection
}

// Revision carries the latest saved changes of a published post.
type Revision struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type RevisionEdge struct {
	Node Revision `json:"node"`
}

type RevisionConnection struct {
	Edges []RevisionEdge `json:"edges"`
}
