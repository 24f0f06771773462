package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/feeds"
	"github.com/templui/headlesswp/internal/wordpress"
)

type FeedService struct {
	wp      *wordpress.Client
	title   string
	baseURL string
}

func NewFeedService(wp *wordpress.Client, title, baseURL string) *FeedService {
	return &FeedService{
		wp:      wp,
		title:   title,
		baseURL: trimBaseURL(baseURL),
	}
}

// RSS returns the feed of the most recent posts.
func (s *FeedService) RSS(ctx context.Context) ([]byte, error) {
	posts, err := s.wp.AllPostsForHome(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts for feed: %w", err)
	}

	feed := &feeds.Feed{
		Title:       s.title,
		Link:        &feeds.Link{Href: s.baseURL + HomePath},
		Description: s.title,
		Created:     time.Now(),
	}

	for _, post := range posts {
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       post.Title,
			Link:        &feeds.Link{Href: s.baseURL + postPrefix + post.Slug},
			Id:          s.baseURL + postPrefix + post.Slug,
			Description: post.Excerpt,
			Created:     post.PublishedAt(),
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return nil, fmt.Errorf("failed to encode feed: %w", err)
	}
	return []byte(rss), nil
}
