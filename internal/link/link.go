// Package link decides whether a reference stays on this site or leaves it,
// and renders the matching anchor.
package link

import (
	"strings"
)

// Kind is the result of classifying a reference.
type Kind int

const (
	Internal Kind = iota
	External
)

func (k Kind) String() string {
	if k == Internal {
		return "internal"
	}
	return "external"
}

// graphQLPath is stripped from the API URL to obtain the backend origin.
const graphQLPath = "/graphql"

// Classifier holds the backend origin that counts as "this site".
// The zero value classifies every absolute URL as external.
type Classifier struct {
	origin string
}

// NewClassifier derives the backend origin from the WPGraphQL endpoint URL,
// e.g. "https://cms.example.com/graphql" -> "https://cms.example.com".
func NewClassifier(apiURL string) Classifier {
	origin := strings.TrimSpace(apiURL)
	origin = strings.TrimSuffix(origin, "/")
	origin = strings.TrimSuffix(origin, graphQLPath)
	return Classifier{origin: origin}
}

// Origin returns the backend origin, empty when unconfigured.
func (c Classifier) Origin() string {
	return c.origin
}

// Classify reports Internal for site-relative references and references under
// the backend origin. An empty origin never matches.
func (c Classifier) Classify(href string) Kind {
	if strings.HasPrefix(href, "/") {
		return Internal
	}
	if c.origin != "" && strings.HasPrefix(href, c.origin) {
		return Internal
	}
	return External
}
