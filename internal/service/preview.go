package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/templui/headlesswp/internal/model"
	"github.com/templui/headlesswp/internal/wordpress"
)

var (
	ErrPreviewDisabled      = errors.New("preview mode is not configured")
	ErrInvalidPreviewSecret = errors.New("invalid preview secret")
	ErrInvalidPreviewToken  = errors.New("invalid preview token")
)

const PreviewCookieName = "__preview"

type previewClaims struct {
	model.Preview
	jwt.RegisteredClaims
}

// PreviewService lets editors view drafts and unpublished revisions. The
// previewed post travels in an HS256 token signed with the preview secret.
type PreviewService struct {
	wp     *wordpress.Client
	secret []byte
	ttl    time.Duration
}

func NewPreviewService(wp *wordpress.Client, secret string, ttl time.Duration) *PreviewService {
	return &PreviewService{
		wp:     wp,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (s *PreviewService) Enabled() bool {
	return len(s.secret) > 0
}

func (s *PreviewService) TTL() time.Duration {
	return s.ttl
}

// Begin checks the shared secret, resolves the post and returns it together
// with a signed token for the preview cookie.
func (s *PreviewService) Begin(ctx context.Context, secret, id string) (*model.Preview, string, error) {
	if !s.Enabled() {
		return nil, "", ErrPreviewDisabled
	}
	if subtle.ConstantTimeCompare(s.secret, []byte(secret)) != 1 || id == "" {
		return nil, "", ErrInvalidPreviewSecret
	}

	preview, err := s.wp.PreviewPost(ctx, id)
	if err != nil {
		return nil, "", err
	}

	token, err := s.Sign(preview)
	if err != nil {
		return nil, "", err
	}
	return preview, token, nil
}

func (s *PreviewService) Sign(preview *model.Preview) (string, error) {
	now := time.Now()
	claims := previewClaims{
		Preview: *preview,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign preview token: %w", err)
	}
	return token, nil
}

func (s *PreviewService) Verify(token string) (*model.Preview, error) {
	if !s.Enabled() {
		return nil, ErrPreviewDisabled
	}

	var claims previewClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreviewToken, err)
	}

	preview := claims.Preview
	return &preview, nil
}
