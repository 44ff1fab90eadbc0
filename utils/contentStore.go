package utils

import (
	"fmt"
	"sync"
	"time"

	"learntrack/config"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// refreshWindow is how close to expiry a cached URL may get before it is
// re-signed instead of served.
const refreshWindow = 60 * time.Second

// SignedURL is an expiring content URL handed out by the delivery service. The
// URL itself is opaque to the engine.
type SignedURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type signResponse struct {
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expires_at"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// ContentStore fetches signed content URLs from the external delivery service
// and caches them until they get within a minute of expiry.
type ContentStore struct {
	client *resty.Client

	mu    sync.Mutex
	cache map[string]SignedURL
}

// NewContentStore builds a client against the configured CDN signing endpoint.
func NewContentStore() *ContentStore {
	client := resty.New().
		SetBaseURL(config.AppConfig.ContentCdnUrl).
		SetTimeout(10 * time.Second).
		SetHeader("Authorization", "Bearer "+config.AppConfig.ContentCdnKey)
	return &ContentStore{
		client: client,
		cache:  make(map[string]SignedURL),
	}
}

// GetSignedContentUrl returns an expiring URL for one unit of one training,
// refreshing the cached URL when it is within 60s of expiry.
func (s *ContentStore) GetSignedContentUrl(trainingID, unitID uint) (SignedURL, error) {
	key := fmt.Sprintf("%d/%d", trainingID, unitID)

	s.mu.Lock()
	cached, ok := s.cache[key]
	s.mu.Unlock()
	if ok && time.Until(cached.ExpiresAt) > refreshWindow {
		return cached, nil
	}

	var signed signResponse
	resp, err := s.client.R().
		SetBody(map[string]interface{}{
			"training_id": trainingID,
			"unit_id":     unitID,
			"ttl_seconds": config.AppConfig.SignedUrlTTLSecs,
			"nonce":       uuid.NewString(),
		}).
		SetResult(&signed).
		Post("/sign")
	if err != nil {
		return SignedURL{}, fmt.Errorf("failed to sign content url: %v", err)
	}
	if resp.IsError() {
		return SignedURL{}, fmt.Errorf("content service error: %s", resp.Status())
	}

	out := SignedURL{URL: signed.URL, ExpiresAt: time.Unix(signed.ExpiresAt, 0)}

	s.mu.Lock()
	s.cache[key] = out
	s.mu.Unlock()

	return out, nil
}
