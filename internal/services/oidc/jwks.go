package oidc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

const (
	defaultJWKSTTL     = time.Hour
	maxJWKSBytes       = 1 << 20
	jwksRequestTimeout = 10 * time.Second
)

type cachedKeys struct {
	keys    jwk.Set
	fetched time.Time
}

// JWKSManager fetches and caches key sets per JWKS URL. When a refresh
// fails the previous key set keeps being served, so an identity provider
// outage does not log every user out.
type JWKSManager struct {
	client *http.Client
	ttl    time.Duration
	now    func() time.Time

	mu    sync.Mutex
	cache map[string]cachedKeys
	// fetching serializes refreshes per URL
	fetching map[string]*sync.Mutex
}

// JWKSOption configures a JWKSManager
type JWKSOption func(*JWKSManager)

// WithJWKSTTL overrides how long a fetched key set is considered fresh
func WithJWKSTTL(ttl time.Duration) JWKSOption {
	return func(m *JWKSManager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithHTTPClient sets the client used to fetch key sets
func WithHTTPClient(c *http.Client) JWKSOption {
	return func(m *JWKSManager) {
		if c != nil {
			m.client = c
		}
	}
}

// NewJWKSManager creates a JWKS manager
func NewJWKSManager(opts ...JWKSOption) *JWKSManager {
	m := &JWKSManager{
		client:   &http.Client{Timeout: jwksRequestTimeout},
		ttl:      defaultJWKSTTL,
		now:      time.Now,
		cache:    make(map[string]cachedKeys),
		fetching: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetJWKS returns the key set for jwksURL, fetching it when the cached copy is stale
func (m *JWKSManager) GetJWKS(ctx context.Context, jwksURL string) (jwk.Set, error) {
	if keys, ok := m.fresh(jwksURL); ok {
		return keys, nil
	}
	return m.refresh(ctx, jwksURL, false)
}

// Refresh refetches jwksURL regardless of TTL. Verifiers call it once when a
// token names a key the cached set does not contain, which is how key
// rotation shows up.
func (m *JWKSManager) Refresh(ctx context.Context, jwksURL string) (jwk.Set, error) {
	return m.refresh(ctx, jwksURL, true)
}

func (m *JWKSManager) fresh(jwksURL string) (jwk.Set, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cache[jwksURL]
	if !ok || m.now().Sub(c.fetched) >= m.ttl {
		return nil, false
	}
	return c.keys, true
}

func (m *JWKSManager) refresh(ctx context.Context, jwksURL string, force bool) (jwk.Set, error) {
	m.mu.Lock()
	lock, ok := m.fetching[jwksURL]
	if !ok {
		lock = &sync.Mutex{}
		m.fetching[jwksURL] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	// another caller may have refreshed while we waited
	if !force {
		if keys, ok := m.fresh(jwksURL); ok {
			return keys, nil
		}
	}

	keys, err := m.fetchJWKS(ctx, jwksURL)
	if err != nil {
		m.mu.Lock()
		stale, ok := m.cache[jwksURL]
		m.mu.Unlock()
		if ok {
			return stale.keys, nil
		}
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	m.mu.Lock()
	m.cache[jwksURL] = cachedKeys{keys: keys, fetched: m.now()}
	m.mu.Unlock()
	return keys, nil
}

func (m *JWKSManager) fetchJWKS(ctx context.Context, jwksURL string) (jwk.Set, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJWKSBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read JWKS response: %w", err)
	}

	keys, err := jwk.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWKS: %w", err)
	}
	return keys, nil
}
