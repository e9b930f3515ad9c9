// internal/dexscreener/client.go
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/solwatch/screener-bot/internal/token"
)

const (
	requestTimeout = 10 * time.Second
	userAgent      = "screener-bot/1.0"
	targetChain    = "solana"
)

// discoveryEndpoints are the read-only listing feeds scanned each pass.
var discoveryEndpoints = []string{
	"token-profiles/latest/v1",
	"token-boosts/latest/v1",
	"token-boosts/top/v1",
}

// Client is a thin DexScreener API adapter.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// NewClient creates a DexScreener client for the given API base URL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: requestTimeout},
		logger:  logger.Named("dexscreener"),
	}
}

type listingEntry struct {
	ChainID      string `json:"chainId"`
	TokenAddress string `json:"tokenAddress"`
}

// DiscoverTokens fetches the discovery endpoints concurrently and returns the
// deduplicated set of solana token addresses. A failed endpoint contributes
// nothing and is logged; it never fails the pass.
func (c *Client) DiscoverTokens(ctx context.Context) []string {
	var mu sync.Mutex
	seen := make(map[string]struct{})

	g, gctx := errgroup.WithContext(ctx)
	for _, endpoint := range discoveryEndpoints {
		g.Go(func() error {
			var entries []listingEntry
			if err := c.getJSON(gctx, c.baseURL+"/"+endpoint, &entries); err != nil {
				c.logger.Error("discovery endpoint failed",
					zap.String("endpoint", endpoint),
					zap.Error(err))
				return nil
			}
			mu.Lock()
			for _, entry := range entries {
				if entry.ChainID == targetChain {
					seen[entry.TokenAddress] = struct{}{}
				}
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	addresses := make([]string, 0, len(seen))
	for addr := range seen {
		addresses = append(addresses, addr)
	}
	c.logger.Info("fetched unique token addresses", zap.Int("count", len(addresses)))
	return addresses
}

// TokenPair fetches detailed pair data for one token address. An empty
// response means the token has no data yet and yields (nil, nil).
func (c *Client) TokenPair(ctx context.Context, address string) (*token.Pair, error) {
	var pairs []token.Pair
	url := fmt.Sprintf("%s/tokens/v1/%s/%s", c.baseURL, targetChain, address)
	if err := c.getJSON(ctx, url, &pairs); err != nil {
		return nil, fmt.Errorf("fetch token data for %s: %w", address, err)
	}
	if len(pairs) == 0 {
		return nil, nil
	}
	return &pairs[0], nil
}

func (c *Client) getJSON(ctx context.Context, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
