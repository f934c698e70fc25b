// Package profanity screens customer-visible names. Client calls the hosted
// filter service; Filter is a local word-list fallback used when the service
// is unreachable or not configured.
package profanity

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/restauranthq/pos-service/pkg/regexcache"
)

type Client struct {
	baseURL string
	hc      *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) ContainsProfanity(ctx context.Context, text string) (bool, error) {
	u := fmt.Sprintf("%s/containsprofanity?text=%s", c.baseURL, url.QueryEscape(text))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("profanity service returned %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(strings.TrimSpace(string(body)))
}

// Filter matches a fixed word list with word-boundary patterns compiled
// through a bounded regex cache.
type Filter struct {
	words []string
	cache *regexcache.Cache
}

func NewFilter(words []string, cache *regexcache.Cache) *Filter {
	return &Filter{words: words, cache: cache}
}

func (f *Filter) ContainsProfanity(_ context.Context, text string) (bool, error) {
	for _, word := range f.words {
		expr := `(?i)\b` + `(` + word + `)` + `\b`
		ok, err := f.cache.MatchString(expr, text)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
