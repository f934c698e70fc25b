// Package regexcache memoizes compiled regular expressions behind a
// bounded LRU. Callers hold an explicit *Cache instead of sharing
// process-global memoized state, so the cache's lifetime is the owner's.
package regexcache

import (
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"
)

type Cache struct {
	patterns *lru.Cache[string, *regexp.Regexp]
}

func New(capacity int) (*Cache, error) {
	patterns, err := lru.New[string, *regexp.Regexp](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{patterns: patterns}, nil
}

// Get returns the compiled form of expr, compiling and caching it on a miss.
func (c *Cache) Get(expr string) (*regexp.Regexp, error) {
	if re, ok := c.patterns.Get(expr); ok {
		return re, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	c.patterns.Add(expr, re)
	return re, nil
}

func (c *Cache) MatchString(expr, s string) (bool, error) {
	re, err := c.Get(expr)
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}

func (c *Cache) Len() int {
	return c.patterns.Len()
}
