package regexcache_test

import (
	"testing"

	"github.com/restauranthq/pos-service/pkg/regexcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsSameCompiledPattern(t *testing.T) {
	c, err := regexcache.New(4)
	require.NoError(t, err)

	first, err := c.Get(`\d+`)
	require.NoError(t, err)
	second, err := c.Get(`\d+`)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, c.Len())
}

func TestGetInvalidPattern(t *testing.T) {
	c, err := regexcache.New(4)
	require.NoError(t, err)

	_, err = c.Get(`(unclosed`)
	assert.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestMatchString(t *testing.T) {
	c, err := regexcache.New(4)
	require.NoError(t, err)

	ok, err := c.MatchString(`(?i)\bburger\b`, "Double Burger Set")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.MatchString(`(?i)\bburger\b`, "fried chicken")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCapacityEvictsOldest(t *testing.T) {
	c, err := regexcache.New(2)
	require.NoError(t, err)

	for _, expr := range []string{`a`, `b`, `c`} {
		_, err := c.Get(expr)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Len())
}
