package application

import (
	"context"
	"errors"
	"testing"

	"github.com/restauranthq/pos-service/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMenuGroup(t *testing.T) {
	f := newCatalogFixture()

	g, err := f.groupSvc.Create(context.Background(), CreateMenuGroupRequest{Name: ptr("two plus one")})
	require.NoError(t, err)
	assert.Equal(t, "two plus one", g.Name)

	all, err := f.groupSvc.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateMenuGroupRequiresName(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.groupSvc.Create(context.Background(), CreateMenuGroupRequest{})
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))

	_, err = f.groupSvc.Create(context.Background(), CreateMenuGroupRequest{Name: ptr("")})
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))
}
