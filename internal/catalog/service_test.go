package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/grocery-api/internal/common"
	"github.com/noah-isme/grocery-api/internal/store"
)

func newListService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(ServiceConfig{
		Store:        store.New(),
		DefaultLimit: 20,
		MaxLimit:     100,
	})
	require.NoError(t, err)
	return svc
}

func TestParseListParamsDefaults(t *testing.T) {
	svc := newListService(t)
	params, err := svc.ParseListParams(url.Values{})
	require.NoError(t, err)
	require.Equal(t, 1, params.Page)
	require.Equal(t, 20, params.Limit)
	require.Empty(t, params.Sort)
	require.False(t, params.Desc)
	require.Nil(t, params.MaxPrice)
}

func TestParseListParamsRejectsUnknownSortKey(t *testing.T) {
	svc := newListService(t)
	_, err := svc.ParseListParams(url.Values{"sort": {"unit"}})
	require.Error(t, err)
	require.True(t, common.IsAppError(err))
}

func TestParseListParamsPagination(t *testing.T) {
	svc := newListService(t)

	params, err := svc.ParseListParams(url.Values{"page": {"4"}, "limit": {"10"}})
	require.NoError(t, err)
	require.Equal(t, 4, params.Page)
	require.Equal(t, 10, params.Limit)

	params, err = svc.ParseListParams(url.Values{"limit": {"9999"}})
	require.NoError(t, err)
	require.Equal(t, 100, params.Limit)

	_, err = svc.ParseListParams(url.Values{"page": {"zero"}})
	require.Error(t, err)
	require.True(t, common.IsAppError(err))

	_, err = svc.ParseListParams(url.Values{"limit": {"-3"}})
	require.Error(t, err)
	require.True(t, common.IsAppError(err))
}
