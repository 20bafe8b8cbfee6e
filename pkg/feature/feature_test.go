package feature

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikanow/infinite-sdk-go/internal/fakeapi"
	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
)

func TestSuggestPaths(t *testing.T) {
	api := fakeapi.New(t)
	api.Reply(http.MethodGet, "/knowledge/feature/aliasSuggest/entity/barack%20obama/%2A", fakeapi.OK([]any{}))
	api.Reply(http.MethodGet, "/knowledge/feature/assocSuggest/obama/null/null/verb/g1%2Cg2", fakeapi.OK([]any{}))
	api.Reply(http.MethodGet, "/knowledge/feature/entitySuggest/oba/g1", fakeapi.OK([]any{}))
	api.Reply(http.MethodGet, "/knowledge/feature/geoSuggest/lon/g1", fakeapi.OK([]any{}))
	svc := NewService(api.Client(t))
	ctx := context.Background()

	_, err := svc.AliasSuggest(ctx, "entity", "barack obama", "*")
	require.NoError(t, err)

	_, err = svc.VerbAssociationSuggest(ctx, []string{"g1", "g2"}, "obama", "", "")
	require.NoError(t, err)

	geo := true
	_, err = svc.EntitySuggest(ctx, "oba", "g1", EntitySuggestOptions{IncludeGeo: &geo})
	require.NoError(t, err)
	assert.Equal(t, "true", api.Last().Query.Get("geo"))
	assert.False(t, api.Last().Query.Has("linkdata"))

	_, err = svc.GeoSuggest(ctx, "lon", []infinite.IDRef{{ID: "g1"}})
	require.NoError(t, err)

	assert.Equal(t, 4, api.Count())
}

func TestSuggest_RequiresDataGroups(t *testing.T) {
	api := fakeapi.New(t)
	svc := NewService(api.Client(t))
	ctx := context.Background()

	calls := []func() error{
		func() error { _, err := svc.AliasSuggest(ctx, "entity", "x", ""); return err },
		func() error { _, err := svc.AssociationSuggest(ctx, "entity2", nil, "a", "b", ""); return err },
		func() error { _, err := svc.EntitySuggest(ctx, "x", []string{}, EntitySuggestOptions{}); return err },
		func() error { _, err := svc.GeoSuggest(ctx, "x", nil); return err },
	}
	for _, call := range calls {
		err := call()
		require.Error(t, err)
		assert.True(t, errors.Is(err, infinite.ErrValidation))
	}
	assert.Zero(t, api.Count())
}

func TestSuggest_LogsAtDebug(t *testing.T) {
	api := fakeapi.New(t)
	api.Reply(http.MethodGet, "/knowledge/feature/entitySuggest/oba/g1", fakeapi.OK([]any{}))

	var buf bytes.Buffer
	client, err := infinite.NewClient(api.Config(), infinite.WithLogger(hclog.New(&hclog.LoggerOptions{
		Output: &buf,
		Level:  hclog.Debug,
	})))
	require.NoError(t, err)

	_, err = NewService(client).EntitySuggest(context.Background(), "oba", "g1", EntitySuggestOptions{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "infinite.feature: requesting suggestions")
}
