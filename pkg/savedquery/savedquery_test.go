package savedquery

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikanow/infinite-sdk-go/internal/fakeapi"
	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
)

func TestRawQuery(t *testing.T) {
	api := fakeapi.New(t)
	api.Reply(http.MethodPost, "/custom/savedquery/run", fakeapi.OK([]any{"r1"}))
	svc := NewService(api.Client(t))

	env, err := svc.RawQuery(context.Background(), "post", "/run", infinite.Params{"id": "q1"}, map[string]any{"q": 1})
	require.NoError(t, err)

	data, err := infinite.ResolveWithData(env)
	require.NoError(t, err)
	assert.Equal(t, []any{"r1"}, data)
	assert.Equal(t, "q1", api.Last().Query.Get("id"))
}
