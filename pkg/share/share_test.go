package share

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikanow/infinite-sdk-go/internal/fakeapi"
	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
)

type notePayload struct {
	Text string `json:"text"`
}

func (notePayload) ShareType() string { return "note" }

func shareData(id, shareType, body string) map[string]any {
	return map[string]any{
		"_id":         id,
		"title":       "Title " + id,
		"description": "Description",
		"type":        shareType,
		"share":       body,
		"created":     "Oct 7, 2015 07:38:01 PM",
		"owner":       map[string]any{"_id": "o1", "displayName": "Owner"},
		"communities": []any{map[string]any{"_id": "g1", "name": "Group"}},
	}
}

func TestCreate(t *testing.T) {
	api := fakeapi.New(t)
	id := uuid.NewString()
	api.Reply(http.MethodPost, "/social/share", fakeapi.OK(shareData(id, "note", `{"text":"hi"}`)))
	svc := NewService(api.Client(t))

	sh, err := svc.Create(context.Background(), "g1,g2", "note", "T", "D", notePayload{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, id, sh.ID)
	assert.Equal(t, "o1", sh.Owner.ID)
	assert.Equal(t, "g1", sh.Communities[0].Identifier())

	var body map[string]any
	require.NoError(t, api.Last().JSON(&body))
	assert.Equal(t, []any{map[string]any{"_id": "g1"}, map[string]any{"_id": "g2"}}, body["communities"])
	assert.Equal(t, "note", body["type"])
	assert.Equal(t, `{"text":"hi"}`, body["share"])
	assert.NotContains(t, body, "_id")
}

func TestUpdateAndUpsert(t *testing.T) {
	api := fakeapi.New(t)
	api.Reply(http.MethodPut, "/social/share", fakeapi.OK(shareData("s1", "note", "raw")))
	api.Reply(http.MethodPost, "/social/share", fakeapi.OK(shareData("s2", "note", "raw")))
	svc := NewService(api.Client(t))
	ctx := context.Background()

	sh, err := svc.Upsert(ctx, "s1", []string{"g1"}, "note", "T", "D", "raw")
	require.NoError(t, err)
	assert.Equal(t, "s1", sh.ID)
	assert.Equal(t, http.MethodPut, api.Last().Method)

	var body map[string]any
	require.NoError(t, api.Last().JSON(&body))
	assert.Equal(t, "s1", body["_id"])
	assert.Equal(t, "raw", body["share"])

	sh, err = svc.Upsert(ctx, "", []string{"g1"}, "note", "T", "D", "raw")
	require.NoError(t, err)
	assert.Equal(t, "s2", sh.ID)
	assert.Equal(t, http.MethodPost, api.Last().Method)

	_, err = svc.UpdateFromObject(ctx, sh)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, api.Last().Method)
}

func TestGet(t *testing.T) {
	api := fakeapi.New(t)
	api.Reply(http.MethodGet, "/social/share/get/s1", fakeapi.OK(shareData("s1", "note", `{"text":"hello"}`)))
	api.Reply(http.MethodGet, "/social/share/get/missing", fakeapi.Fail("Share not found"))
	svc := NewService(api.Client(t))
	ctx := context.Background()

	sh, err := svc.Get(ctx, "s1", GetOptions{NoContent: true})
	require.NoError(t, err)
	assert.Equal(t, "true", api.Last().Query.Get("nocontent"))
	assert.Equal(t, 2015, sh.Created.Year())

	note, err := DecodePayload[notePayload](sh)
	require.NoError(t, err)
	assert.Equal(t, "hello", note.Text)

	_, err = svc.Get(ctx, "missing", GetOptions{})
	assert.True(t, infinite.IsLogicalFailure(err))

	sh, err = svc.Get(ctx, "missing", GetOptions{AlwaysResolve: true})
	require.NoError(t, err)
	assert.Nil(t, sh)

	env, err := svc.GetRaw(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, env.Succeeded())
}

func TestDecodePayload_TypeMismatch(t *testing.T) {
	_, err := DecodePayload[notePayload](&Share{ID: "s1", Type: "other", Share: `{}`})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	_, err = DecodePayload[notePayload](&Share{ID: "s1", Type: "note", Share: `not json`})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestSearch(t *testing.T) {
	api := fakeapi.New(t)
	api.Handle(http.MethodGet, "/social/share/search", func(r fakeapi.Request) any {
		if r.Query.Get("searchby") == "person" {
			return fakeapi.NoData("no shares")
		}
		return fakeapi.OK([]any{shareData("s1", "note", ""), shareData("s2", "note", "")})
	})
	svc := NewService(api.Client(t))
	ctx := context.Background()

	shares, err := svc.SearchByType(ctx, []string{"note", "doc"}, true)
	require.NoError(t, err)
	assert.Len(t, shares, 2)
	q := api.Last().Query
	assert.Equal(t, "note,doc", q.Get("type"))
	assert.Equal(t, "true", q.Get("nometa"))

	_, err = svc.SearchByGroups(ctx, []string{"g1"}, nil, false)
	require.NoError(t, err)
	q = api.Last().Query
	assert.Equal(t, "community", q.Get("searchby"))
	assert.Equal(t, "g1", q.Get("id"))
	assert.False(t, q.Has("type"))

	shares, err = svc.SearchByUsers(ctx, "u1", "note", false)
	require.NoError(t, err)
	assert.NotNil(t, shares)
	assert.Empty(t, shares)
}

func TestUploadFile(t *testing.T) {
	api := fakeapi.New(t)
	api.Reply(http.MethodPost, "/social/share", fakeapi.OK(shareData("f1", "binary", "")))
	svc := NewService(api.Client(t))

	_, err := svc.UploadFile(context.Background(), []string{"g1", "g2"}, "binary", "report.csv", "Q3", []byte("a,b\n1,2\n"), "text/csv")
	require.NoError(t, err)

	req := api.Last()
	assert.Equal(t, "text/csv", req.ContentType)
	assert.Equal(t, "a,b\n1,2\n", string(req.Body))
	assert.Equal(t, "g1,g2", req.Query.Get("communityIds"))
	assert.Equal(t, "report.csv", req.Query.Get("title"))
}

func TestVisibilityAndRemove(t *testing.T) {
	api := fakeapi.New(t)
	api.Reply(http.MethodGet, "/social/share/add/community/s1/shared%20with%20you/g2", fakeapi.NoData("added"))
	api.Reply(http.MethodGet, "/social/share/remove/community/s1/g2", fakeapi.NoData("removed"))
	api.Reply(http.MethodGet, "/social/share/remove/s1", fakeapi.NoData("removed"))
	svc := NewService(api.Client(t))
	ctx := context.Background()

	allow := true
	_, err := svc.AddDataGroupToShare(ctx, "s1", "g2", "shared with you", &allow)
	require.NoError(t, err)
	assert.Equal(t, "true", api.Last().Query.Get("readWrite"))

	_, err = svc.RemoveDataGroupFromShare(ctx, "s1", "g2")
	require.NoError(t, err)

	_, err = svc.Remove(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, api.Count())
}

func TestFileURL(t *testing.T) {
	api := fakeapi.New(t)
	svc := NewService(api.Client(t))

	assert.Equal(t, api.URL+"/social/share/get/s1?nometa=true", svc.FileURL("s1"))
}
