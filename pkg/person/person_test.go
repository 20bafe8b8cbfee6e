package person

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikanow/infinite-sdk-go/internal/fakeapi"
	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
)

func personData(id, name string) map[string]any {
	return map[string]any{
		"_id":           id,
		"displayName":   name,
		"email":         []any{name + "@example.com"},
		"accountStatus": "active",
		"created":       "Oct 7, 2015 07:38:01 PM",
	}
}

func TestGet(t *testing.T) {
	api := fakeapi.New(t)
	api.Reply(http.MethodGet, "/social/person/get/", fakeapi.OK(personData("me-id", "jane")))
	api.Reply(http.MethodGet, "/social/person/get/p1", fakeapi.OK(personData("p1", "bob")))
	api.Reply(http.MethodGet, "/social/person/get/gone", fakeapi.Fail("Person not found"))
	svc := NewService(api.Client(t))
	ctx := context.Background()

	me, err := svc.Get(ctx, Me, false)
	require.NoError(t, err)
	assert.Equal(t, "me-id", me.ID)
	assert.Equal(t, "/social/person/get/", api.Last().Path)

	p, err := svc.Get(ctx, "p1", false)
	require.NoError(t, err)
	assert.Equal(t, "bob", p.DisplayName)
	assert.Equal(t, []string{"bob@example.com"}, p.Email)

	_, err = svc.Get(ctx, "gone", false)
	require.Error(t, err)
	assert.True(t, infinite.IsLogicalFailure(err))

	p, err = svc.Get(ctx, "gone", true)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestList(t *testing.T) {
	api := fakeapi.New(t)
	api.Reply(http.MethodGet, "/social/person/list", fakeapi.OK([]any{personData("p1", "a"), personData("p2", "b")}))
	svc := NewService(api.Client(t))

	people, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "p2", people[1].Identifier())
}

func TestRegister_DigestsAndRefetches(t *testing.T) {
	api := fakeapi.New(t)
	id := uuid.NewString()
	api.Reply(http.MethodPost, "/social/person/register", fakeapi.OK(map[string]any{"_id": id}))
	api.Reply(http.MethodGet, "/social/person/get/"+id, fakeapi.OK(personData(id, "new")))
	svc := NewService(api.Client(t))

	def := Definition{
		User: UserDefinition{FirstName: "New", LastName: "User", Email: []string{"new@example.com"}},
		Auth: &AuthDefinition{Username: "new@example.com", Password: "hunter2"},
	}
	p, err := svc.Register(context.Background(), def)
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, "hunter2", def.Auth.Password)

	reqs := api.Requests()
	require.Len(t, reqs, 2)

	var body struct {
		Auth AuthDefinition `json:"auth"`
	}
	require.NoError(t, reqs[0].JSON(&body))
	assert.Equal(t, infinite.HashPassword("hunter2"), body.Auth.Password)
}

func TestUpdates(t *testing.T) {
	api := fakeapi.New(t)
	digest := infinite.HashPassword("n3w")
	api.Reply(http.MethodGet, "/social/person/update/email/p1/a@x.com%2Cb@x.com", fakeapi.NoData("ok"))
	api.Reply(http.MethodGet, "/social/person/update/password/p1/"+url.PathEscape(digest), fakeapi.NoData("ok"))
	api.Reply(http.MethodPost, "/social/person/update", fakeapi.NoData("ok"))
	api.Reply(http.MethodGet, "/social/person/delete/p1", fakeapi.NoData("deleted"))
	svc := NewService(api.Client(t))
	ctx := context.Background()

	_, err := svc.UpdateEmails(ctx, "p1", []string{"a@x.com", "b@x.com"})
	require.NoError(t, err)

	_, err = svc.UpdatePassword(ctx, "p1", "n3w")
	require.NoError(t, err)

	_, err = svc.Update(ctx, Definition{User: UserDefinition{UserID: "p1", FirstName: "F"}})
	require.NoError(t, err)

	_, err = svc.Remove(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 4, api.Count())
}
