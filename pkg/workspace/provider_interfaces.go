package workspace

import (
	"context"

	"github.com/ikanow/infinite-sdk-go/pkg/group"
	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
	"github.com/ikanow/infinite-sdk-go/pkg/person"
	"github.com/ikanow/infinite-sdk-go/pkg/share"
)

// ===================================================================
// COLLABORATOR INTERFACES
// ===================================================================
//
// A workspace is stored as a share plus a backing data group, and its owner
// is a person. The three services below are everything Service needs; the
// concrete *group.Service, *share.Service and *person.Service satisfy them.

// ===================================================================
// Groups
// ===================================================================
// Groups manages the backing data group that holds workspace membership.
type Groups interface {
	// Add creates a group.
	Add(ctx context.Context, name, description string, tags any, parentID string) (*group.Group, error)

	// Get fetches one group.
	Get(ctx context.Context, groupID string) (*group.Group, error)

	// MemberInvite invites members and returns the refreshed group.
	MemberInvite(ctx context.Context, groupID string, memberIDs any, skipInvitation bool) (*group.Group, error)

	// UpdateMemberStatusRemove removes members and returns the refreshed group.
	UpdateMemberStatusRemove(ctx context.Context, groupID string, memberIDs any) (*group.Group, error)

	// Remove disables, and with force deletes, a group.
	Remove(ctx context.Context, groupID string, force bool) (*infinite.Envelope, error)
}

// ===================================================================
// Shares
// ===================================================================
// Shares persists the workspace record.
type Shares interface {
	// Create stores a new share.
	Create(ctx context.Context, dataGroupIDs any, shareType, title, description string, payload any) (*share.Share, error)

	// UpdateFromObject saves an existing share.
	UpdateFromObject(ctx context.Context, sh *share.Share) (*share.Share, error)

	// Get fetches one share.
	Get(ctx context.Context, id string, opts share.GetOptions) (*share.Share, error)

	// SearchByTypes lists shares of the given types.
	SearchByTypes(ctx context.Context, types any, nometa bool) ([]share.Share, error)

	// Remove deletes a share.
	Remove(ctx context.Context, id string) (*infinite.Envelope, error)
}

// ===================================================================
// People
// ===================================================================
// People looks up workspace owners.
type People interface {
	// Get fetches one person. With alwaysResolve an unknown person is
	// (nil, nil).
	Get(ctx context.Context, personID string, alwaysResolve bool) (*person.Person, error)

	// List returns every person visible to the caller.
	List(ctx context.Context) ([]person.Person, error)
}

var (
	_ Groups = (*group.Service)(nil)
	_ Shares = (*share.Service)(nil)
	_ People = (*person.Service)(nil)
)
