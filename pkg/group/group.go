// Package group wraps the three group-like resources of the platform:
// communities, data groups and user groups. They share one URL scheme, so a
// single Service serves all three, parameterised by Kind and base path.
package group

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
)

// Service talks to one group resource.
type Service struct {
	client *infinite.Client
	kind   Kind
	base   string
	logger hclog.Logger
}

// NewService creates a group service for kind rooted at base.
func NewService(client *infinite.Client, kind Kind, base string) *Service {
	return &Service{
		client: client,
		kind:   kind,
		base:   base,
		logger: client.Logger().Named(kind.loggerName()),
	}
}

// NewCommunityService creates a service for communities.
func NewCommunityService(client *infinite.Client) *Service {
	return NewService(client, KindCommunity, client.Endpoints().Communities)
}

// NewDataGroupService creates a service for data groups.
func NewDataGroupService(client *infinite.Client) *Service {
	return NewService(client, KindDataGroup, client.Endpoints().DataGroups)
}

// NewUserGroupService creates a service for user groups.
func NewUserGroupService(client *infinite.Client) *Service {
	return NewService(client, KindUserGroup, client.Endpoints().UserGroups)
}

// Kind returns the kind of group this service manages.
func (s *Service) Kind() Kind {
	return s.kind
}

// RawQuery issues a call relative to the group base path.
func (s *Service) RawQuery(ctx context.Context, method, endpoint string, query infinite.Params, body any, opts ...infinite.QueryOption) (*infinite.Envelope, error) {
	return s.client.RawQuery(ctx, method, s.base+endpoint, query, body, opts...)
}

// ===================================================================
// Create / read
// ===================================================================

// Add creates a group. At least one tag is required; parentID is optional.
func (s *Service) Add(ctx context.Context, name, description string, tags any, parentID string) (*Group, error) {
	tagList := infinite.TagListAsString(tags)
	if err := infinite.RequireIDs(fmt.Sprintf("create %s", s.kind), "tags", tagList); err != nil {
		return nil, err
	}

	path := infinite.PathTrimmed(s.base, "add", name, description, tagList, parentID)

	s.logger.Debug("creating group", "name", name, "parent", parentID)

	env, err := s.client.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.kind, err)
	}
	return decodeGroup(env)
}

// Get fetches one group.
func (s *Service) Get(ctx context.Context, groupID string) (*Group, error) {
	env, err := s.client.Get(ctx, infinite.Path(s.base, "get", groupID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", s.kind, groupID, err)
	}
	return decodeGroup(env)
}

// GetAll lists every group the current user can see, optionally scoped to
// a project. A response without data is an empty list.
func (s *Service) GetAll(ctx context.Context, projectID string) ([]Group, error) {
	query := infinite.Params{}
	if projectID != "" {
		query["project_id"] = projectID
	}
	return s.list(ctx, "getall", query)
}

// GetAllByProjectID is GetAll scoped to projectID.
func (s *Service) GetAllByProjectID(ctx context.Context, projectID string) ([]Group, error) {
	return s.GetAll(ctx, projectID)
}

// GetPrivate lists the groups the current user is a member of.
func (s *Service) GetPrivate(ctx context.Context) ([]Group, error) {
	return s.list(ctx, "getprivate", nil)
}

// GetPublic lists the public groups.
func (s *Service) GetPublic(ctx context.Context) ([]Group, error) {
	return s.list(ctx, "getpublic", nil)
}

// GetSystem lists the system groups.
func (s *Service) GetSystem(ctx context.Context) ([]Group, error) {
	return s.list(ctx, "getsystem", nil)
}

func (s *Service) list(ctx context.Context, action string, query infinite.Params) ([]Group, error) {
	env, err := s.client.Get(ctx, infinite.Path(s.base, action), query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.kind, err)
	}

	data, err := infinite.ResolveWithDataOrArray(env)
	if err != nil {
		return nil, err
	}

	groups := []Group{}
	if err := infinite.Decode(data, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// ===================================================================
// Membership
// ===================================================================

// MemberInvite invites people (or user groups, for data groups) into
// groupID and returns the refreshed group. skipInvitation adds them
// directly.
func (s *Service) MemberInvite(ctx context.Context, groupID string, memberIDs any, skipInvitation bool) (*Group, error) {
	query := infinite.Params{}
	if skipInvitation {
		query["skipinvitation"] = true
	}

	path := infinite.Path(s.base, "member", "invite", groupID, infinite.IDListAsString(memberIDs))
	if _, err := s.client.Get(ctx, path, query); err != nil {
		return nil, fmt.Errorf("failed to invite members to %s %s: %w", s.kind, groupID, err)
	}

	return s.Get(ctx, groupID)
}

// MemberJoin asks for the current user to join groupID.
func (s *Service) MemberJoin(ctx context.Context, groupID string) (*infinite.Envelope, error) {
	return s.client.Get(ctx, infinite.Path(s.base, "member", "join", groupID), nil)
}

// MemberLeave removes the current user from groupID.
func (s *Service) MemberLeave(ctx context.Context, groupID string) (*infinite.Envelope, error) {
	return s.client.Get(ctx, infinite.Path(s.base, "member", "leave", groupID), nil)
}

// UpdateMemberStatus sets the status of one or more members and returns the
// refreshed group. status must be one of active, disabled, pending or
// remove.
func (s *Service) UpdateMemberStatus(ctx context.Context, groupID string, memberIDs any, status string) (*Group, error) {
	if err := infinite.RequireOneOf("update member status", "member status", status, memberStatuses...); err != nil {
		return nil, err
	}

	path := infinite.Path(s.base, "member", "update", "status", groupID, infinite.IDListAsString(memberIDs), status)
	if _, err := s.client.Get(ctx, path, nil); err != nil {
		return nil, fmt.Errorf("failed to update member status in %s %s: %w", s.kind, groupID, err)
	}

	return s.Get(ctx, groupID)
}

// UpdateMemberStatusActive activates members.
func (s *Service) UpdateMemberStatusActive(ctx context.Context, groupID string, memberIDs any) (*Group, error) {
	return s.UpdateMemberStatus(ctx, groupID, memberIDs, StatusActive)
}

// UpdateMemberStatusDisabled disables members.
func (s *Service) UpdateMemberStatusDisabled(ctx context.Context, groupID string, memberIDs any) (*Group, error) {
	return s.UpdateMemberStatus(ctx, groupID, memberIDs, StatusDisabled)
}

// UpdateMemberStatusPending marks members as pending.
func (s *Service) UpdateMemberStatusPending(ctx context.Context, groupID string, memberIDs any) (*Group, error) {
	return s.UpdateMemberStatus(ctx, groupID, memberIDs, StatusPending)
}

// UpdateMemberStatusRemove removes members.
func (s *Service) UpdateMemberStatusRemove(ctx context.Context, groupID string, memberIDs any) (*Group, error) {
	return s.UpdateMemberStatus(ctx, groupID, memberIDs, StatusRemove)
}

// RemoveMembers removes members from groupID.
func (s *Service) RemoveMembers(ctx context.Context, groupID string, memberIDs any) (*Group, error) {
	return s.UpdateMemberStatus(ctx, groupID, memberIDs, StatusRemove)
}

// UpdateMemberType changes the role of one member. memberType must be one of
// owner, content_publisher, moderator or member.
func (s *Service) UpdateMemberType(ctx context.Context, groupID, memberID, memberType string) (*infinite.Envelope, error) {
	if err := infinite.RequireOneOf("update member type", "member type", memberType, memberTypes...); err != nil {
		return nil, err
	}

	path := infinite.Path(s.base, "member", "update", "type", groupID, memberID, memberType)

	env, err := s.client.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to update member type in %s %s: %w", s.kind, groupID, err)
	}
	return env, nil
}

// UpdateMemberTypeOwner makes memberID an owner.
func (s *Service) UpdateMemberTypeOwner(ctx context.Context, groupID, memberID string) (*infinite.Envelope, error) {
	return s.UpdateMemberType(ctx, groupID, memberID, TypeOwner)
}

// UpdateMemberTypeContentPublisher makes memberID a content publisher.
func (s *Service) UpdateMemberTypeContentPublisher(ctx context.Context, groupID, memberID string) (*infinite.Envelope, error) {
	return s.UpdateMemberType(ctx, groupID, memberID, TypeContentPublisher)
}

// UpdateMemberTypeModerator makes memberID a moderator.
func (s *Service) UpdateMemberTypeModerator(ctx context.Context, groupID, memberID string) (*infinite.Envelope, error) {
	return s.UpdateMemberType(ctx, groupID, memberID, TypeModerator)
}

// UpdateMemberTypeMember makes memberID a plain member.
func (s *Service) UpdateMemberTypeMember(ctx context.Context, groupID, memberID string) (*infinite.Envelope, error) {
	return s.UpdateMemberType(ctx, groupID, memberID, TypeMember)
}

// RequestResponse answers a pending join or invite request.
func (s *Service) RequestResponse(ctx context.Context, requestID, response string) (*infinite.Envelope, error) {
	return s.client.Get(ctx, infinite.Path(s.base, "requestresponse", requestID, response), nil)
}

// ===================================================================
// Update / remove
// ===================================================================

// Update saves g and returns the refreshed group.
func (s *Service) Update(ctx context.Context, g *Group) (*Group, error) {
	if g == nil {
		return nil, infinite.ValidationError(fmt.Sprintf("update %s", s.kind), fmt.Errorf("%s object is empty", s.kind))
	}
	if g.ID == "" {
		return nil, infinite.ValidationError(fmt.Sprintf("update %s", s.kind), fmt.Errorf("cannot update a %s without an ID", s.kind))
	}

	if _, err := s.client.Post(ctx, infinite.Path(s.base, "update", g.ID), g, nil); err != nil {
		return nil, fmt.Errorf("failed to update %s %s: %w", s.kind, g.ID, err)
	}

	return s.Get(ctx, g.ID)
}

// Remove deletes groupID. The platform disables a group on the first call
// and deletes it on the second; with force the second call is made when the
// first did not already report a deletion.
func (s *Service) Remove(ctx context.Context, groupID string, force bool) (*infinite.Envelope, error) {
	path := infinite.Path(s.base, "remove", groupID)

	env, err := s.client.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to remove %s %s: %w", s.kind, groupID, err)
	}
	if deleted(env) || !force {
		return env, nil
	}

	s.logger.Debug("group disabled, removing again", "group", groupID)

	env, err = s.client.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to remove %s %s: %w", s.kind, groupID, err)
	}
	return env, nil
}

func deleted(env *infinite.Envelope) bool {
	return env.Response != nil && strings.Contains(env.Response.Message, "deleted")
}

func decodeGroup(env *infinite.Envelope) (*Group, error) {
	g, err := infinite.DecodeData[Group](env)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
