package group

import (
	"strings"

	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
)

// Kind names the flavour of group a Service manages.
type Kind string

const (
	KindCommunity Kind = "community"
	KindDataGroup Kind = "data group"
	KindUserGroup Kind = "user group"
)

// loggerName is the kind as a log name segment, e.g. "data_group".
func (k Kind) loggerName() string {
	return strings.ReplaceAll(string(k), " ", "_")
}

// Member statuses accepted by UpdateMemberStatus.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
	StatusPending  = "pending"
	StatusRemove   = "remove"
)

// Member types accepted by UpdateMemberType.
const (
	TypeOwner            = "owner"
	TypeContentPublisher = "content_publisher"
	TypeModerator        = "moderator"
	TypeMember           = "member"
)

var (
	memberStatuses = []string{StatusActive, StatusDisabled, StatusPending, StatusRemove}
	memberTypes    = []string{TypeOwner, TypeContentPublisher, TypeModerator, TypeMember}
)

// Group is a community, data group or user group record.
type Group struct {
	ID                  string        `json:"_id,omitempty"`
	Name                string        `json:"name,omitempty"`
	Description         string        `json:"description,omitempty"`
	Tags                []string      `json:"tags,omitempty"`
	OwnerID             string        `json:"ownerId,omitempty"`
	OwnerDisplayName    string        `json:"ownerDisplayName,omitempty"`
	Members             []Member      `json:"members,omitempty"`
	CommunityStatus     string        `json:"communityStatus,omitempty"`
	IsPersonalCommunity bool          `json:"isPersonalCommunity,omitempty"`
	ParentID            string        `json:"parentId,omitempty"`
	Type                string        `json:"type,omitempty"`
	Created             infinite.Time `json:"created,omitzero"`
	Modified            infinite.Time `json:"modified,omitzero"`
}

// Identifier implements infinite.Identified.
func (g Group) Identifier() string {
	return g.ID
}

// Member is one entry of a group's member list. Members may be people or,
// for data groups, user groups.
type Member struct {
	ID          string `json:"_id"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	UserType    string `json:"userType,omitempty"`
	UserStatus  string `json:"userStatus,omitempty"`
	Type        string `json:"type,omitempty"`
}

// Identifier implements infinite.Identified.
func (m Member) Identifier() string {
	return m.ID
}
