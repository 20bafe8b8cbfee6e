package workspace

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ikanow/infinite-sdk-go/pkg/group"
	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
)

// ShareType is the share type workspaces are stored under.
const ShareType = "infinite_project_config"

const (
	masterGroupNamePrefix  = "Workspace master group - "
	masterGroupDescription = "ISA workspace master group"
	masterTag              = "workspaceMaster"
	managedTag             = "managed"
)

// ErrNotFound is returned when a workspace does not exist or can no longer
// be reconstructed from its share, group and owner.
var ErrNotFound = errors.New("workspace not found")

// Workspace is the view composed from a share, its backing data group and
// the owner's profile.
type Workspace struct {
	ID               string           `json:"_id,omitempty"`
	Created          infinite.Time    `json:"created,omitzero"`
	Modified         infinite.Time    `json:"modified,omitzero"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Owner            Owner            `json:"owner"`
	WorkspaceGroupID string           `json:"workspaceGroupId,omitempty"`
	DataGroups       []infinite.IDRef `json:"dataGroups"`
	Members          []group.Member   `json:"members"`
	WorkspaceUserID  string           `json:"workspaceUserId,omitempty"`
}

// Identifier implements infinite.Identified.
func (w Workspace) Identifier() string {
	return w.ID
}

// Owner is the person who owns a workspace.
type Owner struct {
	ID          string `json:"_id"`
	DisplayName string `json:"displayName,omitempty"`
}

// Storage is the share payload of a workspace.
type Storage struct {
	ProjectOwnerID     string         `json:"projectOwnerId"`
	ProjectDataGroupID string         `json:"projectDataGroupId"`
	WorkspaceUserID    string         `json:"workspaceUserId,omitempty"`
	DataGroups         *DataGroupRefs `json:"dataGroups,omitempty"`
}

// ShareType implements share.Payload.
func (Storage) ShareType() string {
	return ShareType
}

// DataGroupRefs lists the data groups of a workspace. Older records carry a
// comma separated IDs string; newer ones carry Groups.
type DataGroupRefs struct {
	IDs    string           `json:"ids,omitempty"`
	Groups []infinite.IDRef `json:"groups,omitempty"`
}

// refs returns the data groups, preferring Groups over IDs.
func (d *DataGroupRefs) refs() []infinite.IDRef {
	if d == nil {
		return []infinite.IDRef{}
	}
	if d.Groups != nil {
		return append([]infinite.IDRef{}, d.Groups...)
	}
	return infinite.IDListAsObjects(d.IDs)
}

// NewWorkspace describes a workspace to create.
type NewWorkspace struct {
	Title       string
	Description string

	// DataGroups are the data groups the workspace searches, any id
	// reference form.
	DataGroups any

	// Members are invited into the backing group. The creator owns the
	// group and is skipped.
	Members []group.Member

	// Managed adds the "managed" tag to the backing group.
	Managed bool
}

// Validate checks the workspace definition.
func (n NewWorkspace) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Title, validation.Required),
	)
}

func (n NewWorkspace) tags() []string {
	tags := []string{masterTag}
	if n.Managed {
		tags = append(tags, managedTag)
	}
	return tags
}

// Changes are the fields Update applies over the current workspace. A nil
// field is left unchanged; a non-nil empty Members list removes every member
// but the owner.
type Changes struct {
	Title           *string
	Description     *string
	DataGroups      []infinite.IDRef
	Members         []group.Member
	WorkspaceUserID *string
}

// apply returns a copy of w with c merged over it.
func (c Changes) apply(w *Workspace) *Workspace {
	out := *w
	if c.Title != nil {
		out.Title = *c.Title
	}
	if c.Description != nil {
		out.Description = *c.Description
	}
	if c.DataGroups != nil {
		out.DataGroups = append([]infinite.IDRef{}, c.DataGroups...)
	}
	if c.Members != nil {
		out.Members = append([]group.Member{}, c.Members...)
	}
	if c.WorkspaceUserID != nil {
		out.WorkspaceUserID = *c.WorkspaceUserID
	}
	return &out
}
