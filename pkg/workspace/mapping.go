package workspace

import (
	"fmt"

	"github.com/ikanow/infinite-sdk-go/pkg/group"
	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
	"github.com/ikanow/infinite-sdk-go/pkg/person"
	"github.com/ikanow/infinite-sdk-go/pkg/share"
)

// DecodeStorage returns the workspace payload of sh.
func DecodeStorage(sh *share.Share) (Storage, error) {
	return share.DecodePayload[Storage](sh)
}

// FromShare builds a workspace from its share, backing group and owner. It
// returns nil when the group or owner is missing.
func FromShare(sh *share.Share, g *group.Group, owner *person.Person) (*Workspace, error) {
	storage, err := DecodeStorage(sh)
	if err != nil {
		return nil, err
	}
	return assemble(sh, storage, g, owner), nil
}

func assemble(sh *share.Share, storage Storage, g *group.Group, owner *person.Person) *Workspace {
	if g == nil || owner == nil {
		return nil
	}

	members := g.Members
	if members == nil {
		members = []group.Member{}
	}

	return &Workspace{
		ID:               sh.ID,
		Created:          sh.Created,
		Modified:         sh.Modified,
		Title:            sh.Title,
		Description:      sh.Description,
		Owner:            Owner{ID: owner.ID, DisplayName: owner.DisplayName},
		WorkspaceGroupID: storage.ProjectDataGroupID,
		DataGroups:       storage.DataGroups.refs(),
		Members:          append([]group.Member{}, members...),
		WorkspaceUserID:  storage.WorkspaceUserID,
	}
}

// Storage returns the share payload for w.
func (w *Workspace) Storage() Storage {
	return Storage{
		ProjectOwnerID:     w.Owner.ID,
		ProjectDataGroupID: w.WorkspaceGroupID,
		WorkspaceUserID:    w.WorkspaceUserID,
		DataGroups: &DataGroupRefs{
			IDs: infinite.IDListAsString(w.DataGroups),
		},
	}
}

// ToShare returns the share record that stores w.
func ToShare(w *Workspace) (*share.Share, error) {
	if w == nil {
		return nil, fmt.Errorf("cannot convert a nil workspace")
	}

	body, err := share.EncodePayload(w.Storage())
	if err != nil {
		return nil, err
	}

	sh := &share.Share{
		ID:          w.ID,
		Created:     w.Created,
		Modified:    w.Modified,
		Title:       w.Title,
		Description: w.Description,
		Type:        ShareType,
		Share:       body,
	}
	if w.WorkspaceGroupID != "" {
		sh.Communities = []share.Community{{ID: w.WorkspaceGroupID}}
	}
	if w.Owner.ID != "" {
		sh.Owner = &share.Owner{ID: w.Owner.ID, DisplayName: w.Owner.DisplayName}
	}
	return sh, nil
}

// DiffMembers compares two member lists by id. The owner is ignored on both
// sides. add holds the members only in updated, remove those only in
// current; both keep the order of their source list.
func DiffMembers(current, updated []group.Member, ownerID string) (add, remove []group.Member) {
	currentIDs := memberIDs(current, ownerID)
	updatedIDs := memberIDs(updated, ownerID)

	for _, m := range updated {
		if m.ID == ownerID {
			continue
		}
		if _, ok := currentIDs[m.ID]; !ok {
			add = append(add, m)
		}
	}
	for _, m := range current {
		if m.ID == ownerID {
			continue
		}
		if _, ok := updatedIDs[m.ID]; !ok {
			remove = append(remove, m)
		}
	}
	return add, remove
}

func memberIDs(members []group.Member, ownerID string) map[string]struct{} {
	ids := make(map[string]struct{}, len(members))
	for _, m := range members {
		if m.ID != ownerID {
			ids[m.ID] = struct{}{}
		}
	}
	return ids
}
