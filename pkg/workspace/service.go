// Package workspace presents a workspace as one object although the platform
// stores it as a share (type infinite_project_config) plus a backing data
// group holding its members.
//
// Multi-step operations are not transactional. When a later step fails the
// earlier ones stay applied and the returned error names what was already
// created or removed.
package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/ikanow/infinite-sdk-go/pkg/group"
	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
	"github.com/ikanow/infinite-sdk-go/pkg/person"
	"github.com/ikanow/infinite-sdk-go/pkg/share"
)

// maxParallelBuilds bounds the concurrent share-to-workspace builds of GetAll.
const maxParallelBuilds = 8

// Service composes workspaces from groups, shares and people.
type Service struct {
	groups Groups
	shares Shares
	people People
	logger hclog.Logger
}

// NewService creates a workspace service. groups must manage data groups.
func NewService(groups Groups, shares Shares, people People, logger hclog.Logger) *Service {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Service{
		groups: groups,
		shares: shares,
		people: people,
		logger: logger.Named("workspace"),
	}
}

// ===================================================================
// Read path
// ===================================================================

// build reconstructs a workspace from its share. The group and owner are
// fetched concurrently; the owner is taken from people when it is given.
// A nil workspace means the group or owner could not be found.
func (s *Service) build(ctx context.Context, sh *share.Share, people []person.Person) (*Workspace, error) {
	storage, err := DecodeStorage(sh)
	if err != nil {
		return nil, err
	}

	var (
		g     *group.Group
		owner *person.Person
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		g, err = s.lookupGroup(egCtx, storage.ProjectDataGroupID)
		return err
	})
	eg.Go(func() error {
		if people != nil {
			owner = findPerson(people, storage.ProjectOwnerID)
			return nil
		}
		var err error
		owner, err = s.people.Get(egCtx, storage.ProjectOwnerID, true)
		if err != nil {
			return fmt.Errorf("failed to get owner %s of workspace %s: %w", storage.ProjectOwnerID, sh.ID, err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	w := assemble(sh, storage, g, owner)
	if w == nil {
		s.logger.Warn("cannot build workspace from share, data is missing or access has changed",
			"share", sh.ID, "group", storage.ProjectDataGroupID, "owner", storage.ProjectOwnerID,
			"group_found", g != nil, "owner_found", owner != nil)
	}
	return w, nil
}

// lookupGroup fetches the backing group. A group the platform reports as
// unavailable is nil, not an error.
func (s *Service) lookupGroup(ctx context.Context, groupID string) (*group.Group, error) {
	if groupID == "" {
		return nil, nil
	}

	g, err := s.groups.Get(ctx, groupID)
	if err != nil {
		if unavailable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workspace group %s: %w", groupID, err)
	}
	if g == nil || g.ID == "" {
		return nil, nil
	}
	return g, nil
}

func unavailable(err error) bool {
	return infinite.IsLogicalFailure(err) ||
		errors.Is(err, infinite.ErrMissingData) ||
		errors.Is(err, infinite.ErrEmptyResponse)
}

func findPerson(people []person.Person, id string) *person.Person {
	for i := range people {
		if people[i].ID == id {
			p := people[i]
			return &p
		}
	}
	return nil
}

// GetAll lists every workspace the caller can see. Shares whose group or
// owner is gone, or whose payload cannot be read, are left out.
func (s *Service) GetAll(ctx context.Context) ([]*Workspace, error) {
	s.logger.Debug("fetching all workspaces")

	var (
		shares []share.Share
		people []person.Person
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		shares, err = s.shares.SearchByTypes(egCtx, ShareType, false)
		if err != nil {
			return fmt.Errorf("failed to list workspace shares: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		people, err = s.people.List(egCtx)
		if err != nil {
			return fmt.Errorf("failed to list people: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if people == nil {
		people = []person.Person{}
	}

	built := make([]*Workspace, len(shares))

	eg, egCtx = errgroup.WithContext(ctx)
	eg.SetLimit(maxParallelBuilds)
	for i := range shares {
		eg.Go(func() error {
			w, err := s.build(egCtx, &shares[i], people)
			if err != nil {
				if errors.Is(err, share.ErrTypeMismatch) || errors.Is(err, share.ErrInvalidPayload) {
					s.logger.Warn("skipping unreadable workspace share", "share", shares[i].ID, "error", err)
					return nil
				}
				return err
			}
			built[i] = w
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	workspaces := make([]*Workspace, 0, len(built))
	for _, w := range built {
		if w != nil {
			workspaces = append(workspaces, w)
		}
	}
	return workspaces, nil
}

// Get fetches one workspace.
func (s *Service) Get(ctx context.Context, id string) (*Workspace, error) {
	sh, err := s.shares.Get(ctx, id, share.GetOptions{})
	if err != nil {
		if infinite.IsLogicalFailure(err) {
			return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, id, err)
		}
		return nil, err
	}

	w, err := s.build(ctx, sh, nil)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return w, nil
}

// ===================================================================
// Write path
// ===================================================================

// Create creates the backing group, invites the members and stores the
// workspace share.
func (s *Service) Create(ctx context.Context, def NewWorkspace) (*Workspace, error) {
	if err := def.Validate(); err != nil {
		return nil, infinite.ValidationError("create workspace", err)
	}

	g, err := s.groups.Add(ctx, masterGroupNamePrefix+def.Title, masterGroupDescription, def.tags(), "")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace group: %w", err)
	}
	if g.ID == "" {
		return nil, fmt.Errorf("failed to create workspace group: %w", infinite.ErrMissingID)
	}

	s.logger.Debug("created workspace group", "group", g.ID, "title", def.Title)

	owner := Owner{ID: g.OwnerID, DisplayName: g.OwnerDisplayName}

	var invite []group.Member
	for _, m := range def.Members {
		if m.ID != owner.ID {
			invite = append(invite, m)
		}
	}

	var refreshed *group.Group
	if len(invite) > 0 {
		refreshed, err = s.groups.MemberInvite(ctx, g.ID, invite, true)
	} else {
		refreshed, err = s.groups.Get(ctx, g.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("workspace group %s was created but adding members failed: %w", g.ID, err)
	}
	if refreshed == nil {
		refreshed = g
	}
	if refreshed.OwnerID != "" {
		owner = Owner{ID: refreshed.OwnerID, DisplayName: refreshed.OwnerDisplayName}
	}

	w := &Workspace{
		Title:            def.Title,
		Description:      def.Description,
		Owner:            owner,
		WorkspaceGroupID: g.ID,
		DataGroups:       infinite.IDListAsObjects(def.DataGroups),
		Members:          refreshed.Members,
	}
	if w.Members == nil {
		w.Members = []group.Member{}
	}

	sh, err := s.shares.Create(ctx, w.WorkspaceGroupID, ShareType, w.Title, w.Description, w.Storage())
	if err != nil {
		return nil, fmt.Errorf("workspace group %s was created but creating the workspace share failed: %w", g.ID, err)
	}

	w.ID = sh.ID
	w.Created = sh.Created
	w.Modified = sh.Modified
	return w, nil
}

// Update applies changes to workspace id. Membership changes are made on
// the backing group; everything else is saved in the share. The workspace
// is rebuilt from the saved share.
func (s *Service) Update(ctx context.Context, id string, changes Changes) (*Workspace, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := changes.apply(current)
	add, remove := DiffMembers(current.Members, updated.Members, current.Owner.ID)

	s.logger.Debug("updating workspace", "workspace", id, "add", len(add), "remove", len(remove))

	var mg multierror.Group
	if len(add) > 0 {
		mg.Go(func() error {
			if _, err := s.groups.MemberInvite(ctx, current.WorkspaceGroupID, add, true); err != nil {
				return fmt.Errorf("failed to add workspace members: %w", err)
			}
			return nil
		})
	}
	if len(remove) > 0 {
		mg.Go(func() error {
			if _, err := s.groups.UpdateMemberStatusRemove(ctx, current.WorkspaceGroupID, remove); err != nil {
				return fmt.Errorf("failed to remove workspace members: %w", err)
			}
			return nil
		})
	}
	if err := mg.Wait().ErrorOrNil(); err != nil {
		return nil, err
	}

	sh, err := ToShare(updated)
	if err != nil {
		return nil, err
	}

	saved, err := s.shares.UpdateFromObject(ctx, sh)
	if err != nil {
		return nil, fmt.Errorf("failed to save workspace %s: %w", id, err)
	}

	w, err := s.build(ctx, saved, nil)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return w, nil
}

// Remove deletes the workspace share, then deletes its backing group.
func (s *Service) Remove(ctx context.Context, id string) error {
	sh, err := s.shares.Get(ctx, id, share.GetOptions{})
	if err != nil {
		if infinite.IsLogicalFailure(err) {
			return fmt.Errorf("%w: %s: %w", ErrNotFound, id, err)
		}
		return err
	}

	storage, err := DecodeStorage(sh)
	if err != nil {
		return err
	}

	if _, err := s.shares.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to remove workspace share %s: %w", id, err)
	}

	if storage.ProjectDataGroupID == "" {
		return nil
	}
	if _, err := s.groups.Remove(ctx, storage.ProjectDataGroupID, true); err != nil {
		return fmt.Errorf("workspace share %s was removed but removing group %s failed: %w", id, storage.ProjectDataGroupID, err)
	}
	return nil
}

// NamesAvailable reports, per name, whether a workspace may use it. The
// platform does not enforce unique workspace titles, so every name is
// available.
func (s *Service) NamesAvailable(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, name := range names {
		out[name] = true
	}
	return out
}
