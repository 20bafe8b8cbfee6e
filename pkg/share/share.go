// Package share wraps the share endpoints.
//
// Shares are the platform's catch-all storage record. Structured bodies are
// modelled as Payload types and decoded once with DecodePayload.
package share

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
)

// Service talks to the share endpoints.
type Service struct {
	client *infinite.Client
	base   string
	logger hclog.Logger
}

// NewService creates a share service on top of client.
func NewService(client *infinite.Client) *Service {
	return &Service{
		client: client,
		base:   client.Endpoints().Shares,
		logger: client.Logger().Named("share"),
	}
}

// RawQuery issues a call relative to the share base path.
func (s *Service) RawQuery(ctx context.Context, method, endpoint string, query infinite.Params, body any, opts ...infinite.QueryOption) (*infinite.Envelope, error) {
	return s.client.RawQuery(ctx, method, s.base+endpoint, query, body, opts...)
}

// writeRequest is the create/update body.
type writeRequest struct {
	ID          string           `json:"_id,omitempty"`
	Communities []infinite.IDRef `json:"communities"`
	Type        string           `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Share       string           `json:"share"`
}

func newWriteRequest(id string, dataGroupIDs any, shareType, title, description string, payload any) (*writeRequest, error) {
	body, err := EncodePayload(payload)
	if err != nil {
		return nil, err
	}
	return &writeRequest{
		ID:          id,
		Communities: infinite.IDListAsObjects(dataGroupIDs),
		Type:        shareType,
		Title:       title,
		Description: description,
		Share:       body,
	}, nil
}

// ===================================================================
// Create / update
// ===================================================================

// Create stores a new share visible in dataGroupIDs. payload is encoded
// with EncodePayload.
func (s *Service) Create(ctx context.Context, dataGroupIDs any, shareType, title, description string, payload any) (*Share, error) {
	req, err := newWriteRequest("", dataGroupIDs, shareType, title, description, payload)
	if err != nil {
		return nil, err
	}

	env, err := s.client.Post(ctx, s.base, req, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create share: %w", err)
	}
	return decodeShare(env)
}

// Update replaces share id.
func (s *Service) Update(ctx context.Context, id string, dataGroupIDs any, shareType, title, description string, payload any) (*Share, error) {
	req, err := newWriteRequest(id, dataGroupIDs, shareType, title, description, payload)
	if err != nil {
		return nil, err
	}

	env, err := s.client.Put(ctx, s.base, req, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to update share %s: %w", id, err)
	}
	return decodeShare(env)
}

// Upsert updates share id, or creates a new share when id is empty.
func (s *Service) Upsert(ctx context.Context, id string, dataGroupIDs any, shareType, title, description string, payload any) (*Share, error) {
	if id == "" {
		return s.Create(ctx, dataGroupIDs, shareType, title, description, payload)
	}
	return s.Update(ctx, id, dataGroupIDs, shareType, title, description, payload)
}

// CreateFromObject creates a share from a record.
func (s *Service) CreateFromObject(ctx context.Context, sh *Share) (*Share, error) {
	return s.Create(ctx, sh.Communities, sh.Type, sh.Title, sh.Description, sh.Share)
}

// UpdateFromObject saves a record; its ID selects the share.
func (s *Service) UpdateFromObject(ctx context.Context, sh *Share) (*Share, error) {
	return s.Update(ctx, sh.ID, sh.Communities, sh.Type, sh.Title, sh.Description, sh.Share)
}

// UploadFile stores raw bytes as a share. An empty contentType sends
// application/octet-stream.
func (s *Service) UploadFile(ctx context.Context, dataGroupIDs any, shareType, title, description string, data []byte, contentType string) (*Share, error) {
	query := infinite.Params{
		"communityIds": infinite.IDListAsString(dataGroupIDs),
		"type":         shareType,
		"title":        title,
		"description":  description,
	}

	var opts []infinite.QueryOption
	if contentType != "" {
		opts = append(opts, infinite.ForceContentType(contentType))
	}

	env, err := s.client.Post(ctx, s.base, data, query, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to upload share: %w", err)
	}
	return decodeShare(env)
}

// ===================================================================
// Read
// ===================================================================

// GetOptions control Get.
type GetOptions struct {
	// NoContent omits the share body.
	NoContent bool

	// NoMeta returns the body without the record around it.
	NoMeta bool

	// AlwaysResolve returns (nil, nil) instead of an error when the
	// platform cannot return the share.
	AlwaysResolve bool
}

// Get fetches one share.
func (s *Service) Get(ctx context.Context, id string, opts GetOptions) (*Share, error) {
	query := infinite.Params{}
	if opts.NoContent {
		query["nocontent"] = true
	}
	if opts.NoMeta {
		query["nometa"] = true
	}

	env, err := s.client.Get(ctx, infinite.Path(s.base, "get", id), query, infinite.AlwaysResolveIf(opts.AlwaysResolve))
	if err != nil {
		return nil, fmt.Errorf("failed to get share %s: %w", id, err)
	}
	if opts.AlwaysResolve && (!env.Succeeded() || env.Data == nil) {
		return nil, nil
	}
	return decodeShare(env)
}

// GetRaw fetches a share without checking the response status. Binary
// shares come back with their body as Data.
func (s *Service) GetRaw(ctx context.Context, id string) (*infinite.Envelope, error) {
	return s.client.Get(ctx, infinite.Path(s.base, "get", id), nil, infinite.AlwaysResolve())
}

// FileURL returns a download link for a share's body.
func (s *Service) FileURL(id string) string {
	return s.client.URL(infinite.Path(s.base, "get", id), infinite.Params{"nometa": true})
}

// Search lists shares matching params. A response without data is an empty
// list.
func (s *Service) Search(ctx context.Context, params infinite.Params) ([]Share, error) {
	env, err := s.client.Get(ctx, infinite.Path(s.base, "search"), params)
	if err != nil {
		return nil, fmt.Errorf("failed to search shares: %w", err)
	}

	data, err := infinite.ResolveWithDataOrArray(env)
	if err != nil {
		return nil, err
	}

	shares := []Share{}
	if data == nil {
		return shares, nil
	}
	if err := infinite.Decode(data, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

// SearchByTypes lists the shares of the given types.
func (s *Service) SearchByTypes(ctx context.Context, types any, nometa bool) ([]Share, error) {
	return s.Search(ctx, infinite.Params{
		"type":   infinite.IDListAsString(types),
		"nometa": nometa,
	})
}

// SearchByType is SearchByTypes.
func (s *Service) SearchByType(ctx context.Context, types any, nometa bool) ([]Share, error) {
	return s.SearchByTypes(ctx, types, nometa)
}

// SearchByGroups lists the shares visible in the given data groups,
// optionally restricted to types.
func (s *Service) SearchByGroups(ctx context.Context, groupIDs, types any, nometa bool) ([]Share, error) {
	return s.searchBy(ctx, "community", groupIDs, types, nometa)
}

// SearchByUsers lists the shares owned by the given people, optionally
// restricted to types.
func (s *Service) SearchByUsers(ctx context.Context, userIDs, types any, nometa bool) ([]Share, error) {
	return s.searchBy(ctx, "person", userIDs, types, nometa)
}

func (s *Service) searchBy(ctx context.Context, by string, ids, types any, nometa bool) ([]Share, error) {
	params := infinite.Params{
		"searchby": by,
		"id":       infinite.IDListAsString(ids),
		"nometa":   nometa,
	}
	if t := infinite.IDListAsString(types); t != "" {
		params["type"] = t
	}
	return s.Search(ctx, params)
}

// ===================================================================
// Remove / visibility
// ===================================================================

// Remove deletes a share.
func (s *Service) Remove(ctx context.Context, id string) (*infinite.Envelope, error) {
	s.logger.Debug("removing share", "share", id)

	env, err := s.client.Get(ctx, infinite.Path(s.base, "remove", id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to remove share %s: %w", id, err)
	}
	return env, nil
}

// AddDataGroupToShare makes a share visible in another data group.
// allowWrite nil leaves the platform default.
func (s *Service) AddDataGroupToShare(ctx context.Context, shareID, dataGroupID, comment string, allowWrite *bool) (*infinite.Envelope, error) {
	query := infinite.Params{}
	if allowWrite != nil {
		query["readWrite"] = *allowWrite
	}

	path := infinite.Path(s.base, "add", "community", shareID, comment, dataGroupID)
	return s.client.Get(ctx, path, query)
}

// RemoveDataGroupFromShare hides a share from a data group.
func (s *Service) RemoveDataGroupFromShare(ctx context.Context, shareID, dataGroupID string) (*infinite.Envelope, error) {
	return s.client.Get(ctx, infinite.Path(s.base, "remove", "community", shareID, dataGroupID), nil)
}

func decodeShare(env *infinite.Envelope) (*Share, error) {
	sh, err := infinite.DecodeData[Share](env)
	if err != nil {
		return nil, err
	}
	return &sh, nil
}
