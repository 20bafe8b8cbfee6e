// Package source wraps the source configuration endpoints.
//
// Source definitions are large, loosely structured documents; they are
// passed through as maps and results are returned as raw envelopes.
package source

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
)

// DefaultTestItemCount is the number of documents Test returns by default.
const DefaultTestItemCount = 10

// Service talks to the source endpoints.
type Service struct {
	client *infinite.Client
	base   string
	logger hclog.Logger
}

// NewService creates a source service on top of client.
func NewService(client *infinite.Client) *Service {
	return &Service{
		client: client,
		base:   client.Endpoints().Sources,
		logger: client.Logger().Named("source"),
	}
}

// RawQuery issues a call relative to the source base path.
func (s *Service) RawQuery(ctx context.Context, method, endpoint string, query infinite.Params, body any, opts ...infinite.QueryOption) (*infinite.Envelope, error) {
	return s.client.RawQuery(ctx, method, s.base+endpoint, query, body, opts...)
}

// Get returns one source by id or key.
func (s *Service) Get(ctx context.Context, idOrKey string) (*infinite.Envelope, error) {
	env, err := s.client.Get(ctx, infinite.Path(s.base, "get", idOrKey), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}
	return env, nil
}

// GetGood lists the working sources of the given data groups. Empty ids
// mean every group ("*"). stripped defaults to true when nil.
func (s *Service) GetGood(ctx context.Context, dataGroupIDs any, projectID string, stripped *bool) (*infinite.Envelope, error) {
	return s.list(ctx, "good", dataGroupIDs, projectID, stripped)
}

// GetBad lists the failing sources of the given data groups.
func (s *Service) GetBad(ctx context.Context, dataGroupIDs any, projectID string, stripped *bool) (*infinite.Envelope, error) {
	return s.list(ctx, "bad", dataGroupIDs, projectID, stripped)
}

// GetPending lists the sources awaiting approval in the given data groups.
func (s *Service) GetPending(ctx context.Context, dataGroupIDs any, projectID string, stripped *bool) (*infinite.Envelope, error) {
	return s.list(ctx, "pending", dataGroupIDs, projectID, stripped)
}

func (s *Service) list(ctx context.Context, state string, dataGroupIDs any, projectID string, stripped *bool) (*infinite.Envelope, error) {
	ids := infinite.IDListAsString(dataGroupIDs)
	if ids == "" {
		ids = "*"
	}

	query := infinite.Params{"stripped": stripped == nil || *stripped}
	if projectID != "" {
		query["project_id"] = projectID
	}

	env, err := s.client.Get(ctx, infinite.Path(s.base, state, ids), query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s sources: %w", state, err)
	}
	return env, nil
}

// GetUserSources lists the sources visible to the current user.
func (s *Service) GetUserSources(ctx context.Context, communityFilter, userFilter, stripped bool) (*infinite.Envelope, error) {
	query := infinite.Params{
		"communityFilter": communityFilter,
		"userFilter":      userFilter,
		"stripped":        stripped,
	}
	return s.client.Get(ctx, infinite.Path(s.base, "user"), query)
}

// Remove deletes a source from a data group.
func (s *Service) Remove(ctx context.Context, idOrKey, dataGroupID string) (*infinite.Envelope, error) {
	s.logger.Debug("removing source", "source", idOrKey, "data_group", dataGroupID)
	return s.client.Get(ctx, infinite.Path(s.base, "delete", idOrKey, dataGroupID), nil)
}

// RemoveDocuments deletes every document harvested by a source but keeps the
// source itself.
func (s *Service) RemoveDocuments(ctx context.Context, idOrKey, dataGroupID string) (*infinite.Envelope, error) {
	s.logger.Debug("removing source documents", "source", idOrKey, "data_group", dataGroupID)
	return s.client.Get(ctx, infinite.Path(s.base, "delete", "docs", idOrKey, dataGroupID), nil)
}

// Save creates or updates a source in a data group.
func (s *Service) Save(ctx context.Context, dataGroupID string, def map[string]any) (*infinite.Envelope, error) {
	env, err := s.client.Post(ctx, infinite.Path(s.base, "save", dataGroupID), def, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to save source: %w", err)
	}
	return env, nil
}

// Suspend suspends (true) or resumes (false) harvesting of a source.
func (s *Service) Suspend(ctx context.Context, idOrKey, dataGroupID string, suspend bool) (*infinite.Envelope, error) {
	path := infinite.Path(s.base, "suspend", idOrKey, dataGroupID, strconv.FormatBool(suspend))
	return s.client.Get(ctx, path, nil)
}

// TestOptions control a test harvest.
type TestOptions struct {
	// ReturnItemCount is the number of documents to return.
	// Default: 10 when zero or negative.
	ReturnItemCount int
	ReturnFullText  bool
	TestUpdates     bool
}

// Test runs a source definition without saving it.
func (s *Service) Test(ctx context.Context, def map[string]any, opts TestOptions) (*infinite.Envelope, error) {
	count := opts.ReturnItemCount
	if count <= 0 {
		count = DefaultTestItemCount
	}

	query := infinite.Params{
		"numReturn":      count,
		"returnFullText": opts.ReturnFullText,
	}
	if opts.TestUpdates {
		query["testUpdates"] = true
	}

	env, err := s.client.Post(ctx, infinite.Path(s.base, "test"), def, query)
	if err != nil {
		return nil, fmt.Errorf("failed to test source: %w", err)
	}
	return env, nil
}
