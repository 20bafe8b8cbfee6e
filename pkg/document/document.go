// Package document wraps the knowledge document endpoints.
package document

import (
	"context"
	"fmt"
	"maps"

	"github.com/hashicorp/go-hclog"

	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
)

// Service talks to the document endpoints.
type Service struct {
	client *infinite.Client
	base   string
	logger hclog.Logger
}

// NewService creates a document service on top of client.
func NewService(client *infinite.Client) *Service {
	return &Service{
		client: client,
		base:   client.Endpoints().Documents,
		logger: client.Logger().Named("document"),
	}
}

// RawQuery issues a call relative to the document base path.
func (s *Service) RawQuery(ctx context.Context, method, endpoint string, query infinite.Params, body any, opts ...infinite.QueryOption) (*infinite.Envelope, error) {
	return s.client.RawQuery(ctx, method, s.base+endpoint, query, body, opts...)
}

// Query runs a platform query over the given data groups. Use "*" to search
// every group. The caller's query map is not modified.
func (s *Service) Query(ctx context.Context, dataGroupIDs any, projectID string, query map[string]any) (*infinite.Envelope, error) {
	if err := infinite.RequireIDs("query documents", "data group ids (use \"*\" for all)", dataGroupIDs); err != nil {
		return nil, err
	}

	body := make(map[string]any, len(query)+1)
	maps.Copy(body, query)
	if projectID != "" {
		body["project_id"] = projectID
	}

	path := infinite.Path(s.base, "query", infinite.IDListAsString(dataGroupIDs))

	s.logger.Debug("querying documents", "data_groups", infinite.IDListAsString(dataGroupIDs), "project", projectID)

	env, err := s.client.Post(ctx, path, body, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	return env, nil
}

// GetFile fetches a file harvested by a file source.
func (s *Service) GetFile(ctx context.Context, sourceKey, path string) (*infinite.Envelope, error) {
	return s.client.Get(ctx, infinite.Path(s.base, "file", "get", sourceKey, path), nil, infinite.AlwaysResolve())
}

// GetOptions select optional document content. nil leaves the platform
// default.
type GetOptions struct {
	FullText *bool
	RawData  *bool
}

func (o GetOptions) params() infinite.Params {
	query := infinite.Params{}
	if o.FullText != nil {
		query["returnFullText"] = *o.FullText
	}
	if o.RawData != nil {
		query["returnRawData"] = *o.RawData
	}
	return query
}

// GetByID fetches one document.
func (s *Service) GetByID(ctx context.Context, id string, opts GetOptions) (*infinite.Envelope, error) {
	env, err := s.client.Get(ctx, infinite.Path(s.base, "get", id), opts.params())
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return env, nil
}

// GetBySourceKey fetches the document a source harvested from docURL.
func (s *Service) GetBySourceKey(ctx context.Context, sourceKey, docURL string, opts GetOptions) (*infinite.Envelope, error) {
	s.logger.Debug("getting document by source key", "source_key", sourceKey, "url", docURL)

	env, err := s.client.Get(ctx, infinite.Path(s.base, "get", sourceKey, docURL), opts.params())
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return env, nil
}
