// Package feature wraps the knowledge feature suggestion endpoints.
//
// Every call is scoped to a set of data groups; pass "*" to search all of
// them. An empty data group list is rejected without a request.
package feature

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
)

const (
	// nullSegment stands in for an unset entity or verb.
	nullSegment = "null"

	dataGroupsName = "data group ids (use \"*\" for all)"
)

// Service talks to the feature endpoints.
type Service struct {
	client *infinite.Client
	base   string
	logger hclog.Logger
}

// NewService creates a feature service on top of client.
func NewService(client *infinite.Client) *Service {
	return &Service{
		client: client,
		base:   client.Endpoints().Features,
		logger: client.Logger().Named("feature"),
	}
}

// RawQuery issues a call relative to the feature base path.
func (s *Service) RawQuery(ctx context.Context, method, endpoint string, query infinite.Params, body any, opts ...infinite.QueryOption) (*infinite.Envelope, error) {
	return s.client.RawQuery(ctx, method, s.base+endpoint, query, body, opts...)
}

// AliasSuggest suggests aliases of term for field.
func (s *Service) AliasSuggest(ctx context.Context, field, term string, dataGroupIDs any) (*infinite.Envelope, error) {
	if err := infinite.RequireIDs("alias suggest", dataGroupsName, dataGroupIDs); err != nil {
		return nil, err
	}

	path := infinite.Path(s.base, "aliasSuggest", field, term, infinite.IDListAsString(dataGroupIDs))
	return s.suggest(ctx, "alias", path, nil)
}

// AssociationSuggest suggests values for searchField ("entity1", "verb" or
// "entity2") given the other parts of the association. Empty parts are sent
// as "null".
func (s *Service) AssociationSuggest(ctx context.Context, searchField string, dataGroupIDs any, entity1, verb, entity2 string) (*infinite.Envelope, error) {
	if err := infinite.RequireIDs("association suggest", dataGroupsName, dataGroupIDs); err != nil {
		return nil, err
	}

	path := infinite.Path(s.base, "assocSuggest",
		orNull(entity1),
		orNull(verb),
		orNull(entity2),
		searchField,
		infinite.IDListAsString(dataGroupIDs),
	)
	return s.suggest(ctx, "association", path, nil)
}

// VerbAssociationSuggest is AssociationSuggest on the verb field.
func (s *Service) VerbAssociationSuggest(ctx context.Context, dataGroupIDs any, entity1, verb, entity2 string) (*infinite.Envelope, error) {
	return s.AssociationSuggest(ctx, "verb", dataGroupIDs, entity1, verb, entity2)
}

// EntitySuggestOptions toggle extra entity data. nil leaves the platform
// default.
type EntitySuggestOptions struct {
	IncludeGeo      *bool
	IncludeLinkData *bool
}

// EntitySuggest suggests entities starting with fragment.
func (s *Service) EntitySuggest(ctx context.Context, fragment string, dataGroupIDs any, opts EntitySuggestOptions) (*infinite.Envelope, error) {
	if err := infinite.RequireIDs("entity suggest", dataGroupsName, dataGroupIDs); err != nil {
		return nil, err
	}

	query := infinite.Params{}
	if opts.IncludeGeo != nil {
		query["geo"] = *opts.IncludeGeo
	}
	if opts.IncludeLinkData != nil {
		query["linkdata"] = *opts.IncludeLinkData
	}

	path := infinite.Path(s.base, "entitySuggest", fragment, infinite.IDListAsString(dataGroupIDs))
	return s.suggest(ctx, "entity", path, query)
}

// GeoSuggest suggests locations starting with fragment.
func (s *Service) GeoSuggest(ctx context.Context, fragment string, dataGroupIDs any) (*infinite.Envelope, error) {
	if err := infinite.RequireIDs("geo suggest", dataGroupsName, dataGroupIDs); err != nil {
		return nil, err
	}

	path := infinite.Path(s.base, "geoSuggest", fragment, infinite.IDListAsString(dataGroupIDs))
	return s.suggest(ctx, "geo", path, nil)
}

func (s *Service) suggest(ctx context.Context, kind, path string, query infinite.Params) (*infinite.Envelope, error) {
	s.logger.Debug("requesting suggestions", "kind", kind)

	env, err := s.client.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s suggestions: %w", kind, err)
	}
	return env, nil
}

func orNull(v string) string {
	if v == "" {
		return nullSegment
	}
	return v
}
