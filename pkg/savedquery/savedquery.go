// Package savedquery exposes the saved query endpoints. The platform has no
// fixed operations here, so only RawQuery is provided.
package savedquery

import (
	"context"

	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
)

// Service talks to the saved query endpoints.
type Service struct {
	client *infinite.Client
	base   string
}

// NewService creates a saved query service on top of client.
func NewService(client *infinite.Client) *Service {
	return &Service{
		client: client,
		base:   client.Endpoints().SavedQueries,
	}
}

// RawQuery issues a call relative to the saved query base path.
func (s *Service) RawQuery(ctx context.Context, method, endpoint string, query infinite.Params, body any, opts ...infinite.QueryOption) (*infinite.Envelope, error) {
	return s.client.RawQuery(ctx, method, s.base+endpoint, query, body, opts...)
}
