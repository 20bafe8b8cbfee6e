// Package sdk bundles one service per platform resource behind a single
// client so callers share a session and logger.
package sdk

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/ikanow/infinite-sdk-go/pkg/auth"
	"github.com/ikanow/infinite-sdk-go/pkg/document"
	"github.com/ikanow/infinite-sdk-go/pkg/feature"
	"github.com/ikanow/infinite-sdk-go/pkg/group"
	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
	"github.com/ikanow/infinite-sdk-go/pkg/mapreduce"
	"github.com/ikanow/infinite-sdk-go/pkg/person"
	"github.com/ikanow/infinite-sdk-go/pkg/savedquery"
	"github.com/ikanow/infinite-sdk-go/pkg/share"
	"github.com/ikanow/infinite-sdk-go/pkg/source"
	"github.com/ikanow/infinite-sdk-go/pkg/workspace"
)

// SDK holds the platform services.
type SDK struct {
	Client *infinite.Client

	Auth         *auth.Service
	Sources      *source.Service
	MapReduce    *mapreduce.Service
	SavedQueries *savedquery.Service
	Documents    *document.Service
	Features     *feature.Service
	Communities  *group.Service
	DataGroups   *group.Service
	UserGroups   *group.Service
	People       *person.Service
	Shares       *share.Service
	Workspaces   *workspace.Service
}

// New creates the client for cfg and every service on top of it.
func New(cfg *infinite.Config, opts ...infinite.ClientOption) (*SDK, error) {
	client, err := infinite.NewClient(cfg, opts...)
	if err != nil {
		return nil, err
	}

	s := &SDK{
		Client:       client,
		Auth:         auth.NewService(client),
		Sources:      source.NewService(client),
		MapReduce:    mapreduce.NewService(client),
		SavedQueries: savedquery.NewService(client),
		Documents:    document.NewService(client),
		Features:     feature.NewService(client),
		Communities:  group.NewCommunityService(client),
		DataGroups:   group.NewDataGroupService(client),
		UserGroups:   group.NewUserGroupService(client),
		People:       person.NewService(client),
		Shares:       share.NewService(client),
	}
	s.Workspaces = workspace.NewService(s.DataGroups, s.Shares, s.People, client.Logger())
	return s, nil
}

// NewFromFile loads an HCL or YAML config file from fs and calls New.
func NewFromFile(fs afero.Fs, path string, opts ...infinite.ClientOption) (*SDK, error) {
	cfg, err := infinite.LoadConfig(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return New(cfg, opts...)
}
