// Package mapreduce wraps the custom map-reduce job endpoints.
package mapreduce

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
)

// nullSegment stands in for an unset path segment.
const nullSegment = "null"

// Service talks to the map-reduce endpoints.
type Service struct {
	client *infinite.Client
	base   string
	logger hclog.Logger
}

// NewService creates a map-reduce service on top of client.
func NewService(client *infinite.Client) *Service {
	return &Service{
		client: client,
		base:   client.Endpoints().MapReduce,
		logger: client.Logger().Named("mapreduce"),
	}
}

// RawQuery issues a call relative to the map-reduce base path.
func (s *Service) RawQuery(ctx context.Context, method, endpoint string, query infinite.Params, body any, opts ...infinite.QueryOption) (*infinite.Envelope, error) {
	return s.client.RawQuery(ctx, method, s.base+endpoint, query, body, opts...)
}

// Run executes an ad hoc map-reduce over inputCollection.
func (s *Service) Run(ctx context.Context, inputCollection, mapFn, reduceFn, query string) (*infinite.Envelope, error) {
	path := infinite.Path(s.base, inputCollection, mapFn, reduceFn, query)

	env, err := s.client.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to run map-reduce: %w", err)
	}
	return env, nil
}

// ListJobs lists scheduled jobs, all of them when idsOrTitles is empty.
func (s *Service) ListJobs(ctx context.Context, idsOrTitles any, projectID string) (*infinite.Envelope, error) {
	query := infinite.Params{}
	if projectID != "" {
		query["project_id"] = projectID
	}

	path := infinite.PathTrimmed(s.base, "getjobs", infinite.IDListAsString(idsOrTitles))
	return s.client.Get(ctx, path, query)
}

// ResultOptions filter job results.
type ResultOptions struct {
	Find  string
	Sort  string
	Limit int
}

// GetResults returns the output of a completed job.
func (s *Service) GetResults(ctx context.Context, jobIDOrTitle string, opts ResultOptions) (*infinite.Envelope, error) {
	query := infinite.Params{}
	if opts.Find != "" {
		query["find"] = opts.Find
	}
	if opts.Sort != "" {
		query["sort"] = opts.Sort
	}
	if opts.Limit > 0 {
		query["limit"] = opts.Limit
	}

	env, err := s.client.Get(ctx, infinite.Path(s.base, "getresults", jobIDOrTitle), query)
	if err != nil {
		return nil, fmt.Errorf("failed to get job results: %w", err)
	}
	return env, nil
}

// RemoveJob deletes a job and, optionally, its jar.
func (s *Service) RemoveJob(ctx context.Context, jobIDOrTitle string, removeJar bool) (*infinite.Envelope, error) {
	query := infinite.Params{}
	if removeJar {
		query["removeJar"] = true
	}

	s.logger.Debug("removing job", "job", jobIDOrTitle, "remove_jar", removeJar)
	return s.client.Get(ctx, infinite.Path(s.base, "removejob", jobIDOrTitle), query)
}

// JobDefinition describes a scheduled job. Title and JarURL are required;
// the other fields are sent as "null" when empty.
type JobDefinition struct {
	Title           string
	Description     string
	DataGroupIDs    any
	JarURL          string
	TimeToRun       string
	RunFrequency    string
	Mapper          string
	Reducer         string
	Combiner        string
	Query           string
	InputCollection string
	OutputKey       string
	OutputValue     string
}

// Validate checks the required fields.
func (d JobDefinition) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required),
		validation.Field(&d.JarURL, validation.Required),
	)
}

func (d JobDefinition) segments() []string {
	orNull := func(v string) string {
		if v == "" {
			return nullSegment
		}
		return v
	}

	return []string{
		d.Title,
		orNull(d.Description),
		orNull(infinite.IDListAsString(d.DataGroupIDs)),
		d.JarURL,
		orNull(d.TimeToRun),
		orNull(d.RunFrequency),
		orNull(d.Mapper),
		orNull(d.Reducer),
		orNull(d.Combiner),
		orNull(d.Query),
		orNull(d.InputCollection),
		orNull(d.OutputKey),
		orNull(d.OutputValue),
	}
}

// ScheduleJob schedules a new job.
func (s *Service) ScheduleJob(ctx context.Context, def JobDefinition) (*infinite.Envelope, error) {
	if err := def.Validate(); err != nil {
		return nil, infinite.ValidationError("schedule job", err)
	}

	path := infinite.Path(s.base, append([]string{"schedulejob"}, def.segments()...)...)

	env, err := s.client.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule job: %w", err)
	}
	return env, nil
}

// UpdateJob replaces the definition of an existing job.
func (s *Service) UpdateJob(ctx context.Context, jobIDOrTitle string, def JobDefinition) (*infinite.Envelope, error) {
	if err := validation.Validate(jobIDOrTitle, validation.Required); err != nil {
		return nil, infinite.ValidationError("update job", fmt.Errorf("job: %w", err))
	}
	if err := def.Validate(); err != nil {
		return nil, infinite.ValidationError("update job", err)
	}

	path := infinite.Path(s.base, append([]string{"updatejob", jobIDOrTitle}, def.segments()...)...)

	env, err := s.client.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return env, nil
}
