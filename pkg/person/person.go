// Package person wraps the person profile endpoints.
package person

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
)

// Me is the person id that refers to the logged in user.
const Me = "me"

// Person is a user profile.
type Person struct {
	ID            string         `json:"_id"`
	DisplayName   string         `json:"displayName,omitempty"`
	FirstName     string         `json:"firstName,omitempty"`
	LastName      string         `json:"lastName,omitempty"`
	Email         []string       `json:"email,omitempty"`
	Phone         string         `json:"phone,omitempty"`
	AccountStatus string         `json:"accountStatus,omitempty"`
	AccountType   string         `json:"accountType,omitempty"`
	Communities   []CommunityRef `json:"communities,omitempty"`
	Created       infinite.Time  `json:"created,omitzero"`
	Modified      infinite.Time  `json:"modified,omitzero"`
}

// Identifier implements infinite.Identified.
func (p Person) Identifier() string {
	return p.ID
}

// CommunityRef is a community a person belongs to.
type CommunityRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

// Definition is the register/update payload.
type Definition struct {
	User UserDefinition  `json:"user"`
	Auth *AuthDefinition `json:"auth,omitempty"`
}

// UserDefinition is the profile half of a Definition.
type UserDefinition struct {
	UserID    string   `json:"WPUserID,omitempty"`
	FirstName string   `json:"firstname,omitempty"`
	LastName  string   `json:"lastname,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Email     []string `json:"email,omitempty"`
}

// AuthDefinition is the credential half of a Definition. Password is given
// in clear text and digested before it is sent.
type AuthDefinition struct {
	UserID      string `json:"WPUserID,omitempty"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
	AccountType string `json:"accountType,omitempty"`
}

// withDigest returns a copy of def with the password digested.
func (def Definition) withDigest() Definition {
	if def.Auth != nil {
		auth := *def.Auth
		if auth.Password != "" {
			auth.Password = infinite.HashPassword(auth.Password)
		}
		def.Auth = &auth
	}
	return def
}

// Service talks to the person endpoints.
type Service struct {
	client *infinite.Client
	base   string
	logger hclog.Logger
}

// NewService creates a person service on top of client.
func NewService(client *infinite.Client) *Service {
	return &Service{
		client: client,
		base:   client.Endpoints().Persons,
		logger: client.Logger().Named("person"),
	}
}

// RawQuery issues a call relative to the person base path.
func (s *Service) RawQuery(ctx context.Context, method, endpoint string, query infinite.Params, body any, opts ...infinite.QueryOption) (*infinite.Envelope, error) {
	return s.client.RawQuery(ctx, method, s.base+endpoint, query, body, opts...)
}

// Get fetches a person; Me or "" fetches the logged in user. With
// alwaysResolve a person the platform cannot return yields (nil, nil)
// instead of an error.
func (s *Service) Get(ctx context.Context, personID string, alwaysResolve bool) (*Person, error) {
	if personID == Me {
		personID = ""
	}

	env, err := s.client.Get(ctx, infinite.Path(s.base, "get", personID), nil, infinite.AlwaysResolveIf(alwaysResolve))
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	if alwaysResolve && (!env.Succeeded() || !env.HasData() || env.Data == nil) {
		return nil, nil
	}

	p, err := infinite.DecodeData[Person](env)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns every person visible to the current user.
func (s *Service) List(ctx context.Context) ([]Person, error) {
	env, err := s.client.Get(ctx, infinite.Path(s.base, "list"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}

	data, err := infinite.ResolveWithDataOrArray(env)
	if err != nil {
		return nil, err
	}

	people := []Person{}
	if err := infinite.Decode(data, &people); err != nil {
		return nil, err
	}
	return people, nil
}

// Register creates an account and returns the full profile, fetched again
// by the id the platform assigned.
func (s *Service) Register(ctx context.Context, def Definition) (*Person, error) {
	env, err := s.client.Post(ctx, infinite.Path(s.base, "register"), def.withDigest(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register person: %w", err)
	}

	id, err := infinite.ResolveWithDataID(env)
	if err != nil {
		return nil, fmt.Errorf("failed to register person: %w", err)
	}

	s.logger.Debug("registered person", "id", id)

	return s.Get(ctx, id, false)
}

// Remove deletes a person.
func (s *Service) Remove(ctx context.Context, personID string) (*infinite.Envelope, error) {
	return s.client.Get(ctx, infinite.Path(s.base, "delete", personID), nil)
}

// Update saves a profile.
func (s *Service) Update(ctx context.Context, def Definition) (*infinite.Envelope, error) {
	env, err := s.client.Post(ctx, infinite.Path(s.base, "update"), def.withDigest(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to update person: %w", err)
	}
	return env, nil
}

// UpdateEmails replaces the email addresses of a person.
func (s *Service) UpdateEmails(ctx context.Context, personID string, emails []string) (*infinite.Envelope, error) {
	path := infinite.Path(s.base, "update", "email", personID, strings.Join(emails, ","))
	return s.client.Get(ctx, path, nil)
}

// UpdatePassword sets a new password. Only its digest leaves the process.
func (s *Service) UpdatePassword(ctx context.Context, personID, newPassword string) (*infinite.Envelope, error) {
	path := infinite.Path(s.base, "update", "password", personID, infinite.HashPassword(newPassword))
	return s.client.Get(ctx, path, nil)
}
