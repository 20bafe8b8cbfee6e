// Package auth wraps the platform's authentication endpoints.
//
// A successful Login sets a session cookie which the client's cookie jar
// replays on every later call made through the same infinite.Client.
package auth

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
)

// Service talks to the auth endpoints.
type Service struct {
	client *infinite.Client
	base   string
	logger hclog.Logger
}

// NewService creates an auth service on top of client.
func NewService(client *infinite.Client) *Service {
	return &Service{
		client: client,
		base:   client.Endpoints().Auth,
		logger: client.Logger().Named("auth"),
	}
}

// RawQuery issues a call relative to the auth base path.
func (s *Service) RawQuery(ctx context.Context, method, endpoint string, query infinite.Params, body any, opts ...infinite.QueryOption) (*infinite.Envelope, error) {
	return s.client.RawQuery(ctx, method, s.base+endpoint, query, body, opts...)
}

// LoginOptions are the optional login flags.
type LoginOptions struct {
	// ReturnTempKey asks for a temporary API token.
	ReturnTempKey bool

	// Override set to false keeps other sessions of this user alive.
	// nil leaves the platform default.
	Override *bool

	// ReturnURL is where the platform redirects after login.
	ReturnURL string

	// MultiLogin allows concurrent sessions.
	MultiLogin bool
}

// Login authenticates username. The password is sent as its digest.
func (s *Service) Login(ctx context.Context, username, password string, opts LoginOptions) (*infinite.Envelope, error) {
	query := infinite.Params{
		"username": username,
		"password": infinite.HashPassword(password),
	}
	if opts.ReturnTempKey {
		query["return_tmp_key"] = true
	}
	if opts.Override != nil && !*opts.Override {
		query["override"] = false
	}
	if opts.ReturnURL != "" {
		query["returnurl"] = opts.ReturnURL
	}
	if opts.MultiLogin {
		query["multi"] = true
	}

	s.logger.Debug("logging in", "username", username)

	env, err := s.client.Get(ctx, infinite.Path(s.base, "login"), query)
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	return env, nil
}

// LoginAdmin authenticates an administrator.
func (s *Service) LoginAdmin(ctx context.Context, username, password string) (*infinite.Envelope, error) {
	path := infinite.Path(s.base, "admin", username, infinite.HashPassword(password))

	env, err := s.client.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to log in as admin: %w", err)
	}
	return env, nil
}

// Logout ends the current session.
func (s *Service) Logout(ctx context.Context) (*infinite.Envelope, error) {
	return s.client.Get(ctx, infinite.Path(s.base, "logout"), nil)
}

// KeepAlive refreshes the current session.
func (s *Service) KeepAlive(ctx context.Context) (*infinite.Envelope, error) {
	return s.client.Get(ctx, infinite.Path(s.base, "keepalive"), nil)
}

// Deactivate disables a user account. Empty arguments are left out.
func (s *Service) Deactivate(ctx context.Context, username, adminUser, adminPassword string) (*infinite.Envelope, error) {
	query := infinite.Params{}
	if username != "" {
		query["user"] = username
	}
	if adminUser != "" {
		query["aduser"] = adminUser
	}
	if adminPassword != "" {
		query["adpass"] = infinite.HashPassword(adminPassword)
	}

	env, err := s.client.Get(ctx, infinite.Path(s.base, "deactivate"), query)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate user: %w", err)
	}
	return env, nil
}

// ForgotPasswordOptions are the forgotpassword parameters. Only NewPassword
// is digested; Password is sent as given.
type ForgotPasswordOptions struct {
	Username    string
	Password    string
	NewPassword string
}

// ForgotPassword starts or completes a password reset.
func (s *Service) ForgotPassword(ctx context.Context, opts ForgotPasswordOptions) (*infinite.Envelope, error) {
	query := infinite.Params{}
	if opts.Username != "" {
		query["username"] = opts.Username
	}
	if opts.Password != "" {
		query["password"] = opts.Password
	}
	if opts.NewPassword != "" {
		query["new_password"] = infinite.HashPassword(opts.NewPassword)
	}

	return s.client.Get(ctx, infinite.Path(s.base, "forgotpassword"), query)
}
