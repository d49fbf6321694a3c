package mock

import (
	"context"

	cl "spotifake/pkg/catalog"
)

type UserStore struct {
	AuthenticateFn func(ctx context.Context, username, password string) (cl.User, error)
	TokenFn        func(ctx context.Context, userID int64) (string, error)
	UserByTokenFn  func(ctx context.Context, token string) (cl.User, error)
	CreateUserFn   func(ctx context.Context, req cl.CreateUserRequest) (cl.User, error)
	SetStaffFn     func(ctx context.Context, username string, staff bool) (cl.User, error)
}

func (s *UserStore) Authenticate(ctx context.Context, username, password string) (cl.User, error) {
	return s.AuthenticateFn(ctx, username, password)
}

func (s *UserStore) Token(ctx context.Context, userID int64) (string, error) {
	return s.TokenFn(ctx, userID)
}

func (s *UserStore) UserByToken(ctx context.Context, token string) (cl.User, error) {
	return s.UserByTokenFn(ctx, token)
}

func (s *UserStore) CreateUser(ctx context.Context, req cl.CreateUserRequest) (cl.User, error) {
	return s.CreateUserFn(ctx, req)
}

func (s *UserStore) SetStaff(ctx context.Context, username string, staff bool) (cl.User, error) {
	return s.SetStaffFn(ctx, username, staff)
}
