package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/validator"
	"foodgram/internal/repository"
)

type Service struct {
	users   UserRepository
	follows FollowReader
	tokens  TokenIssuer
}

func NewService(users UserRepository, follows FollowReader, tokens TokenIssuer) *Service {
	return &Service{users: users, follows: follows, tokens: tokens}
}

// Register creates an account. Email and username must both be unused.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.UserProfile, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if fields := validator.Validate(req); len(fields) > 0 {
		return nil, &InputError{Fields: fields}
	}

	taken := map[string]string{}
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		taken["email"] = "already registered"
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		taken["username"] = "already taken"
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	if len(taken) > 0 {
		return nil, &InputError{Fields: taken}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &InputError{Fields: map[string]string{"email": "already registered"}}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	p := domain.NewUserProfile(u, false)
	return &p, nil
}

// Login checks the password and issues a bearer token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, error) {
	if fields := validator.Validate(req); len(fields) > 0 {
		return "", &InputError{Fields: fields}
	}

	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.GenerateToken(u.ID)
}

func (s *Service) Get(ctx context.Context, id, viewerID int64) (*domain.UserProfile, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	followed, err := s.follows.FollowedAuthorIDs(ctx, viewerID, []int64{u.ID})
	if err != nil {
		return nil, fmt.Errorf("subscription flags: %w", err)
	}

	p := domain.NewUserProfile(u, followed[u.ID])
	return &p, nil
}

func (s *Service) List(ctx context.Context, viewerID int64, page, limit int) (*UsersPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	list, total, err := s.users.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	ids := make([]int64, 0, len(list))
	for _, u := range list {
		ids = append(ids, u.ID)
	}
	followed, err := s.follows.FollowedAuthorIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("subscription flags: %w", err)
	}

	results := make([]domain.UserProfile, 0, len(list))
	for i := range list {
		results = append(results, domain.NewUserProfile(&list[i], followed[list[i].ID]))
	}
	return &UsersPage{Count: total, Page: page, Limit: limit, Results: results}, nil
}
