package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/microshop/microshop/internal/user/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidUser  = errors.New("invalid user data")
)

type UserRepository interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	Get(ctx context.Context, id int64) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, u domain.User) (domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	log  *slog.Logger
	repo UserRepository
}

func NewService(log *slog.Logger, repo UserRepository) *Service {
	return &Service{log: log, repo: repo}
}

func (s *Service) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if err := validate(u); err != nil {
		return domain.User{}, err
	}
	return s.repo.Create(ctx, u)
}

func (s *Service) Get(ctx context.Context, id int64) (domain.User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, u domain.User) (domain.User, error) {
	if err := validate(u); err != nil {
		return domain.User{}, err
	}
	return s.repo.Update(ctx, u)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validate(u domain.User) error {
	if u.Name == "" || !strings.Contains(u.Email, "@") {
		return ErrInvalidUser
	}
	return nil
}
