// Package user resolves platform identities to persisted user rows.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/p2p-exchange-bot/internal/domain"
	"github.com/Proton-105/p2p-exchange-bot/internal/repository"
	"github.com/Proton-105/p2p-exchange-bot/internal/usercache"
	"github.com/Proton-105/p2p-exchange-bot/pkg/metrics"
)

// ErrNoSender is returned when an update carries no platform identity.
var ErrNoSender = errors.New("telegram user is nil")

// Service provides business operations over users.
type Service struct {
	repo  repository.UserRepository
	cache *usercache.Cache
	log   *slog.Logger
}

// NewService constructs a new Service instance. cache may be nil.
func NewService(repo repository.UserRepository, cache *usercache.Cache, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, cache: cache, log: log}
}

// ResolveOrCreate returns the user row for telegramUser, inserting it on first contact.
// Concurrent first contacts are settled by the unique telegram_id constraint:
// the losing caller reads back the winner's row.
func (s *Service) ResolveOrCreate(ctx context.Context, telegramUser *telebot.User) (*domain.User, error) {
	if telegramUser == nil {
		return nil, ErrNoSender
	}

	if cached := s.fromCache(ctx, telegramUser.ID); cached != nil {
		return cached, nil
	}

	user, err := s.repo.FindByTelegramID(ctx, telegramUser.ID)
	if err == nil {
		s.toCache(ctx, user)
		return user, nil
	}

	if !errors.Is(err, repository.ErrNotFound) {
		s.logError("resolve.find", telegramUser.ID, err)
		return nil, fmt.Errorf("get user: %w", err)
	}

	user, err = s.repo.Create(ctx, &domain.User{
		TelegramID: telegramUser.ID,
		Username:   telegramUser.Username,
		FirstName:  telegramUser.FirstName,
		LastName:   telegramUser.LastName,
	})
	switch {
	case err == nil:
		metrics.RecordUserCreated()
		s.log.Info("user registered", slog.Int64("telegram_id", telegramUser.ID))
	case errors.Is(err, repository.ErrAlreadyExists):
		s.log.Info("concurrent first contact, reading existing user", slog.Int64("telegram_id", telegramUser.ID))
		user, err = s.repo.FindByTelegramID(ctx, telegramUser.ID)
		if err != nil {
			s.logError("resolve.reread", telegramUser.ID, err)
			return nil, fmt.Errorf("get user after conflict: %w", err)
		}
	default:
		s.logError("resolve.create", telegramUser.ID, err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.toCache(ctx, user)
	return user, nil
}

// Find returns the user row for telegramID without ever inserting one.
// Rating and deal counters change outside this service, so the row is always
// read from the database; the cached copy is refreshed, or dropped when the
// row is gone. A missing row yields repository.ErrNotFound.
func (s *Service) Find(ctx context.Context, telegramID int64) (*domain.User, error) {
	user, err := s.repo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.dropCache(ctx, telegramID)
		} else {
			s.logError("find", telegramID, err)
		}
		return nil, err
	}

	s.toCache(ctx, user)
	return user, nil
}

func (s *Service) fromCache(ctx context.Context, telegramID int64) *domain.User {
	user, err := s.cache.Get(ctx, telegramID)
	if err != nil {
		s.log.Warn("user cache read failed", slog.Int64("telegram_id", telegramID), slog.Any("error", err))
		return nil
	}
	return user
}

func (s *Service) toCache(ctx context.Context, user *domain.User) {
	if err := s.cache.Set(ctx, user); err != nil {
		s.log.Warn("user cache write failed", slog.Int64("telegram_id", user.TelegramID), slog.Any("error", err))
	}
}

func (s *Service) dropCache(ctx context.Context, telegramID int64) {
	if err := s.cache.Invalidate(ctx, telegramID); err != nil {
		s.log.Warn("user cache invalidate failed", slog.Int64("telegram_id", telegramID), slog.Any("error", err))
	}
}

func (s *Service) logError(operation string, telegramID int64, err error) {
	if s == nil || s.log == nil || err == nil {
		return
	}

	s.log.Error("user service operation failed",
		slog.String("operation", operation),
		slog.Int64("telegram_id", telegramID),
		slog.Any("error", err),
	)
}
