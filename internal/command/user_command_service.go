package command

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/cqrs"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/events"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/models"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/utils"
)

// UserStore is the user persistence used by the command service.
type UserStore interface {
	Create(user *models.User) error
	CacheView(ctx context.Context, view *models.UserView)
}

// UserEvents publishes user lifecycle events.
type UserEvents interface {
	PublishUserCreated(ctx context.Context, data events.UserCreatedEvent) error
}

// UserCommandService handles registration. Uniqueness is enforced by the
// store's email constraint rather than a read-then-write check, so two
// concurrent registrations cannot both succeed.
type UserCommandService struct {
	store     UserStore
	publisher UserEvents
}

func NewUserCommandService(store UserStore, publisher UserEvents) *UserCommandService {
	return &UserCommandService{store: store, publisher: publisher}
}

func (s *UserCommandService) Register(cmd cqrs.RegisterUserCommand) (*models.UserView, error) {
	passwordHash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		ID:           utils.GenerateID("usr"),
		Username:     cmd.Username,
		Email:        cmd.Email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Create(user); err != nil {
		return nil, err
	}

	ctx := context.Background()
	view := &models.UserView{ID: user.ID, Username: user.Username, Email: user.Email}
	s.store.CacheView(ctx, view)

	if err := s.publisher.PublishUserCreated(ctx, events.UserCreatedEvent{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}); err != nil {
		log.Warn().Err(err).Msg("failed to publish user.created event")
	}
	return view, nil
}
