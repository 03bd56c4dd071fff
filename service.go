package gorecipes

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nellio/gorecipes/auth"
)

// Service is the generic business-rule layer over a Repository. Each method
// delegates and re-wraps failures with a caller-facing message while keeping
// the cause chain intact for errors.Is/As.
type Service[T Entity] struct {
	repo Repository[T]
	log  *zap.Logger
}

func NewService[T Entity](repo Repository[T], log *zap.Logger) *Service[T] {
	return &Service[T]{repo: repo, log: log}
}

func (s *Service[T]) Insert(ctx context.Context, entity T) (T, error) {
	created, err := s.repo.Create(ctx, entity)
	return created, s.handleError(err, "failed to insert document")
}

func (s *Service[T]) GetByID(ctx context.Context, id ID) (T, error) {
	entity, err := s.repo.GetByID(ctx, id)
	return entity, s.handleError(err, "failed to get document")
}

func (s *Service[T]) Get(ctx context.Context, page, perPage int) (Page[T], error) {
	result, err := s.repo.Query(ctx, page, perPage)
	return result, s.handleError(err, "failed to get documents")
}

func (s *Service[T]) UpdateOrReplace(ctx context.Context, existing T, payload map[string]any, replace bool) (T, error) {
	updated, err := s.repo.UpdateOrReplace(ctx, existing, payload, replace)
	return updated, s.handleError(err, "failed to update document")
}

func (s *Service[T]) Delete(ctx context.Context, existing T) error {
	return s.handleError(s.repo.Delete(ctx, existing), "failed to delete document")
}

func (s *Service[T]) handleError(err error, msg string) error {
	if err == nil {
		return nil
	}
	s.log.Error(msg, zap.Error(err))
	return fmt.Errorf("%s: %w", msg, err)
}

// UserService adds registration, webhook-secret handling and the credential
// service's account lookup on top of the generic service.
type UserService struct {
	*Service[*User]
}

func NewUserService(repo Repository[*User], log *zap.Logger) *UserService {
	return &UserService{Service: NewService(repo, log)}
}

// Register validates the request, hashes the password and persists the user,
// then generates the user's webhook secret. Hashing happens here, not in the
// data layer.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*User, error) {
	u, err := NewUser(username, email)
	if err != nil {
		return nil, err
	}
	if len(password) < 10 {
		return nil, ErrInvalidPassword
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, s.handleError(err, "failed to hash password")
	}
	u.Password = hash
	u.ID = NextID()

	created, err := s.Insert(ctx, u)
	if err != nil {
		return nil, err
	}

	if _, err := s.CreateWebhook(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// CreateWebhook generates and persists the user's webhook secret. The secret
// is generated once; later calls return the existing one.
func (s *UserService) CreateWebhook(ctx context.Context, u *User) (string, error) {
	if u.Secret != "" {
		return u.Secret, nil
	}

	secret := uuid.NewString()
	updated, err := s.UpdateOrReplace(ctx, u, map[string]any{"secret": secret}, false)
	if err != nil {
		return "", s.handleError(err, "failed to create webhook")
	}
	u.Secret = updated.Secret
	return updated.Secret, nil
}

// SaveWebhook registers or overwrites the webhook URL for a user and returns
// the updated user.
func (s *UserService) SaveWebhook(ctx context.Context, userID ID, url string) (*User, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated, err := s.UpdateOrReplace(ctx, u, map[string]any{"webhook": url}, false)
	if err != nil {
		return nil, s.handleError(err, "failed to save webhook")
	}
	return updated, nil
}

// FindByUsername implements auth.Accounts so the credential service can
// authenticate against stored users.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*auth.Account, error) {
	u, err := s.repo.FindOne(ctx, "username", username)
	if err != nil {
		return nil, s.handleError(err, "failed to find user")
	}
	return &auth.Account{
		ID:           string(u.ID),
		Username:     u.Username,
		PasswordHash: u.Password,
		Role:         u.Role,
		Secret:       u.Secret,
		Webhook:      u.Webhook,
	}, nil
}

// WebhookSender dispatches a creation notification to a registered URL.
type WebhookSender interface {
	Send(ctx context.Context, n RecipeNotification, secret, url string) error
}

// RecipeService adds search and webhook dispatch on top of the generic
// service.
type RecipeService struct {
	*Service[*Recipe]
	hooks WebhookSender
}

func NewRecipeService(repo Repository[*Recipe], hooks WebhookSender, log *zap.Logger) *RecipeService {
	return &RecipeService{Service: NewService(repo, log), hooks: hooks}
}

func (s *RecipeService) SearchTerm(ctx context.Context, pattern string) ([]*Recipe, error) {
	recipes, err := s.repo.SearchTerm(ctx, pattern)
	return recipes, s.handleError(err, "failed to search for term")
}

// SendWebhook posts the creation notification to the owner's registered URL.
// Delivery is a single synchronous attempt.
func (s *RecipeService) SendWebhook(ctx context.Context, n RecipeNotification, secret, url string) error {
	return s.handleError(s.hooks.Send(ctx, n, secret, url), "failed to send webhook")
}
