package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tdsa-academy/academy-service/internal/auth"
	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/repositories"
	"github.com/tdsa-academy/academy-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	tokens    *auth.TokenManager
	validator *validator.Validator
	logger    *ServiceLogger
	now       func() time.Time
}

func NewAuthService(deps Dependencies) AuthService {
	deps = deps.withDefaults()
	return &authService{
		repo:      deps.Repo,
		tokens:    deps.Tokens,
		validator: deps.Validator,
		logger:    NewServiceLogger(deps.Logger, "auth"),
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (resp *AuthResponse, err error) {
	op := s.logger.WithOperation(ctx, "register", "")
	defer func() {
		id := ""
		if resp != nil {
			id = resp.ID
		}
		op.LogResult(id, "account", err)
	}()

	account, err := s.createAccount(ctx, req, models.RoleStudent, auth.NewSessionID())
	if err != nil {
		return nil, err
	}
	return s.issue(account)
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (resp *AuthResponse, err error) {
	op := s.logger.WithOperation(ctx, "login", "")
	defer func() {
		id := ""
		if resp != nil {
			id = resp.ID
		}
		op.LogResult(id, "account", err)
	}()

	creds := *req
	creds.Email = models.NormalizeEmail(creds.Email)
	if err := s.validator.ValidateStruct(&creds); err != nil {
		return nil, err
	}

	account, err := s.repo.Account().GetByEmail(ctx, creds.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if !auth.CheckPassword(account.PasswordHash, creds.Password) {
		return nil, ErrInvalidCredentials
	}

	// One write replaces the session, so every earlier token stops matching.
	sessionID := auth.NewSessionID()
	if err := s.repo.Account().UpdateSessionID(ctx, account.ID, sessionID); err != nil {
		return nil, fmt.Errorf("failed to rotate session: %w", err)
	}
	account.CurrentSessionID = sessionID

	return s.issue(account)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.Account, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	account, err := s.repo.Account().GetByID(ctx, claims.AccountID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if account.CurrentSessionID == "" || claims.SessionID != account.CurrentSessionID {
		return nil, ErrSessionExpired
	}
	return account, nil
}

func (s *authService) RegisterFaculty(ctx context.Context, req *RegisterRequest) (account *models.Account, err error) {
	op := s.logger.WithOperation(ctx, "register_faculty", "")
	defer func() {
		id := ""
		if account != nil {
			id = account.ID
		}
		op.LogResult(id, "account", err)
	}()

	return s.createAccount(ctx, req, models.RoleFaculty, "")
}

// EnsureAccount returns the account registered under email, creating it with
// role when it does not exist yet. Used to seed the first administrator.
func (s *authService) EnsureAccount(ctx context.Context, name, email, password string, role models.Role) (*models.Account, error) {
	existing, err := s.repo.Account().GetByEmail(ctx, models.NormalizeEmail(email))
	if err == nil {
		return existing, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	account, err := s.createAccount(ctx, &RegisterRequest{Name: name, Email: email, Password: password}, role, "")
	if err != nil {
		return nil, err
	}
	s.logger.Logger().InfoContext(ctx, "Seeded account", "account_id", account.ID, "role", role)
	return account, nil
}

func (s *authService) createAccount(ctx context.Context, req *RegisterRequest, role models.Role, sessionID string) (*models.Account, error) {
	// Validate the normalized address so surrounding spaces are not a format error.
	normalized := *req
	normalized.Email = models.NormalizeEmail(req.Email)
	if err := s.validator.ValidateStruct(&normalized); err != nil {
		return nil, err
	}

	email := normalized.Email
	if _, err := s.repo.Account().GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	account := &models.Account{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Email:            email,
		PasswordHash:     hash,
		Role:             role,
		CurrentSessionID: sessionID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Account().Create(ctx, account); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

func (s *authService) issue(account *models.Account) (*AuthResponse, error) {
	token, err := s.tokens.Issue(account.ID, account.CurrentSessionID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		ID:    account.ID,
		Name:  account.Name,
		Email: account.Email,
		Role:  account.Role,
		Token: token,
	}, nil
}
