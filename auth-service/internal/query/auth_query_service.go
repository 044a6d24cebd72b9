package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ledgerline/bank/auth-service/internal/repository"
	"github.com/ledgerline/bank/shared/cqrs"
	"github.com/ledgerline/bank/shared/errs"
	"github.com/ledgerline/bank/shared/logger"
	"github.com/ledgerline/bank/shared/middleware"
	"github.com/ledgerline/bank/shared/utils"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// AuthQueryService handles login and token refresh. There's no CommandService
// for auth because these operations don't mutate application state.
type AuthQueryService struct {
	credentials repository.CredentialStore
	secret      []byte
	ttl         time.Duration
}

func NewAuthQueryService(credentials repository.CredentialStore, secret []byte, ttl time.Duration) (*AuthQueryService, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthQueryService{credentials: credentials, secret: secret, ttl: ttl}, nil
}

func (s *AuthQueryService) Login(ctx context.Context, cmd cqrs.LoginCommand) (string, error) {
	cred, err := s.credentials.FindByIdentification(ctx, cmd.Identification)
	if err != nil {
		return "", err
	}
	if cred == nil || !cred.Active || !utils.CheckPassword(cmd.Password, cred.PasswordHash) {
		logger.Warn("login rejected", logger.Fields{
			"requestId":      logger.RequestID(ctx),
			"identification": cmd.Identification,
		})
		return "", errs.ErrUnauthorized
	}
	return s.issue(cred)
}

func (s *AuthQueryService) RefreshToken(ctx context.Context, cmd cqrs.RefreshTokenCommand) (string, error) {
	claims, err := middleware.ParseToken(s.secret, cmd.Token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrUnauthorized, err)
	}

	cred, err := s.credentials.FindByClientID(ctx, claims.ClientID)
	if err != nil {
		return "", err
	}
	if cred == nil || !cred.Active {
		return "", errs.ErrUnauthorized
	}
	return s.issue(cred)
}

func (s *AuthQueryService) issue(cred *repository.Credential) (string, error) {
	return middleware.IssueToken(s.secret, cred.ClientID, cred.Identification, s.ttl)
}
