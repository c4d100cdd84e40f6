package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"clearpoint/internal/domain"
	"clearpoint/internal/port"
)

// GoogleLoginInput is the DTO for Google sign-in requests.
type GoogleLoginInput struct {
	IDToken string `json:"id_token" binding:"required"`
}

// GoogleLoginOutput contains the results of a Google sign-in.
type GoogleLoginOutput struct {
	User      *domain.User `json:"user"`
	Tokens    *TokenPair   `json:"tokens"`
	IsNewUser bool         `json:"is_new_user"`
}

// SocialAuthService defines the social authentication contract.
type SocialAuthService interface {
	GoogleLogin(ctx context.Context, input GoogleLoginInput) (*GoogleLoginOutput, error)
}

type socialAuthService struct {
	verifier        port.SocialTokenVerifier
	userRepo        port.UserRepository
	authSvc         AuthService
	employeeDomains []string
}

// NewSocialAuthService creates a new SocialAuthService. A nil verifier means
// Google sign-in is not configured; every login attempt then fails with
// ErrSocialAuthDisabled.
func NewSocialAuthService(
	verifier port.SocialTokenVerifier,
	userRepo port.UserRepository,
	authSvc AuthService,
	employeeDomains []string,
) SocialAuthService {
	return &socialAuthService{
		verifier:        verifier,
		userRepo:        userRepo,
		authSvc:         authSvc,
		employeeDomains: employeeDomains,
	}
}

func (s *socialAuthService) GoogleLogin(ctx context.Context, input GoogleLoginInput) (*GoogleLoginOutput, error) {
	if s.verifier == nil {
		return nil, domain.ErrSocialAuthDisabled
	}

	claims, err := s.verifier.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		return nil, domain.ErrSocialAuthTokenInvalid
	}
	if !claims.EmailVerified {
		return nil, fmt.Errorf("%w: email not verified by provider", domain.ErrSocialAuthTokenInvalid)
	}

	// Returning user
	existingUser, err := s.userRepo.GetByProviderID(ctx, claims.Subject)
	if err == nil {
		return s.finishLogin(ctx, existingUser, claims, false)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("looking up provider user: %w", err)
	}

	// Existing email account created before provider linkage
	existingUser, err = s.userRepo.GetByEmail(ctx, claims.Email)
	if err == nil {
		existingUser.ProviderUserID = claims.Subject
		return s.finishLogin(ctx, existingUser, claims, false)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("looking up email user: %w", err)
	}

	// New user
	user := &domain.User{
		Email:          claims.Email,
		FullName:       claims.FullName,
		Picture:        claims.Picture,
		Role:           s.roleForEmail(claims.Email),
		ProviderUserID: claims.Subject,
		IsActive:       true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err // ErrDuplicateEmail propagates naturally
	}

	tokens, err := s.authSvc.GenerateTokenPairForUser(user)
	if err != nil {
		return nil, fmt.Errorf("generating tokens: %w", err)
	}
	return &GoogleLoginOutput{User: user, Tokens: tokens, IsNewUser: true}, nil
}

func (s *socialAuthService) finishLogin(ctx context.Context, user *domain.User, claims *port.SocialAuthClaims, isNew bool) (*GoogleLoginOutput, error) {
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	// Refresh the profile fields Google owns. A failed refresh does not
	// block the login.
	if user.FullName != claims.FullName || user.Picture != claims.Picture || user.ProviderUserID != claims.Subject {
		user.FullName = claims.FullName
		user.Picture = claims.Picture
		user.ProviderUserID = claims.Subject
		if err := s.userRepo.Update(ctx, user); err != nil {
			log.Printf("WARNING: failed to refresh profile for user %s: %v", user.ID, err)
		}
	}

	tokens, err := s.authSvc.GenerateTokenPairForUser(user)
	if err != nil {
		return nil, fmt.Errorf("generating tokens: %w", err)
	}
	return &GoogleLoginOutput{User: user, Tokens: tokens, IsNewUser: isNew}, nil
}

// roleForEmail grants the employee role to accounts on an allowlisted domain.
func (s *socialAuthService) roleForEmail(email string) domain.UserRole {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return domain.RoleClient
	}
	emailDomain := strings.ToLower(email[at+1:])
	for _, d := range s.employeeDomains {
		if emailDomain == strings.ToLower(d) {
			return domain.RoleEmployee
		}
	}
	return domain.RoleClient
}
