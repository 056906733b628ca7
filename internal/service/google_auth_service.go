package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"

	"mnki/internal/auth"
	apperrors "mnki/internal/errors"
	"mnki/internal/model"
	"mnki/internal/repository"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v1/userinfo"

// googleProfile is what both flows extract from Google before the upsert.
type googleProfile struct {
	Email   string
	Name    string
	Picture string
	Subject string
}

// GoogleAuthResult is the outcome of a Google sign-in.
type GoogleAuthResult struct {
	Token     string
	User      *model.User
	IsNewUser bool
}

// GoogleAuthService handles both Google flows: a client-supplied ID token,
// and the authorization-code grant with a userinfo fallback for providers
// that omit the ID token.
type GoogleAuthService interface {
	LoginWithIDToken(ctx context.Context, rawIDToken string) (*GoogleAuthResult, error)
	LoginWithCode(ctx context.Context, code string) (*GoogleAuthResult, error)
}

type googleAuthService struct {
	userRepo repository.UserRepository
	sessions *auth.SessionService
	oauth    *oauth2.Config
	// validate is swappable in tests; defaults to idtoken.Validate.
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewGoogleAuthService creates a Google sign-in service. redirectURL must
// match the frontend callback registered with Google.
func NewGoogleAuthService(userRepo repository.UserRepository, sessions *auth.SessionService, clientID, clientSecret, redirectURL string) GoogleAuthService {
	return &googleAuthService{
		userRepo: userRepo,
		sessions: sessions,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
		},
		validate: idtoken.Validate,
	}
}

// LoginWithIDToken verifies the ID token against our client ID and signs
// the user in.
func (s *googleAuthService) LoginWithIDToken(ctx context.Context, rawIDToken string) (*GoogleAuthResult, error) {
	payload, err := s.validate(ctx, rawIDToken, s.oauth.ClientID)
	if err != nil {
		return nil, apperrors.ErrInvalidGoogleToken
	}
	profile := profileFromPayload(payload)
	if profile.Email == "" {
		return nil, apperrors.ErrInvalidGoogleToken
	}
	return s.signIn(ctx, profile)
}

// LoginWithCode exchanges an authorization code for tokens, then verifies
// the ID token, falling back to the userinfo endpoint when Google returned
// none.
func (s *googleAuthService) LoginWithCode(ctx context.Context, code string) (*GoogleAuthResult, error) {
	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, apperrors.ErrInvalidGoogleToken
	}

	var profile googleProfile
	if rawIDToken, ok := tok.Extra("id_token").(string); ok && rawIDToken != "" {
		payload, err := s.validate(ctx, rawIDToken, s.oauth.ClientID)
		if err != nil {
			return nil, apperrors.ErrInvalidGoogleToken
		}
		profile = profileFromPayload(payload)
	} else {
		profile, err = s.fetchUserInfo(ctx, tok)
		if err != nil {
			return nil, err
		}
	}

	if profile.Email == "" {
		return nil, apperrors.ErrInvalidGoogleToken
	}
	return s.signIn(ctx, profile)
}

// fetchUserInfo queries the userinfo endpoint with the access token.
func (s *googleAuthService) fetchUserInfo(ctx context.Context, tok *oauth2.Token) (googleProfile, error) {
	resp, err := s.oauth.Client(ctx, tok).Get(googleUserInfoURL)
	if err != nil {
		return googleProfile{}, apperrors.ErrInvalidGoogleToken
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return googleProfile{}, apperrors.ErrInvalidGoogleToken
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleProfile{}, apperrors.ErrInvalidGoogleToken
	}
	return googleProfile{
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
		Subject: info.ID,
	}, nil
}

// signIn upserts the user for this Google identity and issues a session
// token. First-time sign-ins become members with no password; existing
// accounts get the provider linkage attached.
func (s *googleAuthService) signIn(ctx context.Context, profile googleProfile) (*GoogleAuthResult, error) {
	var user *model.User
	isNew := false

	err := s.userRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		existing, err := repo.FindByEmail(ctx, profile.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("find user: %w", err)
		}

		provider := "google"
		if existing == nil {
			isNew = true
			user = &model.User{
				Email:      profile.Email,
				Username:   strings.SplitN(profile.Email, "@", 2)[0],
				Name:       profile.Name,
				Role:       model.RoleMember,
				Provider:   &provider,
				ProviderID: &profile.Subject,
				Avatar:     profile.Picture,
			}
			return repo.Create(ctx, user)
		}

		user = existing
		if user.Provider == nil || *user.Provider != provider ||
			user.ProviderID == nil || *user.ProviderID != profile.Subject {
			user.Provider = &provider
			user.ProviderID = &profile.Subject
			if profile.Picture != "" {
				user.Avatar = profile.Picture
			}
			return repo.Update(ctx, user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.sessions.IssueToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &GoogleAuthResult{Token: token, User: user, IsNewUser: isNew}, nil
}

func profileFromPayload(payload *idtoken.Payload) googleProfile {
	str := func(key string) string {
		v, _ := payload.Claims[key].(string)
		return v
	}
	return googleProfile{
		Email:   str("email"),
		Name:    str("name"),
		Picture: str("picture"),
		Subject: payload.Subject,
	}
}
