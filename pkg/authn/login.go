package authn

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/keyhaven/keyhaven/pkg/model"
)

var (
	ErrEmailDomainNotAllowed = errors.New("email domain not allowed")
	ErrUserInactive          = errors.New("user is inactive")
)

// ExternalProfile is the identity returned by the external provider after a
// successful code exchange.
type ExternalProfile struct {
	Email      string
	Name       string
	AvatarURL  string
	ExternalID string
}

// UserDirectory is the subset of user persistence the login flow needs.
// FindByEmail returns (nil, nil) when no user has the address.
type UserDirectory interface {
	FindByEmail(email string) (*model.User, error)
	Create(user *model.User) error
	Update(user *model.User) error
}

// LoginService turns an external profile into a stored user and a session
// token. Users are provisioned on first login as active contributors.
type LoginService struct {
	users         UserDirectory
	issuer        *TokenIssuer
	allowedDomain string
}

func NewLoginService(users UserDirectory, issuer *TokenIssuer, allowedDomain string) *LoginService {
	return &LoginService{
		users:         users,
		issuer:        issuer,
		allowedDomain: allowedDomain,
	}
}

// Login resolves the profile to a user, provisioning on first sight, and
// returns the user with a fresh session token.
func (s *LoginService) Login(profile ExternalProfile) (*model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email == "" {
		return nil, "", fmt.Errorf("external profile has no email")
	}
	if s.allowedDomain != "" && !strings.HasSuffix(email, "@"+s.allowedDomain) {
		return nil, "", ErrEmailDomainNotAllowed
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	now := time.Now().UTC()
	if user == nil {
		user = &model.User{
			ID:         uuid.NewString(),
			Email:      email,
			Name:       profile.Name,
			AvatarURL:  profile.AvatarURL,
			Role:       model.RoleContributor,
			ExternalID: profile.ExternalID,
			Status:     model.StatusActive,
			LastLogin:  &now,
		}
		if err := s.users.Create(user); err != nil {
			return nil, "", fmt.Errorf("failed to provision user: %w", err)
		}
	} else {
		if user.Status == model.StatusInactive {
			return nil, "", ErrUserInactive
		}
		user.Name = profile.Name
		user.AvatarURL = profile.AvatarURL
		user.ExternalID = profile.ExternalID
		// Invited users become active on first successful login.
		if user.Status == model.StatusPending {
			user.Status = model.StatusActive
		}
		user.LastLogin = &now
		if err := s.users.Update(user); err != nil {
			return nil, "", fmt.Errorf("failed to update user: %w", err)
		}
	}

	token, err := s.issuer.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
