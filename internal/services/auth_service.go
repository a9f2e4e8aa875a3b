package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/mailer"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/models"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/oauth"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/otp"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/repository"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/session"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/token"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/utils"
)

// AuthService drives the login state machine: signup, password check, OTP
// verification, token validation and signout.
type AuthService struct {
	drivers   repository.DriverRepository
	users     repository.UserRepository
	blacklist repository.BlacklistRepository
	sessions  *session.Store
	otp       *otp.Generator
	tokens    *token.Manager
	mail      mailer.Mailer
	logger    *zap.Logger

	pendingTTL         time.Duration
	passwordHashCost   int
	blacklistRetention time.Duration
}

func NewAuthService(
	drivers repository.DriverRepository,
	users repository.UserRepository,
	blacklist repository.BlacklistRepository,
	sessions *session.Store,
	otpGen *otp.Generator,
	tokens *token.Manager,
	mail mailer.Mailer,
	logger *zap.Logger,
	pendingTTLMinutes int,
	passwordHashCost int,
	blacklistRetentionDays int,
) *AuthService {
	return &AuthService{
		drivers:            drivers,
		users:              users,
		blacklist:          blacklist,
		sessions:           sessions,
		otp:                otpGen,
		tokens:             tokens,
		mail:               mail,
		logger:             logger,
		pendingTTL:         time.Duration(pendingTTLMinutes) * time.Minute,
		passwordHashCost:   passwordHashCost,
		blacklistRetention: time.Duration(blacklistRetentionDays) * 24 * time.Hour,
	}
}

// SignupDriver registers a new driver and logs them in directly. Signup never
// requires an OTP.
func (s *AuthService) SignupDriver(ctx context.Context, req *models.SignupDriverRequest) (string, *models.Driver, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return "", nil, err
	}
	if err := utils.ValidatePasswordStrength(req.Password); err != nil {
		return "", nil, err
	}

	// best-effort precheck; the unique index on email is the real guard
	if _, err := s.drivers.FindByEmail(ctx, req.Email); err == nil {
		return "", nil, ErrDuplicateCredential
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, fmt.Errorf("failed to check existing driver: %w", ErrInternal)
	}

	hash, err := utils.HashPassword(req.Password, s.passwordHashCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", ErrInternal)
	}

	driver := &models.Driver{
		FirstName:         req.FirstName,
		Surname:           req.Surname,
		Email:             req.Email,
		PasswordHash:      hash,
		LicenseNumber:     req.LicenseNumber,
		YearsOfExperience: req.YearsOfExperience,
		LicenseImage:      req.LicenseImage,
	}
	if err := s.drivers.Create(ctx, driver); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", nil, ErrDuplicateCredential
		}
		return "", nil, fmt.Errorf("failed to create driver: %w", ErrInternal)
	}

	signed, _, err := s.tokens.Issue(driver.ID.Hex(), driver.Email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", ErrInternal)
	}
	return signed, driver, nil
}

// LoginDriver is login step one: check the password and, if it holds, bind a
// freshly generated OTP to the caller's session and mail it out. The code is
// never part of the response.
func (s *AuthService) LoginDriver(ctx context.Context, sessionID string, req *models.LoginDriverRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	driver, err := s.drivers.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to look up driver: %w", ErrInternal)
	}
	if !utils.CheckPassword(req.Password, driver.PasswordHash) {
		return ErrInvalidCredentials
	}

	now := time.Now()
	code := s.otp.GenerateFor(driver.ID.Hex(), now)
	pending := &models.PendingLogin{
		DriverID: driver.ID.Hex(),
		Email:    driver.Email,
		Code:     code,
		IssuedAt: now,
	}
	if err := s.sessions.PutPendingLogin(ctx, sessionID, pending, s.pendingTTL); err != nil {
		return fmt.Errorf("failed to store pending login: %w", ErrInternal)
	}

	// Mail is dispatched off the request path: a slow provider must not stall
	// the response, and a delivery failure must not undo the pending login.
	go func() {
		mailCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		subject := "Your shuttle tracker login code"
		body := fmt.Sprintf("<p>Hello %s,</p><p>Your one-time login code is <b>%s</b>. It expires in %d minutes.</p>",
			driver.FirstName, code, int(s.pendingTTL.Minutes()))
		if sendErr := s.mail.Send(mailCtx, driver.Email, subject, body); sendErr != nil {
			s.logger.Warn("failed to send OTP email",
				zap.String("email", driver.Email),
				zap.Error(sendErr),
			)
		}
	}()

	return nil
}

// VerifyOTP is login step two. The presented code must match both the exact
// code bound to this session and the TOTP time window; a time-valid code
// issued for another session is rejected.
func (s *AuthService) VerifyOTP(ctx context.Context, sessionID, code string) (string, *models.Driver, error) {
	pending, err := s.sessions.GetPendingLogin(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNoPendingLogin) {
			return "", nil, ErrSessionExpired
		}
		return "", nil, fmt.Errorf("failed to load pending login: %w", ErrInternal)
	}

	if code != pending.Code || !s.otp.VerifyFor(pending.DriverID, code, time.Now()) {
		// pending login stays; the caller may retry until it expires
		return "", nil, ErrInvalidOTP
	}

	driver, err := s.drivers.FindByID(ctx, pending.DriverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrSessionExpired
		}
		return "", nil, fmt.Errorf("failed to load driver: %w", ErrInternal)
	}

	if err := s.sessions.DeletePendingLogin(ctx, sessionID); err != nil {
		return "", nil, fmt.Errorf("failed to consume pending login: %w", ErrInternal)
	}

	// The session is recorded for the token's lifetime, then immediately
	// shortened: the bearer token takes over from here.
	if err := s.sessions.PutSession(ctx, sessionID, driver.ID.Hex(), s.tokens.TTL()); err != nil {
		s.logger.Warn("failed to record authenticated session", zap.Error(err))
	} else if err := s.sessions.SetExpiry(ctx, sessionID, s.pendingTTL); err != nil {
		s.logger.Warn("failed to shorten session expiry", zap.Error(err))
	}

	signed, _, err := s.tokens.Issue(driver.ID.Hex(), driver.Email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", ErrInternal)
	}
	return signed, driver, nil
}

// Signout revokes the presented bearer token, if any, and destroys the
// session. Revocation outlives the token's natural expiry.
func (s *AuthService) Signout(ctx context.Context, sessionID, bearerToken string) error {
	if bearerToken != "" {
		if err := s.blacklist.Add(ctx, bearerToken, time.Now().Add(s.blacklistRetention)); err != nil {
			return fmt.Errorf("failed to revoke token: %w", ErrInternal)
		}
	}
	if sessionID != "" {
		if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
			s.logger.Warn("failed to delete session", zap.Error(err))
		}
	}
	return nil
}

// Authenticate validates a bearer token for protected routes: revocation
// check first, then signature/expiry, then principal lookup. An expired token
// is blacklisted on sight so it cannot be replayed under clock skew.
func (s *AuthService) Authenticate(ctx context.Context, tokenStr string) (*models.Driver, error) {
	revoked, err := s.blacklist.IsBlacklisted(ctx, tokenStr)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation ledger: %w", ErrInternal)
	}
	if revoked {
		return nil, ErrUnauthorized
	}

	claims, err := s.tokens.Verify(tokenStr)
	if err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			if addErr := s.blacklist.Add(ctx, tokenStr, time.Now().Add(s.blacklistRetention)); addErr != nil {
				s.logger.Warn("failed to blacklist expired token", zap.Error(addErr))
			}
		}
		return nil, ErrUnauthorized
	}

	driver, err := s.drivers.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load driver: %w", ErrInternal)
	}
	return driver, nil
}

// FederatedLogin finds or creates the principal reported by an OAuth provider
// and issues a token. Federated principals have no password or OTP path.
func (s *AuthService) FederatedLogin(ctx context.Context, identity *oauth.Identity) (string, *models.User, error) {
	user, err := s.users.FindByProviderAccount(ctx, identity.Provider, identity.AccountID)
	if errors.Is(err, repository.ErrNotFound) {
		user = &models.User{
			Name:      identity.Name,
			Email:     identity.Email,
			AccountID: identity.AccountID,
			Provider:  identity.Provider,
		}
		if createErr := s.users.Create(ctx, user); createErr != nil {
			if !errors.Is(createErr, repository.ErrDuplicateEmail) {
				return "", nil, fmt.Errorf("failed to create federated user: %w", ErrInternal)
			}
			// lost a create race with a concurrent callback for the same account
			user, err = s.users.FindByProviderAccount(ctx, identity.Provider, identity.AccountID)
			if err != nil {
				return "", nil, fmt.Errorf("failed to load federated user: %w", ErrInternal)
			}
		}
	} else if err != nil {
		return "", nil, fmt.Errorf("failed to look up federated user: %w", ErrInternal)
	}

	signed, _, err := s.tokens.Issue(user.ID.Hex(), user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", ErrInternal)
	}
	return signed, user, nil
}

// RecordFederatedSession binds a federated login to the caller's session so
// the success endpoint can report who is signed in.
func (s *AuthService) RecordFederatedSession(ctx context.Context, sessionID, userID string) error {
	return s.sessions.PutSession(ctx, sessionID, userID, s.pendingTTL)
}

// FederatedUserBySession resolves the federated user bound to a session.
func (s *AuthService) FederatedUserBySession(ctx context.Context, sessionID string) (*models.User, error) {
	userID, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load federated user: %w", ErrInternal)
	}
	return user, nil
}
