package service

import (
	"context"
	"time"

	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/repository"
	"audio-mixing-backend/internal/util"

	"github.com/google/uuid"
	"github.com/nanorand/nanorand"
	"go.uber.org/zap"
)

type AuthService struct {
	repo     *repository.Repository
	hasher   PasswordHasher
	tokens   TokenProvider
	limiter  RateLimiter
	notifier *Notifier

	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time

	log *zap.Logger
}

type ClientMeta struct {
	IP        *string
	UserAgent *string
}

func NewAuthService(
	repo *repository.Repository,
	hasher PasswordHasher,
	tokens TokenProvider,
	limiter RateLimiter,
	notifier *Notifier,
	accessTTL, refreshTTL time.Duration,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		limiter:  limiter,
		notifier: notifier,

		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
		log:        log,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	exists, err := s.repo.Users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		ID:              uuid.New(),
		Email:           in.Email,
		Password:        hash,
		Name:            in.Name,
		Phone:           in.Phone,
		Role:            models.RoleCustomer,
		IsEmailVerified: false,
	}

	if err := s.repo.Users.Create(ctx, u); err != nil {
		return nil, err
	}

	// Earlier guest checkouts with this email become the new account's orders.
	if n, err := s.repo.Orders.ClaimGuestOrders(ctx, u.Email, u.ID); err != nil {
		s.log.Warn("claim guest orders failed", zap.String("email", u.Email), zap.Error(err))
	} else if n > 0 {
		s.log.Info("guest orders claimed", zap.String("user_id", u.ID.String()), zap.Int64("count", n))
	}

	if err := s.issueEmailVerification(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *AuthService) issueEmailVerification(ctx context.Context, u *models.User) error {
	code, err := nanorand.Gen(10)
	if err != nil {
		return err
	}

	ver := models.EmailVerification{
		UserID:    u.ID,
		Email:     u.Email,
		CodeHash:  util.Sha256Base64URL(code),
		ExpiresAt: s.now().Add(24 * time.Hour),
		CreatedAt: s.now(),
	}
	if err := s.repo.EmailVerify.Create(ctx, &ver); err != nil {
		return err
	}

	s.notifier.Send(ctx, u.ID.String(), EmailMessage{
		To:       u.Email,
		Subject:  "Verify your email",
		Template: TmplVerifyEmail,
		Data:     map[string]any{"name": u.Name, "code": code},
	})
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string, meta ClientMeta) (*models.User, TokenPair, error) {
	user, err := s.repo.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if user == nil || !s.hasher.Compare(user.Password, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user, meta)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

func (s *AuthService) issuePair(ctx context.Context, user *models.User, meta ClientMeta) (TokenPair, error) {
	access, aexp, err := s.tokens.SignAccess(ctx, user.ID, string(user.Role), s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	opaque, hash, rexp, err := s.tokens.NewRefresh(ctx, user.ID, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	rt := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hash,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		ExpiresAt: rexp,
		CreatedAt: s.now(),
	}
	if err := s.repo.RefreshTokens.Create(ctx, rt); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  aexp,
		RefreshOpaque:    opaque,
		RefreshExpiresAt: rexp,
		RefreshHash:      hash,
	}, nil
}

// Refresh rotates the pair: the presented token is revoked and a new one
// issued in its place.
func (s *AuthService) Refresh(ctx context.Context, opaque string, meta ClientMeta) (TokenPair, error) {
	hash := util.Sha256Base64URL(opaque)
	now := s.now()

	active, err := s.repo.RefreshTokens.IsActiveByHash(ctx, hash, now)
	if err != nil {
		return TokenPair{}, err
	}
	if !active {
		return TokenPair{}, ErrTokenExpired
	}

	rt, err := s.repo.RefreshTokens.GetByHash(ctx, hash)
	if err != nil {
		return TokenPair{}, err
	}
	if rt == nil {
		return TokenPair{}, ErrTokenExpired
	}

	user, err := s.repo.Users.GetByID(ctx, rt.UserID)
	if err != nil {
		return TokenPair{}, err
	}
	if user == nil {
		return TokenPair{}, ErrNotFound
	}

	if _, err := s.repo.RefreshTokens.RevokeByHash(ctx, hash); err != nil {
		return TokenPair{}, err
	}
	_ = s.repo.RefreshTokens.Touch(ctx, hash, now)

	return s.issuePair(ctx, user, meta)
}

func (s *AuthService) Logout(ctx context.Context, opaque string) error {
	if opaque == "" {
		return ErrTokenExpired
	}
	ok, err := s.repo.RefreshTokens.RevokeByHash(ctx, util.Sha256Base64URL(opaque))
	if err != nil {
		return err
	}
	if !ok {
		return ErrTokenExpired
	}
	return nil
}

func (s *AuthService) LogoutAll(ctx context.Context) (int64, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return 0, err
	}
	return s.repo.RefreshTokens.RevokeAll(ctx, userID)
}

func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *AuthService) rateLimit(ctx context.Context, key string, ttl time.Duration) error {
	if s.limiter == nil {
		return nil
	}
	limited, err := s.limiter.CheckRateLimit(ctx, key)
	if err != nil {
		s.log.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if limited {
		return ErrRateLimited
	}
	if err := s.limiter.SetRateLimit(ctx, key, ttl); err != nil {
		s.log.Warn("rate limit set failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// RequestPasswordReset always reports success to the caller so the endpoint
// cannot be used to probe which emails have accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if err := s.rateLimit(ctx, "pwreset:"+email, time.Minute); err != nil {
		return err
	}

	u, err := s.repo.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return nil
	}

	code, err := nanorand.Gen(6)
	if err != nil {
		return err
	}

	reset := &models.PasswordResetToken{
		UserID:    u.ID,
		Email:     email,
		CodeHash:  util.Sha256Base64URL(code),
		ExpiresAt: s.now().Add(time.Hour),
		CreatedAt: s.now(),
	}
	if err := s.repo.PasswordReset.Create(ctx, reset); err != nil {
		return err
	}

	s.notifier.Send(ctx, u.ID.String(), EmailMessage{
		To:       email,
		Subject:  "Password reset code",
		Template: TmplPasswordReset,
		Data:     map[string]any{"name": u.Name, "code": code},
	})
	return nil
}

func (s *AuthService) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	reset, err := s.repo.PasswordReset.GetValidByHash(ctx, util.Sha256Base64URL(code), s.now())
	if err != nil {
		return err
	}
	if reset == nil {
		return ErrCodeInvalid
	}

	user, err := s.repo.Users.GetByID(ctx, reset.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	user.Password = hash
	if err := s.repo.Users.UpdatePassword(ctx, user); err != nil {
		return err
	}

	if _, err := s.repo.PasswordReset.Consume(ctx, reset.ID); err != nil {
		s.log.Warn("consume password reset failed", zap.Error(err))
	}
	if _, err := s.repo.RefreshTokens.RevokeAll(ctx, user.ID); err != nil {
		s.log.Warn("revoke refresh tokens failed", zap.Error(err))
	}
	if _, err := s.repo.PasswordReset.DeleteAllForUser(ctx, user.ID); err != nil {
		s.log.Warn("delete password reset tokens failed", zap.Error(err))
	}
	return nil
}

func (s *AuthService) RequestEmailVerification(ctx context.Context, email string) error {
	if err := s.rateLimit(ctx, "verify:"+email, time.Minute); err != nil {
		return err
	}

	u, err := s.repo.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}
	if u.IsEmailVerified {
		return ErrAlreadyExists
	}
	return s.issueEmailVerification(ctx, u)
}

func (s *AuthService) ConfirmEmailVerification(ctx context.Context, code string) error {
	ver, err := s.repo.EmailVerify.GetValidByHash(ctx, util.Sha256Base64URL(code), s.now())
	if err != nil {
		return err
	}
	if ver == nil {
		return ErrCodeInvalid
	}

	user, err := s.repo.Users.GetByID(ctx, ver.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	user.IsEmailVerified = true
	if err := s.repo.Users.UpdateIsEmailVerified(ctx, user); err != nil {
		return err
	}
	if _, err := s.repo.EmailVerify.Consume(ctx, ver.ID); err != nil {
		s.log.Warn("consume email verification failed", zap.Error(err))
	}
	return nil
}
