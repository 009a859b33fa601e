// Package devapi holds the rules of the local replica of the grade API: account
// handling, school scoping and grade classification.
package devapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/validation"
)

const tokenIssuer = "gradebook-devapi"

// AccountsConfig configures token issuance.
type AccountsConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// Accounts registers users, checks credentials and issues HS256 tokens.
type Accounts struct {
	db        *repository.MemoryDB
	config    AccountsConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAccounts constructs the account rules.
func NewAccounts(db *repository.MemoryDB, cfg AccountsConfig, validate *validator.Validate, logger *zap.Logger) *Accounts {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 48 * time.Hour
	}
	return &Accounts{db: db, config: cfg, validator: validation.Register(validate), logger: logger, now: time.Now}
}

// Register creates an account in an existing school and returns it with a
// token. The caller decides whether to use the token.
func (a *Accounts) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.Struct(a.validator, req); err != nil {
		return nil, err
	}
	if _, err := a.db.School(req.SchoolID); err != nil {
		return nil, appErrors.WithMessages(appErrors.ErrRejected, "school not found")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "hash password")
	}
	rec, err := a.db.CreateUser(repository.UserRecord{
		User: models.User{
			Name:     req.Name,
			Email:    req.Email,
			Role:     req.Role,
			SchoolID: req.SchoolID,
			Address:  req.Address,
			Phone:    req.Phone,
		},
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	token, err := a.issue(rec.User)
	if err != nil {
		return nil, err
	}
	a.logger.Info("user registered", zap.String("user_id", rec.ID), zap.String("role", string(rec.Role)))
	return &models.AuthResponse{User: rec.User, Token: token}, nil
}

// Login checks credentials. Unknown emails and wrong passwords fail alike.
func (a *Accounts) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	if err := validation.Struct(a.validator, req); err != nil {
		return nil, err
	}
	rec, err := a.db.UserByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}
	token, err := a.issue(rec.User)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{User: rec.User, Token: token}, nil
}

// ValidateToken parses and verifies a bearer token.
func (a *Accounts) ValidateToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.config.Secret), nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	// tokens outlive deleted accounts
	if _, err := a.db.User(claims.UserID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists")
	}
	return claims, nil
}

func (a *Accounts) issue(user models.User) (string, error) {
	issuedAt := a.now().UTC()
	claims := &models.Claims{
		UserID:   user.ID,
		SchoolID: user.SchoolID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(a.config.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.config.Secret))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal, "sign token")
	}
	return signed, nil
}

// Me returns the caller's profile.
func (a *Accounts) Me(claims *models.Claims) (*models.User, error) {
	rec, err := a.db.User(claims.UserID)
	if err != nil {
		return nil, err
	}
	return &rec.User, nil
}

// List returns the users of the caller's school.
func (a *Accounts) List(claims *models.Claims, role models.UserRole) []models.User {
	return a.db.ListUsers(claims.SchoolID, role)
}

// Get returns a user of the caller's school.
func (a *Accounts) Get(claims *models.Claims, id string) (*models.User, error) {
	rec, err := a.scoped(claims, id)
	if err != nil {
		return nil, err
	}
	return &rec.User, nil
}

func (a *Accounts) scoped(claims *models.Claims, id string) (*repository.UserRecord, error) {
	rec, err := a.db.User(id)
	if err != nil {
		return nil, err
	}
	if rec.SchoolID != claims.SchoolID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	return rec, nil
}

// Update applies a partial update. A new password must be confirmed.
func (a *Accounts) Update(claims *models.Claims, id string, in models.UpdateUserInput) (*models.User, error) {
	if err := validation.Struct(a.validator, in); err != nil {
		return nil, err
	}
	rec, err := a.scoped(claims, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		rec.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		rec.Email = strings.TrimSpace(*in.Email)
	}
	if in.Address != nil {
		rec.Address = *in.Address
	}
	if in.Phone != nil {
		rec.Phone = *in.Phone
	}
	if in.Password != nil {
		if in.PasswordConfirmation == nil || *in.PasswordConfirmation != *in.Password {
			return nil, appErrors.WithMessages(appErrors.ErrRejected, appErrors.ErrPasswordMismatch.Message)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal, "hash password")
		}
		rec.PasswordHash = string(hash)
	}
	updated, err := a.db.UpdateUser(*rec)
	if err != nil {
		return nil, err
	}
	return &updated.User, nil
}

// Delete removes a user of the caller's school. Nobody deletes themselves.
func (a *Accounts) Delete(claims *models.Claims, id string) error {
	if id == claims.UserID {
		return appErrors.WithMessages(appErrors.ErrRejected, "cannot delete your own account")
	}
	if _, err := a.scoped(claims, id); err != nil {
		return err
	}
	return a.db.DeleteUser(id)
}
