package services

import (
	"context"
	cryptorand "crypto/rand"
	"crypto/subtle"
	"database/sql"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/crypto/argon2"

	"github.com/vilabank/console/internal/config"
	"github.com/vilabank/console/internal/models"
)

// RegisterRequest carries everything the open-account flow collects.
type RegisterRequest struct {
	CPF         string    `validate:"required,cpf"`
	Name        string    `validate:"required,min=2"`
	Email       string    `validate:"required,email"`
	Phone       string    `validate:"required,numeric,min=10,max=11"`
	BirthDate   time.Time `validate:"required"`
	AccountType string    `validate:"required,oneof=CHECKING SAVINGS SALARY"`
	Password    string    `validate:"required,min=6"`
}

// UserService handles registration and authentication. The account row is
// created together with the user row in one transaction, so a registered
// user always has exactly one account. Redis is optional: without it the
// failed-login limiter is skipped.
type UserService struct {
	db        *sql.DB
	redis     *redis.Client
	accounts  AccountStore
	validator *ValidationHelper
	cfg       *config.ConsoleConfig
}

func NewUserService(db *sql.DB, redisClient *redis.Client, accounts AccountStore, cfg *config.ConsoleConfig) *UserService {
	viper.SetDefault("argon2.time", 1)
	viper.SetDefault("argon2.memory", 64*1024)
	viper.SetDefault("argon2.threads", 4)
	viper.SetDefault("argon2.key_length", 32)
	viper.SetDefault("argon2.salt_length", 16)

	return &UserService{
		db:        db,
		redis:     redisClient,
		accounts:  accounts,
		validator: NewValidationHelper(),
		cfg:       cfg,
	}
}

// Register creates the user and their account in a single transaction.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, *models.Account, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, nil, err
	}

	if age(req.BirthDate) < s.cfg.MinimumAge {
		return nil, nil, ErrUnderage
	}

	cpf := normalizeCPF(req.CPF)

	registered, err := s.CPFRegistered(ctx, cpf)
	if err != nil {
		return nil, nil, err
	}
	if registered {
		return nil, nil, ErrCPFAlreadyRegistered
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, storeErr("begin registration", err)
	}
	defer tx.Rollback()

	user := &models.User{
		CPF:       cpf,
		Name:      req.Name,
		Email:     strings.ToLower(req.Email),
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
		Password:  hashedPassword,
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (cpf, name, email, phone, birth_date, password)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		user.CPF, user.Name, user.Email, user.Phone, user.BirthDate, user.Password).Scan(&user.ID)
	if err != nil {
		return nil, nil, storeErr("create user", err)
	}

	account := &models.Account{
		UserID:      user.ID,
		Balance:     decimal.Zero,
		AccountType: req.AccountType,
	}
	if err := s.accounts.Create(ctx, tx, account); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, storeErr("commit registration", err)
	}

	log.Printf("[AUTH] User created - ID: %d, account: %d (%s)", user.ID, account.ID, account.AccountType)
	return user, account, nil
}

// Login authenticates a CPF/password pair.
func (s *UserService) Login(ctx context.Context, cpf, password string) (*models.User, error) {
	cpf = normalizeCPF(cpf)

	if err := s.checkLoginAttempts(ctx, cpf); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, cpf, name, email, phone, birth_date, password
		FROM users
		WHERE cpf = $1`, cpf).
		Scan(&user.ID, &user.CPF, &user.Name, &user.Email, &user.Phone, &user.BirthDate, &user.Password)
	if err == sql.ErrNoRows {
		s.recordFailedLogin(ctx, cpf)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storeErr("fetch user", err)
	}

	if !verifyPassword(password, user.Password) {
		log.Printf("[AUTH] Invalid password for CPF ending %s", cpfSuffix(cpf))
		s.recordFailedLogin(ctx, cpf)
		return nil, ErrInvalidCredentials
	}

	s.clearFailedLogins(ctx, cpf)
	log.Printf("[AUTH] Login successful for user %d", user.ID)
	user.Password = ""
	return &user, nil
}

// CPFRegistered reports whether a user with that CPF already exists. The
// open-account flow uses it to abort before collecting the remaining fields.
func (s *UserService) CPFRegistered(ctx context.Context, cpf string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE cpf = $1`, normalizeCPF(cpf)).Scan(&count)
	if err != nil {
		return false, storeErr("check cpf", err)
	}
	return count > 0, nil
}

func (s *UserService) checkLoginAttempts(ctx context.Context, cpf string) error {
	if s.redis == nil {
		return nil
	}

	key := loginAttemptsKey(cpf)
	count, err := s.redis.Get(ctx, key).Int()
	if err != nil && err != redis.Nil {
		log.Printf("[AUTH] Login limiter unavailable, skipping: %v", err)
		return nil
	}

	if count >= s.cfg.MaxLoginAttempts {
		return ErrTooManyLoginAttempts
	}
	return nil
}

func (s *UserService) recordFailedLogin(ctx context.Context, cpf string) {
	if s.redis == nil {
		return
	}

	key := loginAttemptsKey(cpf)
	pipe := s.redis.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.cfg.LoginLockWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[AUTH] Failed to record login attempt: %v", err)
	}
}

func (s *UserService) clearFailedLogins(ctx context.Context, cpf string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, loginAttemptsKey(cpf)).Err(); err != nil {
		log.Printf("[AUTH] Failed to clear login attempts: %v", err)
	}
}

func loginAttemptsKey(cpf string) string {
	return fmt.Sprintf("login:attempts:%s", cpf)
}

func normalizeCPF(cpf string) string {
	return strings.NewReplacer(".", "", "-", "").Replace(strings.TrimSpace(cpf))
}

func cpfSuffix(cpf string) string {
	if len(cpf) < 2 {
		return cpf
	}
	return cpf[len(cpf)-2:]
}

func age(birthDate time.Time) int {
	now := time.Now()
	years := now.Year() - birthDate.Year()
	if now.YearDay() < birthDate.YearDay() {
		years--
	}
	return years
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, viper.GetInt("argon2.salt_length"))
	if _, err := cryptorand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt,
		uint32(viper.GetInt("argon2.time")),
		uint32(viper.GetInt("argon2.memory")),
		uint8(viper.GetInt("argon2.threads")),
		uint32(viper.GetInt("argon2.key_length")))
	return fmt.Sprintf("%s$%s", base64.StdEncoding.EncodeToString(salt), base64.StdEncoding.EncodeToString(hash)), nil
}

func verifyPassword(password, hashedPassword string) bool {
	parts := strings.Split(hashedPassword, "$")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}

	hash, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt,
		uint32(viper.GetInt("argon2.time")),
		uint32(viper.GetInt("argon2.memory")),
		uint8(viper.GetInt("argon2.threads")),
		uint32(viper.GetInt("argon2.key_length")))
	return subtle.ConstantTimeCompare(hash, computedHash) == 1
}
