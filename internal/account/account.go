// Package account manages users, sign-in state and score history on top of
// a kv.Store. Records are normalized on read so missing or malformed fields
// never reach callers.
package account

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/verte-zerg/typesymphony/internal/kv"
	"github.com/verte-zerg/typesymphony/internal/model"
)

const (
	// UsersKey holds the JSON array of all users.
	UsersKey = "users"
	// CurrentUserKey holds the JSON record of the signed-in user.
	CurrentUserKey = "user"
)

// Test user created by AddTestUser.
const (
	TestUserName     = "Test User"
	TestUserEmail    = "test@example.com"
	TestUserPassword = "password"
)

// Errors returned by Service.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotSignedIn        = errors.New("not signed in")
	ErrUnknownUser        = errors.New("unknown user")
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

type signupInput struct {
	Name     string `validate:"required,max=64"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Service provides account operations.
type Service struct {
	kv       kv.Store
	validate *validator.Validate
	hashCost int
	newID    func() string
}

// Option customizes a Service.
type Option func(*Service)

// WithHashCost sets the bcrypt cost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// New returns a Service persisting into st.
func New(st kv.Store, opts ...Option) *Service {
	s := &Service{
		kv:       st,
		validate: validator.New(),
		hashCost: bcrypt.DefaultCost,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user and signs them in.
func (s *Service) Register(ctx context.Context, name, email, password string) (model.User, error) {
	in := signupInput{
		Name:     strings.TrimSpace(name),
		Email:    normalizeEmail(email),
		Password: password,
	}
	if err := s.validateInput(in); err != nil {
		return model.User{}, err
	}
	list, err := s.loadUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	if _, ok := findByEmail(list.users, in.Email); ok {
		return model.User{}, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	user := model.User{
		ID:           s.newID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Scores:       []model.ScoreRecord{},
	}
	list.users = append(list.users, user)
	if err := s.saveUsers(ctx, list); err != nil {
		return model.User{}, err
	}
	if err := s.setCurrent(ctx, user); err != nil {
		return model.User{}, err
	}
	log.Info().Str("user", user.ID).Msg("registered user")
	return user, nil
}

// Login verifies credentials and signs the user in. Records that still carry
// a plaintext password are upgraded to a bcrypt hash on success.
func (s *Service) Login(ctx context.Context, email, password string) (model.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return model.User{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	list, err := s.loadUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	idx, ok := findByEmail(list.users, email)
	if !ok {
		return model.User{}, ErrInvalidCredentials
	}
	user := list.users[idx]
	switch {
	case user.PasswordHash != "":
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			return model.User{}, ErrInvalidCredentials
		}
	case user.Password != "":
		if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
			return model.User{}, ErrInvalidCredentials
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
		user.Password = ""
		list.users[idx] = user
		if err := s.saveUsers(ctx, list); err != nil {
			return model.User{}, err
		}
		log.Info().Str("user", user.ID).Msg("upgraded plaintext password")
	default:
		return model.User{}, ErrInvalidCredentials
	}
	if err := s.setCurrent(ctx, user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Logout signs the current user out.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.kv.Delete(ctx, CurrentUserKey); err != nil {
		return fmt.Errorf("failed to clear current user: %w", err)
	}
	return nil
}

// CurrentUser returns the signed-in user. The users list is authoritative
// when it contains the same id. A malformed record is removed.
func (s *Service) CurrentUser(ctx context.Context) (model.User, bool, error) {
	data, ok, err := s.kv.Get(ctx, CurrentUserKey)
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to read current user: %w", err)
	}
	if !ok {
		return model.User{}, false, nil
	}
	current, err := decodeUser([]byte(data))
	if err != nil || current.ID == "" {
		log.Warn().Err(err).Msg("current user record is malformed; signing out")
		if derr := s.kv.Delete(ctx, CurrentUserKey); derr != nil {
			return model.User{}, false, fmt.Errorf("failed to clear current user: %w", derr)
		}
		return model.User{}, false, nil
	}
	users, err := s.Users(ctx)
	if err != nil {
		return model.User{}, false, err
	}
	if idx, ok := findByID(users, current.ID); ok {
		return users[idx], true, nil
	}
	return current, true, nil
}

// Users returns every stored user.
func (s *Service) Users(ctx context.Context) ([]model.User, error) {
	list, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	return list.users, nil
}

// AppendScore adds rec to the history of the user with the given id. The
// signed-in record is updated even when the users list no longer holds it.
func (s *Service) AppendScore(ctx context.Context, userID string, rec model.ScoreRecord) error {
	current, signedIn, err := s.CurrentUser(ctx)
	if err != nil {
		return err
	}
	isCurrent := signedIn && current.ID == userID

	list, err := s.loadUsers(ctx)
	if err != nil {
		return err
	}
	idx, listed := findByID(list.users, userID)
	switch {
	case listed:
		list.users[idx].Scores = append(list.users[idx].Scores, rec)
		if err := s.saveUsers(ctx, list); err != nil {
			return err
		}
		current = list.users[idx]
	case isCurrent:
		log.Warn().Str("user", userID).Msg("user missing from users record; saving score to current user only")
		current.Scores = append(current.Scores, rec)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}

	if isCurrent {
		if err := s.setCurrent(ctx, current); err != nil {
			return err
		}
	}
	log.Info().Str("user", userID).Int("wpm", rec.WPM).Int("accuracy", rec.Accuracy).Msg("score recorded")
	return nil
}

// AddTestUser creates the well-known test account unless it already exists.
func (s *Service) AddTestUser(ctx context.Context) (model.User, bool, error) {
	list, err := s.loadUsers(ctx)
	if err != nil {
		return model.User{}, false, err
	}
	if idx, ok := findByEmail(list.users, TestUserEmail); ok {
		return list.users[idx], false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(TestUserPassword), s.hashCost)
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to hash password: %w", err)
	}
	user := model.User{
		ID:           s.newID(),
		Name:         TestUserName,
		Email:        TestUserEmail,
		PasswordHash: string(hash),
		Scores:       []model.ScoreRecord{},
	}
	list.users = append(list.users, user)
	if err := s.saveUsers(ctx, list); err != nil {
		return model.User{}, false, err
	}
	return user, true, nil
}

func (s *Service) validateInput(in signupInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		if len(in.Password) > maxPasswordBytes {
			return fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, maxPasswordBytes)
		}
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func (s *Service) loadUsers(ctx context.Context) (userList, error) {
	data, ok, err := s.kv.Get(ctx, UsersKey)
	if err != nil {
		return userList{}, fmt.Errorf("failed to read users: %w", err)
	}
	if !ok {
		return userList{}, nil
	}
	return decodeUsers(data), nil
}

func (s *Service) saveUsers(ctx context.Context, list userList) error {
	data, err := encodeUsers(list)
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	if err := s.kv.Set(ctx, UsersKey, data); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}

func (s *Service) setCurrent(ctx context.Context, u model.User) error {
	data, err := encodeUser(u)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.kv.Set(ctx, CurrentUserKey, data); err != nil {
		return fmt.Errorf("failed to save current user: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func findByEmail(users []model.User, email string) (int, bool) {
	for i, u := range users {
		if strings.EqualFold(u.Email, email) {
			return i, true
		}
	}
	return -1, false
}

func findByID(users []model.User, id string) (int, bool) {
	for i, u := range users {
		if u.ID == id {
			return i, true
		}
	}
	return -1, false
}
