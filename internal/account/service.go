// Package account implements the CloudDrop account store: the durable record
// of registered users and the operations mutating it. On successful
// registration or login it delegates to the session manager to establish the
// session state.
package account

import (
	"regexp"
	"strings"
	"time"

	"github.com/clouddrop/clouddrop/internal/cderror"
	"github.com/clouddrop/clouddrop/internal/database"
	"github.com/clouddrop/clouddrop/internal/model"
	"github.com/clouddrop/clouddrop/internal/session"
	"github.com/clouddrop/clouddrop/pkg/digest"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// invalidCredentials is deliberately identical whether the email is unknown
// or the password mismatches, so accounts cannot be enumerated.
const invalidCredentials = "Invalid email or password"

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type (
	// RegisterParams are used to register a user.
	RegisterParams struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// LoginParams are used to login a user.
	LoginParams struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// ProfileParams are the profile fields a user can update.
	// Nil fields are left untouched, provided fields overwrite.
	ProfileParams struct {
		Name          *string `json:"name"`
		Notifications *bool   `json:"notifications"`
		TwoFactor     *bool   `json:"two_factor"`
		Theme         *string `json:"theme"`
	}

	// A Result is the outcome of a successful account operation.
	Result struct {
		Message   string
		User      *model.User // sanitized
		IsNew     bool
		Returning bool
	}

	// A Service is the account store.
	Service struct {
		db       database.Client
		sessions session.Manager
		digest   digest.Digest
	}
)

// NewService returns a new account Service.
func NewService(db database.Client, sessions session.Manager, d digest.Digest) *Service {
	return &Service{
		db:       db,
		sessions: sessions,
		digest:   d,
	}
}

// Register creates a new account and establishes its session.
func (s *Service) Register(params RegisterParams) (*Result, error) {
	if params.Name == "" || params.Email == "" || params.Password == "" {
		return nil, cderror.Validation("All fields are required")
	}

	email := strings.ToLower(params.Email)
	if !emailRegexp.MatchString(email) {
		return nil, cderror.Validation("Please enter a valid email address")
	}

	if len(params.Password) < MinPasswordLength {
		return nil, cderror.Validation("Password must be at least 8 characters long")
	}

	// Check if the email is free to use.
	existing, err := s.db.FindUserByMail(email)
	if err != nil && !s.db.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not get access to database")
	}
	if existing != nil {
		return nil, cderror.DuplicateEmail("An account with this email already exists")
	}

	// Initialize user.
	user := model.NewUser()
	user.Name = params.Name
	user.Email = email

	user.Password, err = s.digest.Generate(params.Password)
	if err != nil {
		return nil, errors.Wrap(err, "could not store user password safe")
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now

	// Persist the model.
	if err = s.db.Save(user); err != nil {
		logrus.WithError(err).Error("could not save user")
		return nil, errors.Wrap(err, "could not persist user")
	}

	if _, err = s.sessions.Create(user); err != nil {
		return nil, errors.Wrap(err, "could not establish session")
	}

	return &Result{
		Message: "Account created successfully!",
		User:    user.Sanitize(),
		IsNew:   true,
	}, nil
}

// Login authenticates a user and establishes its session.
func (s *Service) Login(params LoginParams) (*Result, error) {
	if params.Email == "" || params.Password == "" {
		return nil, cderror.Validation("Email and password are required")
	}

	user, err := s.db.FindUserByMail(params.Email)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, cderror.InvalidCredentials(invalidCredentials)
		}
		return nil, errors.Wrap(err, "could not get user")
	}

	if err = s.compare(user.Password, params.Password); err != nil {
		if err == digest.ErrMismatch {
			return nil, cderror.InvalidCredentials(invalidCredentials)
		}
		return nil, err
	}

	// A user is "returning" from the second login on: the first login after
	// registration is the one that flips the new-user flag.
	returning := !user.IsNew
	user.IsNew = false

	now := time.Now().UTC()
	user.LastLoginAt = &now

	if err = s.db.Save(user); err != nil {
		logrus.WithError(err).Error("could not save user")
		return nil, errors.Wrap(err, "could not persist user")
	}

	if _, err = s.sessions.Create(user); err != nil {
		return nil, errors.Wrap(err, "could not establish session")
	}

	return &Result{
		Message:   "Login successful!",
		User:      user.Sanitize(),
		Returning: returning,
	}, nil
}

// UpdateProfile merges the provided fields into the record and refreshes the
// durable current-user snapshot.
func (s *Service) UpdateProfile(id string, params ProfileParams) (*Result, error) {
	user, err := s.findUser(id)
	if err != nil {
		return nil, err
	}

	s.apply(user, params)

	if err = s.db.Save(user); err != nil {
		logrus.WithError(err).Error("could not save user")
		return nil, errors.Wrap(err, "could not persist user")
	}

	if err = s.db.SaveSnapshot(user); err != nil {
		return nil, errors.Wrap(err, "could not refresh current-user snapshot")
	}

	return &Result{
		Message: "Profile updated successfully",
		User:    user.Sanitize(),
	}, nil
}

// ChangePassword replaces the password digest. It does not rotate the
// session.
func (s *Service) ChangePassword(id, currentPassword, newPassword string) (*Result, error) {
	user, err := s.findUser(id)
	if err != nil {
		return nil, err
	}

	if err = s.compare(user.Password, currentPassword); err != nil {
		if err == digest.ErrMismatch {
			return nil, cderror.InvalidCredentials("Current password is incorrect")
		}
		return nil, err
	}

	if len(newPassword) < MinPasswordLength {
		return nil, cderror.Validation("New password must be at least 8 characters long")
	}

	user.Password, err = s.digest.Generate(newPassword)
	if err != nil {
		return nil, errors.Wrap(err, "could not store user password safe")
	}

	if err = s.db.Save(user); err != nil {
		logrus.WithError(err).Error("could not save user")
		return nil, errors.Wrap(err, "could not persist user")
	}

	return &Result{
		Message: "Password changed successfully",
	}, nil
}

// DeleteAccount removes the record from the collection and terminates the
// session.
func (s *Service) DeleteAccount(id, password string) (*Result, error) {
	user, err := s.findUser(id)
	if err != nil {
		return nil, err
	}

	if err = s.compare(user.Password, password); err != nil {
		if err == digest.ErrMismatch {
			return nil, cderror.InvalidCredentials("Incorrect password")
		}
		return nil, err
	}

	if err = s.db.Delete(user); err != nil {
		return nil, errors.Wrap(err, "could not delete user")
	}

	if err = s.sessions.Logout(); err != nil {
		return nil, errors.Wrap(err, "could not terminate session")
	}

	return &Result{
		Message: "Account deleted successfully",
	}, nil
}

// EmailExists returns true if an account exists for the given email,
// case-insensitive.
func (s *Service) EmailExists(email string) (bool, error) {
	_, err := s.db.FindUserByMail(email)
	if err != nil {
		if s.db.IsNotFound(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "could not get access to database")
	}
	return true, nil
}

// UserByEmail returns the sanitized account for the given email, or nil when
// no account matches. The lookup is case-insensitive.
func (s *Service) UserByEmail(email string) (*model.User, error) {
	user, err := s.db.FindUserByMail(email)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "could not get access to database")
	}
	return user.Sanitize(), nil
}

// AllUsers returns sanitized copies of all accounts ordered by creation date.
func (s *Service) AllUsers() ([]*model.User, error) {
	users, err := s.db.AllUsers()
	if err != nil {
		return nil, err
	}

	sanitized := make([]*model.User, 0, len(users))
	for _, u := range users {
		sanitized = append(sanitized, u.Sanitize())
	}
	return sanitized, nil
}

func (s *Service) findUser(id string) (*model.User, error) {
	user, err := s.db.FindUser(id)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, cderror.NotFound("User not found")
		}
		return nil, errors.Wrap(err, "could not get access to database")
	}
	return user, nil
}

// compare separates the mismatch verdict from infrastructure failures.
func (s *Service) compare(encoded, password string) error {
	err := s.digest.Compare(encoded, password)
	if err != nil && err != digest.ErrMismatch {
		return errors.Wrap(err, "could not validate password")
	}
	return err
}

// updates given user with given params.
// works like strong_parameter.
func (s *Service) apply(u *model.User, params ProfileParams) {
	if params.Name != nil {
		u.Name = *params.Name
	}

	if params.Notifications != nil {
		u.Settings.Notifications = *params.Notifications
	}

	if params.TwoFactor != nil {
		u.Settings.TwoFactor = *params.TwoFactor
	}

	if params.Theme != nil {
		u.Settings.Theme = *params.Theme
	}
}
