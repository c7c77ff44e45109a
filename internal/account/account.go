// Package account implements the local login and registration flow: a
// single stored record, plaintext comparison, field-level validation.
// It gates the app on this device and nothing more.
package account

import (
	"errors"
	"regexp"
	"strings"

	"github.com/healing-app/healing/internal/prefs"
)

var (
	ErrNoAccount          = errors.New("no hay una cuenta registrada")
	ErrInvalidCredentials = errors.New("correo o contraseña incorrectos")
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// LoginErrors carries per-field validation messages; empty means valid.
type LoginErrors struct {
	Email    string
	Password string
}

func (e LoginErrors) OK() bool {
	return e.Email == "" && e.Password == ""
}

// RegisterErrors carries per-field validation messages for registration.
type RegisterErrors struct {
	Name     string
	Email    string
	Password string
}

func (e RegisterErrors) OK() bool {
	return e.Name == "" && e.Email == "" && e.Password == ""
}

// CheckLogin validates the login form.
func CheckLogin(email, password string) LoginErrors {
	return LoginErrors{
		Email:    checkEmail(email),
		Password: checkPassword(password),
	}
}

// CheckRegister validates the registration form.
func CheckRegister(name, email, password string) RegisterErrors {
	var nameErr string
	if strings.TrimSpace(name) == "" {
		nameErr = "Ingresa tu nombre"
	}
	return RegisterErrors{
		Name:     nameErr,
		Email:    checkEmail(email),
		Password: checkPassword(password),
	}
}

func checkEmail(email string) string {
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		return "Ingresa tu correo"
	case !validEmail(email):
		return "Correo inválido"
	}
	return ""
}

func checkPassword(password string) string {
	switch {
	case password == "":
		return "Ingresa tu contraseña"
	case len(password) < 6:
		return "Mínimo 6 caracteres"
	case len(password) > 15:
		return "Máximo 15 caracteres"
	}
	return ""
}

// validEmail requires a mail shape and a .com/.cl suffix, matching the
// app's original acceptance rule.
func validEmail(email string) bool {
	if !emailRx.MatchString(email) {
		return false
	}
	lower := strings.ToLower(email)
	return strings.HasSuffix(lower, ".com") || strings.HasSuffix(lower, ".cl")
}

// Service binds the validation rules to the stored account record.
type Service struct {
	prefs *prefs.Prefs
}

func NewService(p *prefs.Prefs) *Service {
	return &Service{prefs: p}
}

// Register validates the form, stores the account, and logs the new
// user in. A second registration replaces the stored record.
func (s *Service) Register(name, email, password string) (RegisterErrors, error) {
	errs := CheckRegister(name, email, password)
	if !errs.OK() {
		return errs, nil
	}

	u := prefs.User{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if err := s.prefs.SaveUser(u); err != nil {
		return errs, err
	}
	return errs, s.prefs.SetLoggedIn(true)
}

// Login compares the form against the single stored record and flips
// the login flag on success.
func (s *Service) Login(email, password string) (LoginErrors, error) {
	errs := CheckLogin(email, password)
	if !errs.OK() {
		return errs, nil
	}

	stored, ok := s.prefs.User()
	if !ok {
		return errs, ErrNoAccount
	}

	if !strings.EqualFold(stored.Email, strings.TrimSpace(email)) || stored.Password != password {
		return errs, ErrInvalidCredentials
	}
	return errs, s.prefs.SetLoggedIn(true)
}

// Logout clears the login flag; the account record stays.
func (s *Service) Logout() error {
	return s.prefs.SetLoggedIn(false)
}
