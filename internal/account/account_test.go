package account

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/healing-app/healing/internal/prefs"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	p, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.json"))
	if err != nil {
		t.Fatalf("failed to open prefs: %v", err)
	}
	return NewService(p)
}

func TestCheckLogin(t *testing.T) {
	tests := []struct {
		name         string
		email        string
		password     string
		wantEmail    string
		wantPassword string
	}{
		{"valid", "ana@example.com", "secreta1", "", ""},
		{"valid cl domain", "ana@example.cl", "secreta1", "", ""},
		{"empty email", "", "secreta1", "Ingresa tu correo", ""},
		{"whitespace email", "   ", "secreta1", "Ingresa tu correo", ""},
		{"malformed email", "ana-example.com", "secreta1", "Correo inválido", ""},
		{"wrong tld", "ana@example.org", "secreta1", "Correo inválido", ""},
		{"empty password", "ana@example.com", "", "", "Ingresa tu contraseña"},
		{"short password", "ana@example.com", "abc12", "", "Mínimo 6 caracteres"},
		{"long password", "ana@example.com", "0123456789012345", "", "Máximo 15 caracteres"},
		{"both invalid", "nope", "x", "Correo inválido", "Mínimo 6 caracteres"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := CheckLogin(tt.email, tt.password)
			if errs.Email != tt.wantEmail {
				t.Errorf("email error = %q, want %q", errs.Email, tt.wantEmail)
			}
			if errs.Password != tt.wantPassword {
				t.Errorf("password error = %q, want %q", errs.Password, tt.wantPassword)
			}
			if errs.OK() != (tt.wantEmail == "" && tt.wantPassword == "") {
				t.Errorf("OK() = %v, inconsistent with field errors", errs.OK())
			}
		})
	}
}

func TestCheckRegisterRequiresName(t *testing.T) {
	errs := CheckRegister("  ", "ana@example.com", "secreta1")
	if errs.Name != "Ingresa tu nombre" {
		t.Errorf("name error = %q, want %q", errs.Name, "Ingresa tu nombre")
	}
	if errs.OK() {
		t.Error("blank name accepted")
	}

	errs = CheckRegister("Ana", "ana@example.com", "secreta1")
	if !errs.OK() {
		t.Errorf("valid form rejected: %+v", errs)
	}
}

func TestRegisterStoresAndLogsIn(t *testing.T) {
	svc := newTestService(t)

	errs, err := svc.Register("  Ana  ", " ana@example.com ", "secreta1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !errs.OK() {
		t.Fatalf("valid registration rejected: %+v", errs)
	}

	u, ok := svc.prefs.User()
	if !ok {
		t.Fatal("no user stored after registration")
	}
	if u.Name != "Ana" || u.Email != "ana@example.com" {
		t.Errorf("stored user = %+v, want trimmed fields", u)
	}
	if !svc.prefs.IsLoggedIn() {
		t.Error("registration did not log the user in")
	}
}

func TestRegisterInvalidDoesNotStore(t *testing.T) {
	svc := newTestService(t)

	errs, err := svc.Register("Ana", "ana@example.org", "secreta1")
	if err != nil {
		t.Fatalf("Register returned error for validation failure: %v", err)
	}
	if errs.OK() {
		t.Fatal("invalid email accepted")
	}
	if _, ok := svc.prefs.User(); ok {
		t.Error("invalid registration stored a user")
	}
}

func TestLoginFlow(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login("ana@example.com", "secreta1")
	if !errors.Is(err, ErrNoAccount) {
		t.Fatalf("login without account = %v, want ErrNoAccount", err)
	}

	if _, err := svc.Register("Ana", "ana@example.com", "secreta1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := svc.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if svc.prefs.IsLoggedIn() {
		t.Fatal("still logged in after logout")
	}

	_, err = svc.Login("ana@example.com", "otraclave1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password = %v, want ErrInvalidCredentials", err)
	}
	if svc.prefs.IsLoggedIn() {
		t.Fatal("failed login flipped the flag")
	}

	// Email comparison ignores case.
	errs, err := svc.Login("ANA@Example.Com", "secreta1")
	if err != nil || !errs.OK() {
		t.Fatalf("case-insensitive login failed: errs=%+v err=%v", errs, err)
	}
	if !svc.prefs.IsLoggedIn() {
		t.Error("successful login did not set the flag")
	}
}

func TestLogoutKeepsAccount(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register("Ana", "ana@example.com", "secreta1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := svc.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if _, ok := svc.prefs.User(); !ok {
		t.Error("logout removed the stored account")
	}
}
