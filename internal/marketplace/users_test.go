package marketplace

import (
	"testing"

	"github.com/AlvinAbiero/online-marketplace/models"
	"github.com/AlvinAbiero/online-marketplace/utils"
)

func TestRegister(t *testing.T) {
	svc, _, _ := newTestService(t)

	payload, err := svc.Register(RegisterInput{
		Email:     "new@example.com",
		Password:  "secret123",
		FirstName: "New",
		LastName:  "User",
		Role:      models.RoleSeller,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if payload.Token == "" {
		t.Error("expected a token in the auth payload")
	}
	if payload.User.Role != models.RoleSeller {
		t.Errorf("expected seller role, got %s", payload.User.Role)
	}
	if payload.User.Password == "secret123" {
		t.Error("password stored in plain text")
	}

	userID, err := utils.VerifyToken(payload.Token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if userID != payload.User.ID {
		t.Errorf("token binds user %d, want %d", userID, payload.User.ID)
	}
}

func TestRegister_DefaultsToBuyer(t *testing.T) {
	svc, _, _ := newTestService(t)

	payload, err := svc.Register(RegisterInput{
		Email:     "new@example.com",
		Password:  "secret123",
		FirstName: "New",
		LastName:  "User",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if payload.User.Role != models.RoleBuyer {
		t.Errorf("expected buyer role by default, got %s", payload.User.Role)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	createUser(t, svc, "taken@example.com", models.RoleBuyer)

	_, err := svc.Register(RegisterInput{
		Email:     "taken@example.com",
		Password:  "secret123",
		FirstName: "New",
		LastName:  "User",
	})
	mustCode(t, err, CodeValidation)
}

func TestRegister_InvalidInput(t *testing.T) {
	svc, _, _ := newTestService(t)

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"bad email", RegisterInput{Email: "not-an-email", Password: "secret123", FirstName: "Ab", LastName: "Cd"}},
		{"short password", RegisterInput{Email: "a@b.com", Password: "123", FirstName: "Ab", LastName: "Cd"}},
		{"short first name", RegisterInput{Email: "a@b.com", Password: "secret123", FirstName: "A", LastName: "Cd"}},
		{"admin role", RegisterInput{Email: "a@b.com", Password: "secret123", FirstName: "Ab", LastName: "Cd", Role: models.RoleAdmin}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(tc.input)
			mustCode(t, err, CodeValidation)
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Register(RegisterInput{
		Email:     "login@example.com",
		Password:  "secret123",
		FirstName: "Log",
		LastName:  "In",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	payload, err := svc.Login(LoginInput{Email: "login@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if payload.Token == "" {
		t.Error("expected a token")
	}

	_, err = svc.Login(LoginInput{Email: "login@example.com", Password: "wrong-pass"})
	mustCode(t, err, CodeValidation)

	_, err = svc.Login(LoginInput{Email: "nobody@example.com", Password: "secret123"})
	mustCode(t, err, CodeValidation)
}

func TestMe(t *testing.T) {
	svc, _, _ := newTestService(t)
	user := createUser(t, svc, "me@example.com", models.RoleBuyer)

	me, err := svc.Me(principalOf(user))
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Email != "me@example.com" {
		t.Errorf("unexpected user: %s", me.Email)
	}

	_, err = svc.Me(nil)
	mustCode(t, err, CodeUnauthenticated)
}
