package marketplace

import (
	"context"
	"testing"

	"github.com/AlvinAbiero/online-marketplace/internal/fanout"
	"github.com/AlvinAbiero/online-marketplace/internal/payment"
	"github.com/AlvinAbiero/online-marketplace/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeGateway is a hand-rolled payment.Gateway for tests.
type fakeGateway struct {
	createErr  error
	executeErr error

	creates  int
	executes int
}

func (g *fakeGateway) Create(ctx context.Context, req payment.CreateRequest) (*payment.Approval, error) {
	g.creates++
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &payment.Approval{
		PaymentID:   "PAY-TEST-1",
		ApprovalURL: "https://gateway.example/approve/PAY-TEST-1",
	}, nil
}

func (g *fakeGateway) Execute(ctx context.Context, paymentID, payerID string) error {
	g.executes++
	return g.executeErr
}

func newTestService(t *testing.T) (*Service, *fakeGateway, *fanout.Fanout) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	// The in-memory database is per-connection; keep the pool at one.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.Message{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	gateway := &fakeGateway{}
	bus := fanout.New()
	svc := NewService(db, gateway, bus, "http://localhost:3000")

	return svc, gateway, bus
}

func createUser(t *testing.T, svc *Service, email, role string) *models.User {
	t.Helper()

	user := models.User{
		Email:     email,
		Password:  "not-a-real-hash",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	}
	if err := svc.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return &user
}

func principalOf(user *models.User) *Principal {
	return &Principal{UserID: user.ID, Role: user.Role}
}

func createProduct(t *testing.T, svc *Service, seller *models.User, price float64, stock int) *models.Product {
	t.Helper()

	product, err := svc.CreateProduct(principalOf(seller), ProductInput{
		Title:       "Mechanical Keyboard",
		Description: "Tenkeyless board with brown switches",
		Price:       price,
		Category:    "electronics",
		Stock:       stock,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCode(t *testing.T, err error, code string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if got := CodeOf(err); got != code {
		t.Fatalf("expected error code %s, got %s (%v)", code, got, err)
	}
}
