package stubapi

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cetrics/nexdawn-storefront/internal/api"
	"github.com/cetrics/nexdawn-storefront/internal/notifications"
	"github.com/cetrics/nexdawn-storefront/internal/session"
	"github.com/cetrics/nexdawn-storefront/pkg/config"
	pkgerrors "github.com/cetrics/nexdawn-storefront/pkg/errors"
	"github.com/cetrics/nexdawn-storefront/pkg/forms"
	"github.com/cetrics/nexdawn-storefront/pkg/logger"
	"github.com/cetrics/nexdawn-storefront/pkg/storage"
)

func loginForm(email, password string) forms.Login {
	return forms.Login{Email: email, Password: password}
}

func stubConfig() config.StubConfig {
	return config.StubConfig{
		Port:              "0",
		JWTSecret:         "test-secret",
		JWTIssuer:         "nexdawn-stub",
		ExpirationMinutes: 60,
	}
}

func newStack(t *testing.T) (*api.Client, *session.Guard, *storage.Memory) {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "stubapi-test"})

	server, err := NewServer(ServerParams{Config: stubConfig(), Logger: logg})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	store := storage.NewMemory()
	guard, err := session.NewGuard(context.Background(), session.GuardParams{Store: store})
	if err != nil {
		t.Fatalf("NewGuard: %v", err)
	}
	client, err := api.NewClient(api.ClientParams{BaseURL: ts.URL, Guard: guard, Logger: logg})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, guard, store
}

func login(t *testing.T, client *api.Client, guard *session.Guard, email, password string) {
	t.Helper()
	result, err := client.Login(context.Background(), loginForm(email, password))
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := guard.SetSession(context.Background(), result.Token, result.User); err != nil {
		t.Fatalf("SetSession: %v", err)
	}
}

func TestLoginAndUserInfoRoundTrip(t *testing.T) {
	client, guard, _ := newStack(t)
	login(t, client, guard, "casey@nexdawn.test", "customer123")

	user, err := client.UserInfo(context.Background())
	if err != nil {
		t.Fatalf("UserInfo: %v", err)
	}
	if user.Email != "casey@nexdawn.test" || user.UserType != "customer" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !guard.IsAuthenticated() {
		t.Fatal("expected authenticated guard")
	}
}

func TestBadCredentialsRejected(t *testing.T) {
	client, _, _ := newStack(t)
	_, err := client.Login(context.Background(), loginForm("casey@nexdawn.test", "wrong-password"))
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestProductSearchFiltersServerSide(t *testing.T) {
	client, _, _ := newStack(t)

	all, err := client.Products(context.Background(), "")
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 seeded products, got %d", len(all))
	}

	shirts, err := client.Products(context.Background(), "shirt")
	if err != nil {
		t.Fatalf("Products search: %v", err)
	}
	if len(shirts) != 1 || shirts[0].Name != "Linen Shirt" {
		t.Fatalf("unexpected search results: %+v", shirts)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	client, guard, _ := newStack(t)
	login(t, client, guard, "casey@nexdawn.test", "customer123")

	if _, err := client.Orders(context.Background()); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden for customer, got %v", err)
	}

	login(t, client, guard, "admin@nexdawn.test", "admin12345")
	orders, err := client.Orders(context.Background())
	if err != nil {
		t.Fatalf("Orders as admin: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 seeded orders, got %d", len(orders))
	}
}

func TestOrderLifecycle(t *testing.T) {
	client, guard, _ := newStack(t)
	login(t, client, guard, "casey@nexdawn.test", "customer123")

	receipt, err := client.CreateOrder(context.Background(), api.OrderInput{
		Items:           []api.OrderItemInput{{ProductID: 1, Quantity: 2}},
		ShippingAddress: "12 Dawn St",
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	// Linen Shirt is 120 with a 10% discount.
	if receipt.Total != 216 {
		t.Fatalf("expected discounted total 216, got %v", receipt.Total)
	}
	if receipt.Status != "pending" {
		t.Fatalf("expected pending order, got %q", receipt.Status)
	}

	login(t, client, guard, "admin@nexdawn.test", "admin12345")
	if err := client.UpdateOrderStatus(context.Background(), receipt.OrderNumber, "shipped"); err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
	orders, err := client.Orders(context.Background())
	if err != nil {
		t.Fatalf("Orders: %v", err)
	}
	found := false
	for _, o := range orders {
		if o.OrderNumber == receipt.OrderNumber {
			found = true
			if o.Status != "shipped" {
				t.Fatalf("expected shipped, got %q", o.Status)
			}
		}
	}
	if !found {
		t.Fatalf("order %s missing from admin listing", receipt.OrderNumber)
	}
}

func TestExpiredTokenTearsDownSession(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "stubapi-test"})
	past := time.Now().Add(-2 * time.Hour)
	server, err := NewServer(ServerParams{
		Config: stubConfig(),
		Logger: logg,
		Now:    func() time.Time { return past },
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	store := storage.NewMemory()
	expired := 0
	guard, err := session.NewGuard(context.Background(), session.GuardParams{
		Store:     store,
		OnExpired: func() { expired++ },
	})
	if err != nil {
		t.Fatalf("NewGuard: %v", err)
	}
	client, err := api.NewClient(api.ClientParams{BaseURL: ts.URL, Guard: guard, Logger: logg})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	// The frozen clock issues a token that is already past expiry.
	result, err := client.Login(context.Background(), loginForm("casey@nexdawn.test", "customer123"))
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := guard.SetSession(context.Background(), result.Token, result.User); err != nil {
		t.Fatalf("SetSession: %v", err)
	}

	if _, err := client.UserInfo(context.Background()); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if expired != 1 {
		t.Fatalf("expected one expiry callback, got %d", expired)
	}
	if guard.Token() != "" {
		t.Fatal("expected token cleared after teardown")
	}
}

func TestRegisterKeepsProfileFields(t *testing.T) {
	client, guard, _ := newStack(t)

	err := client.Register(context.Background(), forms.Registration{
		Username:        "newbie",
		Email:           "newbie@nexdawn.test",
		FirstName:       "Nadia",
		LastName:        "Novak",
		Phone:           "555-0199",
		Password:        "letmein9",
		ConfirmPassword: "letmein9",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	login(t, client, guard, "newbie@nexdawn.test", "letmein9")
	user, err := client.UserInfo(context.Background())
	if err != nil {
		t.Fatalf("UserInfo: %v", err)
	}
	if user.Name != "Nadia Novak" {
		t.Fatalf("expected profile name from registration, got %q", user.Name)
	}

	login(t, client, guard, "admin@nexdawn.test", "admin12345")
	customers, err := client.Customers(context.Background())
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	found := false
	for _, c := range customers {
		if c.Email == "newbie@nexdawn.test" {
			found = true
			if c.Username != "newbie" || c.Phone != "555-0199" {
				t.Fatalf("registration fields dropped: %+v", c)
			}
			if c.FirstName != "Nadia" || c.LastName != "Novak" {
				t.Fatalf("unexpected customer name: %+v", c)
			}
		}
	}
	if !found {
		t.Fatal("registered account missing from customer listing")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	client, guard, _ := newStack(t)
	ctx := context.Background()

	token, err := client.ForgotPassword(ctx, forms.ForgotPassword{Email: "casey@nexdawn.test"})
	if err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if token == "" {
		t.Fatal("expected a reset token from the stub")
	}

	err = client.ResetPassword(ctx, forms.ResetPassword{
		Token:           token,
		Password:        "fresh-secret-1",
		ConfirmPassword: "fresh-secret-1",
	})
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	// Old password no longer works, new one does.
	if _, err := client.Login(ctx, loginForm("casey@nexdawn.test", "customer123")); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected old password rejected, got %v", err)
	}
	login(t, client, guard, "casey@nexdawn.test", "fresh-secret-1")

	// Tokens are one-shot.
	err = client.ResetPassword(ctx, forms.ResetPassword{
		Token:           token,
		Password:        "another-secret-2",
		ConfirmPassword: "another-secret-2",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected spent token rejected, got %v", err)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	client, _, _ := newStack(t)

	_, err := client.ForgotPassword(context.Background(), forms.ForgotPassword{Email: "ghost@nexdawn.test"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBudgetFeedFromStub(t *testing.T) {
	client, guard, store := newStack(t)
	login(t, client, guard, "casey@nexdawn.test", "customer123")

	ledger, err := notifications.NewLedger(context.Background(), notifications.LedgerParams{Storage: store})
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	feed, err := notifications.NewFeed(notifications.FeedParams{
		Ledger:   ledger,
		Budgets:  client,
		Products: client,
	})
	if err != nil {
		t.Fatalf("NewFeed: %v", err)
	}

	added, err := feed.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	// One budget overrun (running gear) and one low-stock product (sneaker).
	if added != 2 {
		t.Fatalf("expected 2 notifications, got %d", added)
	}
}
