package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/cetrics/nexdawn-storefront/internal/adminview"
	"github.com/cetrics/nexdawn-storefront/internal/budget"
	"github.com/cetrics/nexdawn-storefront/internal/catalog"
	"github.com/cetrics/nexdawn-storefront/internal/session"
	pkgerrors "github.com/cetrics/nexdawn-storefront/pkg/errors"
	"github.com/cetrics/nexdawn-storefront/pkg/forms"
)

// LoginResult is the payload returned by a successful login.
type LoginResult struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

// Login exchanges credentials for a token and the user profile.
func (c *Client) Login(ctx context.Context, form forms.Login) (LoginResult, error) {
	if err := forms.Check(form); err != nil {
		return LoginResult{}, err
	}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/login", nil, form, &result); err != nil {
		return LoginResult{}, err
	}
	if result.Token == "" {
		return LoginResult{}, pkgerrors.New(pkgerrors.CodeDependency, "login response missing token")
	}
	return result, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, form forms.Registration) error {
	if err := forms.Check(form); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/api/register", nil, form, nil)
}

// ForgotPassword requests a password reset for the given email. The token
// normally travels by email; servers without a mailer return it in the
// response, in which case it is passed through here.
func (c *Client) ForgotPassword(ctx context.Context, form forms.ForgotPassword) (string, error) {
	if err := forms.Check(form); err != nil {
		return "", err
	}
	var result struct {
		ResetToken string `json:"reset_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/forgot-password", nil, form, &result); err != nil {
		return "", err
	}
	return result.ResetToken, nil
}

// ResetPassword completes a password reset with the emailed token.
func (c *Client) ResetPassword(ctx context.Context, form forms.ResetPassword) error {
	if err := forms.Check(form); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/api/reset-password", nil, form, nil)
}

// UserInfo fetches the profile for the current token.
func (c *Client) UserInfo(ctx context.Context) (session.User, error) {
	var user session.User
	if err := c.do(ctx, http.MethodGet, "/api/user-info", nil, nil, &user); err != nil {
		return session.User{}, err
	}
	return user, nil
}

// Products lists products, optionally filtered server-side by a search term.
func (c *Client) Products(ctx context.Context, search string) ([]catalog.Product, error) {
	query := url.Values{}
	if term := strings.TrimSpace(search); term != "" {
		query.Set("search", term)
	}
	var products []catalog.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", query, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductInput is the body for product create and update calls.
type ProductInput struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Discount      float64  `json:"discount"`
	Images        []string `json:"images"`
	Colors        []string `json:"colors"`
	StockQuantity int      `json:"stock_quantity"`
	CategoryName  string   `json:"category_name"`
}

// CreateProduct adds a product. Admin only.
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (catalog.Product, error) {
	var product catalog.Product
	if err := c.do(ctx, http.MethodPost, "/api/products", nil, input, &product); err != nil {
		return catalog.Product{}, err
	}
	return product, nil
}

// UpdateProduct replaces a product's fields. Admin only.
func (c *Client) UpdateProduct(ctx context.Context, id int, input ProductInput) (catalog.Product, error) {
	var product catalog.Product
	if err := c.do(ctx, http.MethodPut, idPath("/api/products", id), nil, input, &product); err != nil {
		return catalog.Product{}, err
	}
	return product, nil
}

// DeleteProduct removes a product. Admin only.
func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/products", id), nil, nil, nil)
}

// Categories lists the product categories.
func (c *Client) Categories(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory adds a category. Admin only.
func (c *Client) CreateCategory(ctx context.Context, name string) (catalog.Category, error) {
	if strings.TrimSpace(name) == "" {
		return catalog.Category{}, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	var category catalog.Category
	body := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/api/categories", nil, body, &category); err != nil {
		return catalog.Category{}, err
	}
	return category, nil
}

// Colors lists the available colors.
func (c *Client) Colors(ctx context.Context) ([]catalog.Color, error) {
	var colors []catalog.Color
	if err := c.do(ctx, http.MethodGet, "/api/colors", nil, nil, &colors); err != nil {
		return nil, err
	}
	return colors, nil
}

// CreateColor adds a color. Admin only.
func (c *Client) CreateColor(ctx context.Context, name string) (catalog.Color, error) {
	if strings.TrimSpace(name) == "" {
		return catalog.Color{}, pkgerrors.New(pkgerrors.CodeValidation, "color name is required")
	}
	var color catalog.Color
	body := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/api/colors", nil, body, &color); err != nil {
		return catalog.Color{}, err
	}
	return color, nil
}

// OrderItemInput is one line of a checkout request.
type OrderItemInput struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// OrderInput is the body for placing an order.
type OrderInput struct {
	Items           []OrderItemInput `json:"items"`
	ShippingAddress string           `json:"shipping_address"`
}

// OrderReceipt is the acknowledgement for a placed order.
type OrderReceipt struct {
	OrderNumber string  `json:"order_number"`
	Total       float64 `json:"total"`
	Status      string  `json:"status"`
}

// CreateOrder places an order for the current user.
func (c *Client) CreateOrder(ctx context.Context, input OrderInput) (OrderReceipt, error) {
	if len(input.Items) == 0 {
		return OrderReceipt{}, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	var receipt OrderReceipt
	if err := c.do(ctx, http.MethodPost, "/api/orders", nil, input, &receipt); err != nil {
		return OrderReceipt{}, err
	}
	return receipt, nil
}

// Orders lists every order. Admin only.
func (c *Client) Orders(ctx context.Context) ([]adminview.Order, error) {
	var orders []adminview.Order
	if err := c.do(ctx, http.MethodGet, "/api/admin/orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UserOrders lists the current user's own orders.
func (c *Client) UserOrders(ctx context.Context) ([]adminview.Order, error) {
	var orders []adminview.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to a new status. Admin only.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderNumber, status string) error {
	if strings.TrimSpace(orderNumber) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	body := map[string]string{"status": status}
	path := "/api/admin/orders/" + url.PathEscape(orderNumber) + "/status"
	return c.do(ctx, http.MethodPut, path, nil, body, nil)
}

// Customers lists registered customers. Admin only.
func (c *Client) Customers(ctx context.Context) ([]adminview.Customer, error) {
	var customers []adminview.Customer
	if err := c.do(ctx, http.MethodGet, "/api/admin/customers", nil, nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// ContactMessages lists submitted contact messages. Admin only.
func (c *Client) ContactMessages(ctx context.Context) ([]adminview.Message, error) {
	var messages []adminview.Message
	if err := c.do(ctx, http.MethodGet, "/api/admin/contact-messages", nil, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendContactMessage submits a contact form.
func (c *Client) SendContactMessage(ctx context.Context, form forms.Contact) error {
	if err := forms.Check(form); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/api/contact", nil, form, nil)
}

// Budgets lists the current user's budget entries.
func (c *Client) Budgets(ctx context.Context) ([]budget.Entry, error) {
	var entries []budget.Entry
	if err := c.do(ctx, http.MethodGet, "/api/budgets", nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// BudgetInput is the body for creating or updating a budget entry.
type BudgetInput struct {
	Item     string  `json:"item"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Spent    float64 `json:"spent"`
	Month    string  `json:"month,omitempty"`
}

// CreateBudget adds a budget entry for the current user.
func (c *Client) CreateBudget(ctx context.Context, input BudgetInput) (budget.Entry, error) {
	if strings.TrimSpace(input.Item) == "" {
		return budget.Entry{}, pkgerrors.New(pkgerrors.CodeValidation, "budget item is required")
	}
	var entry budget.Entry
	if err := c.do(ctx, http.MethodPost, "/api/budgets", nil, input, &entry); err != nil {
		return budget.Entry{}, err
	}
	return entry, nil
}
