package stubapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cetrics/nexdawn-storefront/internal/adminview"
	"github.com/cetrics/nexdawn-storefront/internal/budget"
	"github.com/cetrics/nexdawn-storefront/internal/catalog"
	"github.com/cetrics/nexdawn-storefront/internal/session"
	pkgerrors "github.com/cetrics/nexdawn-storefront/pkg/errors"
)

func (s *Server) decode(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
	}
	return nil
}

func userPayload(acct account) session.User {
	return session.User{
		ID:       acct.ID,
		Name:     acct.Name,
		Email:    acct.Email,
		UserType: acct.UserType,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := s.decode(r, &body); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	acct, ok := s.store.findAccountByEmail(body.Email)
	if !ok || acct.Password != body.Password {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials"))
		return
	}
	token, err := issueToken(s.cfg, acct, s.now().UTC())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"token": token,
		"user":  userPayload(acct),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
		Password  string `json:"password"`
	}
	if err := s.decode(r, &body); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if strings.TrimSpace(body.Email) == "" || len(body.Password) < 6 {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required"))
		return
	}
	acct, ok := s.store.addAccount(account{
		Name:     strings.TrimSpace(body.FirstName + " " + body.LastName),
		Email:    body.Email,
		Password: body.Password,
		Username: body.Username,
		Phone:    body.Phone,
	})
	if !ok {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeConflict, "email already registered"))
		return
	}
	s.writeJSON(r.Context(), w, http.StatusCreated, userPayload(acct))
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := s.decode(r, &body); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	token, ok := s.store.issueResetToken(body.Email)
	if !ok {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeNotFound, "no account found for this email"))
		return
	}
	// There is no mailer here, so the token rides in the response.
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"message":     "password reset link sent",
		"reset_token": token,
	})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := s.decode(r, &body); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if body.Token == "" || len(body.Password) < 6 {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeValidation, "token and new password are required"))
		return
	}
	userID, ok := s.store.consumeResetToken(body.Token)
	if !ok {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeValidation, "invalid or expired token"))
		return
	}
	if !s.store.setPasswordByID(userID, body.Password) {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeNotFound, "account not found"))
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "password reset successful"})
}

func (s *Server) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	acct, _ := accountFrom(r.Context())
	s.writeJSON(r.Context(), w, http.StatusOK, userPayload(acct))
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products := s.store.listProducts(r.URL.Query().Get("search"))
	if products == nil {
		products = []catalog.Product{}
	}
	s.writeJSON(r.Context(), w, http.StatusOK, products)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var body catalog.Product
	if err := s.decode(r, &body); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if strings.TrimSpace(body.Name) == "" || body.Price <= 0 {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeValidation, "name and a positive price are required"))
		return
	}
	s.writeJSON(r.Context(), w, http.StatusCreated, s.store.addProduct(body))
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
		return
	}
	var body catalog.Product
	if err := s.decode(r, &body); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	updated, ok := s.store.updateProduct(id, body)
	if !ok {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
		return
	}
	if !s.store.deleteProduct(id) {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(r.Context(), w, http.StatusOK, s.store.listCategories())
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := s.decode(r, &body); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeValidation, "name is required"))
		return
	}
	s.writeJSON(r.Context(), w, http.StatusCreated, s.store.addCategory(body.Name))
}

func (s *Server) handleListColors(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(r.Context(), w, http.StatusOK, s.store.listColors())
}

func (s *Server) handleCreateColor(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := s.decode(r, &body); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeValidation, "name is required"))
		return
	}
	s.writeJSON(r.Context(), w, http.StatusCreated, s.store.addColor(body.Name))
}

func (s *Server) handleUserOrders(w http.ResponseWriter, r *http.Request) {
	acct, _ := accountFrom(r.Context())
	orders := s.store.listOrdersForEmail(acct.Email)
	if orders == nil {
		orders = []adminview.Order{}
	}
	s.writeJSON(r.Context(), w, http.StatusOK, orders)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	acct, _ := accountFrom(r.Context())
	var body struct {
		Items []struct {
			ProductID int `json:"product_id"`
			Quantity  int `json:"quantity"`
		} `json:"items"`
		ShippingAddress string `json:"shipping_address"`
	}
	if err := s.decode(r, &body); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if len(body.Items) == 0 {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item"))
		return
	}

	var total float64
	var summary []string
	for _, item := range body.Items {
		product, ok := s.store.findProduct(item.ProductID)
		if !ok {
			s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		total += product.EffectivePrice() * float64(qty)
		summary = append(summary, fmt.Sprintf("%s x%d", product.Name, qty))
	}

	order := s.store.addOrder(adminview.Order{
		UserEmail:    acct.Email,
		FirstName:    firstName(acct.Name),
		LastName:     lastName(acct.Name),
		ItemsSummary: strings.Join(summary, ", "),
		Status:       "pending",
		Total:        total,
		CreatedAt:    s.now().UTC(),
	})
	s.writeJSON(r.Context(), w, http.StatusCreated, map[string]any{
		"order_number": order.OrderNumber,
		"total":        order.Total,
		"status":       order.Status,
	})
}

func (s *Server) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(r.Context(), w, http.StatusOK, s.store.listOrders())
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")
	var body struct {
		Status string `json:"status"`
	}
	if err := s.decode(r, &body); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if strings.TrimSpace(body.Status) == "" {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeValidation, "status is required"))
		return
	}
	if !s.store.setOrderStatus(orderNumber, body.Status) {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "updated"})
}

func (s *Server) handleAdminCustomers(w http.ResponseWriter, r *http.Request) {
	customers := s.store.listCustomers()
	if customers == nil {
		customers = []adminview.Customer{}
	}
	s.writeJSON(r.Context(), w, http.StatusOK, customers)
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var body adminview.Message
	if err := s.decode(r, &body); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if strings.TrimSpace(body.Email) == "" || len(strings.TrimSpace(body.Message)) < 10 {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeValidation, "email and a message of at least 10 characters are required"))
		return
	}
	body.CreatedAt = s.now().UTC()
	s.store.addMessage(body)
	s.writeJSON(r.Context(), w, http.StatusCreated, map[string]string{"message": "received"})
}

func (s *Server) handleAdminMessages(w http.ResponseWriter, r *http.Request) {
	messages := s.store.listMessages()
	if messages == nil {
		messages = []adminview.Message{}
	}
	s.writeJSON(r.Context(), w, http.StatusOK, messages)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	acct, _ := accountFrom(r.Context())
	entries := s.store.listBudgets(acct.ID)
	if entries == nil {
		entries = []budget.Entry{}
	}
	s.writeJSON(r.Context(), w, http.StatusOK, entries)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	acct, _ := accountFrom(r.Context())
	var body budget.Entry
	if err := s.decode(r, &body); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if strings.TrimSpace(body.Item) == "" || body.Amount <= 0 {
		s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeValidation, "item and a positive amount are required"))
		return
	}
	s.writeJSON(r.Context(), w, http.StatusCreated, s.store.addBudget(acct.ID, body))
}
