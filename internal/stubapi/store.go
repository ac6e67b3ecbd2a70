package stubapi

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cetrics/nexdawn-storefront/internal/adminview"
	"github.com/cetrics/nexdawn-storefront/internal/budget"
	"github.com/cetrics/nexdawn-storefront/internal/catalog"
)

type account struct {
	ID       int
	Name     string
	Email    string
	Password string
	UserType string
	Username string
	Phone    string
	JoinedAt time.Time
}

// memStore holds the stub's seeded data. All access goes through the mutex.
type memStore struct {
	mu sync.Mutex

	accounts    []account
	products    []catalog.Product
	categories  []catalog.Category
	colors      []catalog.Color
	orders      []adminview.Order
	messages    []adminview.Message
	budgets     map[int][]budget.Entry
	resetTokens map[string]int

	nextAccountID int
	nextProductID int
	nextEntityID  int
	nextOrderSeq  int
}

func newMemStore(now time.Time) *memStore {
	s := &memStore{
		budgets:       map[int][]budget.Entry{},
		resetTokens:   map[string]int{},
		nextAccountID: 3,
		nextProductID: 5,
		nextEntityID:  10,
		nextOrderSeq:  3,
	}

	s.accounts = []account{
		{
			ID: 1, Name: "Ada Admin", Email: "admin@nexdawn.test",
			Password: "admin12345", UserType: "admin", Username: "ada",
			JoinedAt: now.AddDate(-1, 0, 0),
		},
		{
			ID: 2, Name: "Casey Customer", Email: "casey@nexdawn.test",
			Password: "customer123", UserType: "customer", Username: "casey",
			Phone: "555-0142", JoinedAt: now.AddDate(0, -3, 0),
		},
	}

	s.categories = []catalog.Category{
		{ID: 1, Name: "Apparel"},
		{ID: 2, Name: "Footwear"},
		{ID: 3, Name: "Accessories"},
	}
	s.colors = []catalog.Color{
		{ID: 1, Name: "Black", Hex: "#000000"},
		{ID: 2, Name: "Ivory", Hex: "#FFFFF0"},
	}
	s.products = []catalog.Product{
		{ID: 1, Name: "Linen Shirt", Description: "Relaxed fit linen shirt", Price: 120, Discount: 10, Colors: []string{"Ivory"}, StockQuantity: 14, CategoryName: "Apparel"},
		{ID: 2, Name: "Canvas Sneaker", Description: "Low-top canvas sneaker", Price: 85, Colors: []string{"Black"}, StockQuantity: 3, CategoryName: "Footwear"},
		{ID: 3, Name: "Wool Scarf", Description: "Heavyweight wool scarf", Price: 48, StockQuantity: 40, CategoryName: "Accessories"},
		{ID: 4, Name: "Denim Jacket", Description: "Washed denim jacket", Price: 160, Discount: 25, StockQuantity: 8, CategoryName: "Apparel"},
	}

	s.orders = []adminview.Order{
		{
			ID: 1, OrderNumber: "ORD-0001", UserEmail: "casey@nexdawn.test",
			FirstName: "Casey", LastName: "Customer",
			ItemsSummary: "Linen Shirt x1", Status: "pending", Total: 108,
			CreatedAt: now.Add(-48 * time.Hour),
		},
		{
			ID: 2, OrderNumber: "ORD-0002", UserEmail: "casey@nexdawn.test",
			FirstName: "Casey", LastName: "Customer",
			ItemsSummary: "Canvas Sneaker x2", Status: "shipped", Total: 170,
			CreatedAt: now.Add(-12 * time.Hour),
		},
	}

	s.budgets[2] = []budget.Entry{
		{ID: 1, Item: "Wardrobe refresh", Category: "clothing", Amount: 300, Spent: 278, Month: now.Format("2006-01")},
		{ID: 2, Item: "Running gear", Category: "fitness", Amount: 150, Spent: 180, Month: now.Format("2006-01")},
	}

	return s
}

func (s *memStore) findAccountByEmail(email string) (account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if strings.EqualFold(acct.Email, email) {
			return acct, true
		}
	}
	return account{}, false
}

func (s *memStore) findAccountByID(id int) (account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if acct.ID == id {
			return acct, true
		}
	}
	return account{}, false
}

func (s *memStore) addAccount(acct account) (account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Email, acct.Email) {
			return account{}, false
		}
	}
	acct.ID = s.nextAccountID
	acct.UserType = "customer"
	if acct.Username == "" {
		acct.Username = strings.SplitN(acct.Email, "@", 2)[0]
	}
	acct.JoinedAt = time.Now().UTC()
	s.nextAccountID++
	s.accounts = append(s.accounts, acct)
	return acct, true
}

// issueResetToken mints a one-shot token mapped to the account id.
func (s *memStore) issueResetToken(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if strings.EqualFold(acct.Email, email) {
			token := uuid.NewString()
			s.resetTokens[token] = acct.ID
			return token, true
		}
	}
	return "", false
}

func (s *memStore) consumeResetToken(token string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.resetTokens[token]
	if ok {
		delete(s.resetTokens, token)
	}
	return id, ok
}

func (s *memStore) setPasswordByID(id int, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			s.accounts[i].Password = password
			return true
		}
	}
	return false
}

func (s *memStore) listProducts(search string) []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(search) == "" {
		return append([]catalog.Product(nil), s.products...)
	}
	var matched []catalog.Product
	for _, p := range s.products {
		if p.MatchesQuery(search) {
			matched = append(matched, p)
		}
	}
	return matched
}

func (s *memStore) addProduct(p catalog.Product) catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextProductID
	s.nextProductID++
	s.products = append(s.products, p)
	return p
}

func (s *memStore) updateProduct(id int, p catalog.Product) (catalog.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			p.ID = id
			s.products[i] = p
			return p, true
		}
	}
	return catalog.Product{}, false
}

func (s *memStore) deleteProduct(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return true
		}
	}
	return false
}

func (s *memStore) findProduct(id int) (catalog.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}

func (s *memStore) listCategories() []catalog.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]catalog.Category(nil), s.categories...)
}

func (s *memStore) addCategory(name string) catalog.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := catalog.Category{ID: s.nextEntityID, Name: name}
	s.nextEntityID++
	s.categories = append(s.categories, c)
	return c
}

func (s *memStore) listColors() []catalog.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]catalog.Color(nil), s.colors...)
}

func (s *memStore) addColor(name string) catalog.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := catalog.Color{ID: s.nextEntityID, Name: name}
	s.nextEntityID++
	s.colors = append(s.colors, c)
	return c
}

func (s *memStore) listOrders() []adminview.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]adminview.Order(nil), s.orders...)
}

func (s *memStore) listOrdersForEmail(email string) []adminview.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var owned []adminview.Order
	for _, o := range s.orders {
		if strings.EqualFold(o.UserEmail, email) {
			owned = append(owned, o)
		}
	}
	return owned
}

func (s *memStore) addOrder(order adminview.Order) adminview.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = s.nextEntityID
	s.nextEntityID++
	order.OrderNumber = fmt.Sprintf("ORD-%04d", s.nextOrderSeq)
	s.nextOrderSeq++
	s.orders = append(s.orders, order)
	return order
}

func (s *memStore) setOrderStatus(orderNumber, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].OrderNumber == orderNumber {
			s.orders[i].Status = status
			return true
		}
	}
	return false
}

func (s *memStore) listCustomers() []adminview.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[string]int{}
	for _, o := range s.orders {
		counts[strings.ToLower(o.UserEmail)]++
	}
	var customers []adminview.Customer
	for _, acct := range s.accounts {
		if acct.UserType == "admin" {
			continue
		}
		customers = append(customers, adminview.Customer{
			ID:         acct.ID,
			FirstName:  firstName(acct.Name),
			LastName:   lastName(acct.Name),
			Email:      acct.Email,
			Username:   acct.Username,
			Phone:      acct.Phone,
			OrderCount: counts[strings.ToLower(acct.Email)],
			CreatedAt:  acct.JoinedAt,
		})
	}
	return customers
}

func (s *memStore) addMessage(m adminview.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
}

func (s *memStore) listMessages() []adminview.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]adminview.Message(nil), s.messages...)
}

func (s *memStore) listBudgets(userID int) []budget.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]budget.Entry(nil), s.budgets[userID]...)
}

func (s *memStore) addBudget(userID int, entry budget.Entry) budget.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = s.nextEntityID
	s.nextEntityID++
	s.budgets[userID] = append(s.budgets[userID], entry)
	return entry
}

func firstName(full string) string {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func lastName(full string) string {
	parts := strings.Fields(full)
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[1:], " ")
}
