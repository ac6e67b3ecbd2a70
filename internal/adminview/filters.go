// Package adminview derives the admin console's filtered list views. All
// helpers are pure: they re-derive from the base slice on every call and
// never mutate their inputs.
package adminview

import (
	"sort"
	"strings"
	"time"
)

// StatusAll is the pass-through sentinel for status and date filters.
const StatusAll = "all"

// Order mirrors one row of /api/admin/orders.
type Order struct {
	ID           int       `json:"id"`
	OrderNumber  string    `json:"order_number"`
	UserEmail    string    `json:"user_email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	ItemsSummary string    `json:"items_summary"`
	Status       string    `json:"status"`
	Total        float64   `json:"total"`
	CreatedAt    time.Time `json:"created_at"`
}

// Customer mirrors one row of /api/admin/customers.
type Customer struct {
	ID         int       `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Phone      string    `json:"phone"`
	OrderCount int       `json:"order_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Message mirrors one row of /api/admin/contact-messages.
type Message struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderFilter bundles the order view's knobs. Zero values pass everything.
type OrderFilter struct {
	Query  string
	Status string
	// Since is the inclusive lower bound on CreatedAt; zero passes all.
	Since time.Time
}

// FilterOrders applies status, search, and date filters, then sorts the
// survivors descending by creation time.
func FilterOrders(orders []Order, filter OrderFilter) []Order {
	filtered := make([]Order, 0, len(orders))
	for _, order := range orders {
		if !statusMatches(order.Status, filter.Status) {
			continue
		}
		if !orderMatchesQuery(order, filter.Query) {
			continue
		}
		if !filter.Since.IsZero() && order.CreatedAt.Before(filter.Since) {
			continue
		}
		filtered = append(filtered, order)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return filtered
}

// OrderStats counts orders per lowercased status, plus a "total" entry.
func OrderStats(orders []Order) map[string]int {
	stats := map[string]int{"total": len(orders)}
	for _, order := range orders {
		stats[strings.ToLower(order.Status)]++
	}
	return stats
}

// FilterCustomers searches email, username, names, and phone.
func FilterCustomers(customers []Customer, query string) []Customer {
	if strings.TrimSpace(query) == "" {
		return customers
	}
	q := strings.ToLower(query)
	filtered := make([]Customer, 0, len(customers))
	for _, customer := range customers {
		if containsFold(customer.Email, q) ||
			containsFold(customer.Username, q) ||
			containsFold(customer.FirstName, q) ||
			containsFold(customer.LastName, q) ||
			strings.Contains(customer.Phone, query) {
			filtered = append(filtered, customer)
		}
	}
	return filtered
}

// FilterMessages searches sender name, email, and message body.
func FilterMessages(messages []Message, query string) []Message {
	if strings.TrimSpace(query) == "" {
		return messages
	}
	q := strings.ToLower(query)
	filtered := make([]Message, 0, len(messages))
	for _, message := range messages {
		if containsFold(message.Name, q) ||
			containsFold(message.Email, q) ||
			containsFold(message.Message, q) {
			filtered = append(filtered, message)
		}
	}
	return filtered
}

func statusMatches(status, wanted string) bool {
	if wanted == "" || strings.EqualFold(wanted, StatusAll) {
		return true
	}
	return strings.EqualFold(status, wanted)
}

func orderMatchesQuery(order Order, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	q := strings.ToLower(query)
	return containsFold(order.OrderNumber, q) ||
		containsFold(order.UserEmail, q) ||
		containsFold(order.ItemsSummary, q) ||
		containsFold(order.FirstName, q) ||
		containsFold(order.LastName, q)
}

// containsFold expects q already lowercased.
func containsFold(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}
