package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/cetrics/nexdawn-storefront/internal/adminview"
	"github.com/cetrics/nexdawn-storefront/internal/budget"
	"github.com/cetrics/nexdawn-storefront/internal/catalog"
	pkgerrors "github.com/cetrics/nexdawn-storefront/pkg/errors"
)

// DefaultLowStockThreshold matches the dashboard's low-stock tile.
const DefaultLowStockThreshold = 5

// BudgetSource supplies budget rows for overrun alerts.
type BudgetSource interface {
	Budgets(ctx context.Context) ([]budget.Entry, error)
}

// ProductSource supplies the catalog for low-stock alerts.
type ProductSource interface {
	Products(ctx context.Context, search string) ([]catalog.Product, error)
}

// OrderSource supplies orders for pending-order alerts.
type OrderSource interface {
	Orders(ctx context.Context) ([]adminview.Order, error)
}

// FeedParams groups dependencies for the notification feed.
type FeedParams struct {
	Ledger            *Ledger
	Budgets           BudgetSource
	Products          ProductSource
	Orders            OrderSource
	LowStockThreshold int
}

// Feed derives notifications from server data and pushes them through the
// ledger, whose dismissed set keeps acknowledged alerts from resurfacing.
type Feed struct {
	ledger    *Ledger
	budgets   BudgetSource
	products  ProductSource
	orders    OrderSource
	threshold int
}

// NewFeed wires the feed. Every source is optional; a nil source skips its
// alert family.
func NewFeed(params FeedParams) (*Feed, error) {
	if params.Ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ledger is required")
	}
	threshold := params.LowStockThreshold
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return &Feed{
		ledger:    params.Ledger,
		budgets:   params.Budgets,
		products:  params.Products,
		orders:    params.Orders,
		threshold: threshold,
	}, nil
}

// Refresh polls the sources and adds any fresh alerts. Returns how many
// notifications were newly surfaced.
func (f *Feed) Refresh(ctx context.Context) (int, error) {
	added := 0

	if f.budgets != nil {
		entries, err := f.budgets.Budgets(ctx)
		if err != nil {
			return added, err
		}
		for _, entry := range entries {
			if !entry.Overrun() {
				continue
			}
			if f.ledger.Add(budgetOverrunNotification(entry)) {
				added++
			}
		}
	}

	if f.orders != nil {
		orders, err := f.orders.Orders(ctx)
		if err != nil {
			return added, err
		}
		for _, order := range orders {
			if !strings.EqualFold(order.Status, "pending") {
				continue
			}
			if f.ledger.Add(pendingOrderNotification(order)) {
				added++
			}
		}
	}

	if f.products != nil {
		products, err := f.products.Products(ctx, "")
		if err != nil {
			return added, err
		}
		for _, product := range products {
			if product.StockQuantity >= f.threshold {
				continue
			}
			if f.ledger.Add(lowStockNotification(product)) {
				added++
			}
		}
	}

	return added, nil
}

func budgetOverrunNotification(entry budget.Entry) Notification {
	return Notification{
		ID:      fmt.Sprintf("budget-%d", entry.ID),
		Type:    "budget_overrun",
		Title:   entry.Item,
		Message: fmt.Sprintf("%s exceeded its budget by %.2f", entry.Item, entry.OverrunBy()),
	}
}

func pendingOrderNotification(order adminview.Order) Notification {
	return Notification{
		ID:      fmt.Sprintf("order-%s", order.OrderNumber),
		Type:    "pending_order",
		Title:   fmt.Sprintf("Order %s", order.OrderNumber),
		Message: fmt.Sprintf("Order %s from %s is awaiting processing", order.OrderNumber, order.UserEmail),
	}
}

func lowStockNotification(product catalog.Product) Notification {
	return Notification{
		ID:      fmt.Sprintf("low-stock-%d", product.ID),
		Type:    "low_stock",
		Title:   product.Name,
		Message: fmt.Sprintf("%s is low on stock (%d left)", product.Name, product.StockQuantity),
	}
}
