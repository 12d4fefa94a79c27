// Package cart implements the anonymous shopping cart: a list of product
// snapshots with requested quantities, clamped to the stock observed when
// the shopper touched the line. The cart is a convenience cache; orders
// are the source of truth.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSnapshot is the storefront view of a product copied into the cart
// at mutation time. It is never live-synced with the catalog.
type ProductSnapshot struct {
	ProductID     uuid.UUID       `json:"product_id"`
	Name          string          `json:"name"`
	FrontendPrice decimal.Decimal `json:"frontend_price"`
	Stock         int             `json:"stock"`
}

// LineItem is one cart entry: a snapshot plus the shopper's quantity.
// After any mutation settles, 1 <= Quantity <= Stock holds, except that
// adding a zero-stock product leaves Quantity at 0.
type LineItem struct {
	ProductSnapshot
	Quantity int `json:"quantity"`
}

// LineTotal returns FrontendPrice multiplied by Quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.FrontendPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Add merges the snapshot into the list. An existing line for the same
// product has its quantity raised by requested and its snapshot refreshed;
// otherwise a new line is appended at the tail. The resulting quantity is
// clamped to the stock supplied on this call. Negative requested amounts
// count as zero.
func Add(lines []LineItem, snapshot ProductSnapshot, requested int) []LineItem {
	if requested < 0 {
		requested = 0
	}

	out := make([]LineItem, 0, len(lines)+1)
	merged := false
	for _, line := range lines {
		if line.ProductID == snapshot.ProductID {
			line.ProductSnapshot = snapshot
			line.Quantity = clampQuantity(line.Quantity+requested, snapshot.Stock)
			merged = true
		}
		out = append(out, line)
	}
	if !merged {
		out = append(out, LineItem{
			ProductSnapshot: snapshot,
			Quantity:        clampQuantity(requested, snapshot.Stock),
		})
	}
	return out
}

// Remove drops the line for the given product. Absent lines are a no-op.
func Remove(lines []LineItem, productID uuid.UUID) []LineItem {
	out := make([]LineItem, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == productID {
			continue
		}
		out = append(out, line)
	}
	return out
}

// UpdateQuantity sets the line quantity, clamped to [1, Stock] using the
// stock recorded on the line. Absent lines are a no-op.
func UpdateQuantity(lines []LineItem, productID uuid.UUID, requested int) []LineItem {
	out := make([]LineItem, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == productID {
			q := requested
			if q < 1 {
				q = 1
			}
			line.Quantity = clampQuantity(q, line.Stock)
		}
		out = append(out, line)
	}
	return out
}

// Clear returns the empty list.
func Clear(_ []LineItem) []LineItem {
	return []LineItem{}
}

// Total sums FrontendPrice x Quantity across all lines.
func Total(lines []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

// Count sums the quantities across all lines.
func Count(lines []LineItem) int {
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}

func clampQuantity(requested, stock int) int {
	if stock < 0 {
		stock = 0
	}
	if requested > stock {
		return stock
	}
	if requested < 0 {
		return 0
	}
	return requested
}
