package cart

import "github.com/shopspring/decimal"

// MaxQuantity caps a single line. Increments past the cap are silently
// clamped, never an error.
const MaxQuantity = 99

type Line struct {
	ProductID int64           `json:"producto_id"`
	Name      string          `json:"nombre"`
	UnitPrice decimal.Decimal `json:"precio"`
	Quantity  int             `json:"cantidad"`
}

// Snapshot is the cart as handed to callers: the ordered line list plus
// totals recomputed from it. Lines keep insertion order for stable display.
type Snapshot struct {
	Lines         []Line          `json:"items"`
	TotalQuantity int             `json:"totalItems"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

func snapshot(lines []Line) Snapshot {
	totalQty := 0
	totalAmount := decimal.Zero
	for _, l := range lines {
		totalQty += l.Quantity
		totalAmount = totalAmount.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return Snapshot{
		Lines:         lines,
		TotalQuantity: totalQty,
		TotalAmount:   totalAmount,
	}
}

// The transition functions below are pure: they take the old line list and
// return the new one, without touching storage. A product never appears on
// two lines; adding an existing product increments its quantity instead.

func addLine(lines []Line, productID int64, name string, unitPrice decimal.Decimal) []Line {
	for i, l := range lines {
		if l.ProductID == productID {
			out := copyLines(lines)
			out[i].Quantity = min(l.Quantity+1, MaxQuantity)
			return out
		}
	}
	out := copyLines(lines)
	return append(out, Line{ProductID: productID, Name: name, UnitPrice: unitPrice, Quantity: 1})
}

func incrementLine(lines []Line, productID int64) []Line {
	out := copyLines(lines)
	for i, l := range out {
		if l.ProductID == productID {
			out[i].Quantity = min(l.Quantity+1, MaxQuantity)
		}
	}
	return out
}

// decrementLine removes the line entirely when its quantity would drop to
// zero; a line with quantity 0 must not exist.
func decrementLine(lines []Line, productID int64) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == productID {
			if l.Quantity > 1 {
				l.Quantity--
				out = append(out, l)
			}
			continue
		}
		out = append(out, l)
	}
	return out
}

func updateLineQuantity(lines []Line, productID int64, quantity int) []Line {
	if quantity <= 0 {
		return removeLine(lines, productID)
	}
	out := copyLines(lines)
	for i, l := range out {
		if l.ProductID == productID {
			out[i].Quantity = min(quantity, MaxQuantity)
		}
	}
	return out
}

func removeLine(lines []Line, productID int64) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	return out
}

func copyLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
