package order

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/qrmenu-backend/internal/modules/cart"
)

// TimestampLayout renders order times as dd/mm/yyyy, hh:mm am.
const TimestampLayout = "02/01/2006, 03:04 pm"

// MessageInput is everything the order message is built from.
type MessageInput struct {
	ShopName string
	Customer cart.Customer
	Items    []cart.Item
	Total    float64
	At       time.Time
}

// Compose builds the order text sent to the shop. Customer lines are left out
// when empty; the time is rendered in the location of in.At.
func Compose(in MessageInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛒 *New Order from %s*\n", in.ShopName)
	if in.Customer.Name != "" {
		fmt.Fprintf(&b, "👤 Customer Name: %s\n", in.Customer.Name)
	}
	if in.Customer.Number != "" {
		fmt.Fprintf(&b, "📞 Customer Number: %s\n", in.Customer.Number)
	}
	if in.Customer.Address != "" {
		fmt.Fprintf(&b, "🏠 Delivery Address: %s\n", in.Customer.Address)
	}
	fmt.Fprintf(&b, "🗓️ Order Date & Time: %s\n\n", in.At.Format(TimestampLayout))

	b.WriteString("📦 Items Ordered:\n")
	for i, it := range in.Items {
		fmt.Fprintf(&b, "%d. %s", i+1, it.Product.Name)
		if it.Product.QuantityDescription != "" {
			fmt.Fprintf(&b, " (%s)", it.Product.QuantityDescription)
		}
		fmt.Fprintf(&b, " x %d - ₹%s\n", it.Quantity, Money(LineTotal(it)))
	}
	fmt.Fprintf(&b, "💰 Total Amount: ₹%s\n", Money(in.Total))
	b.WriteString("🙏 Please confirm my order!")
	return b.String()
}

// MessageUnitPrice is the price an item is billed at in the message: the
// offer price when set, else the price, else 0.
func MessageUnitPrice(it cart.Item) float64 {
	if o := it.Product.OfferPrice; o != nil && !math.IsNaN(*o) {
		return *o
	}
	if !math.IsNaN(it.Product.Price) {
		return it.Product.Price
	}
	return 0
}

// LineTotal is the unit price times the quantity.
func LineTotal(it cart.Item) float64 {
	return MessageUnitPrice(it) * float64(it.Quantity)
}

// Money formats an amount with two decimals.
func Money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.00"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}
