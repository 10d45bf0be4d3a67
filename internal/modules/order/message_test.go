package order

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/georgemunganga/qrmenu-backend/internal/modules/cart"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/catalog"
)

func ptr(v float64) *float64 { return &v }

var ist = time.FixedZone("IST", 5*3600+1800)

func item(name string, price float64, offer *float64, qty int) cart.Item {
	return cart.Item{
		Product:  catalog.Product{ID: uuid.New(), Name: name, Price: price, OfferPrice: offer},
		Quantity: qty,
	}
}

func TestComposeMinimal(t *testing.T) {
	msg := Compose(MessageInput{
		ShopName: "Chai Point",
		Items:    []cart.Item{item("Tea", 20, nil, 2)},
		Total:    40,
		At:       time.Date(2024, 5, 1, 15, 4, 0, 0, ist),
	})

	assert.Equal(t, "🛒 *New Order from Chai Point*\n"+
		"🗓️ Order Date & Time: 01/05/2024, 03:04 pm\n\n"+
		"📦 Items Ordered:\n"+
		"1. Tea x 2 - ₹40.00\n"+
		"💰 Total Amount: ₹40.00\n"+
		"🙏 Please confirm my order!", msg)
	assert.NotContains(t, msg, "Customer Name")
}

func TestComposeFull(t *testing.T) {
	cake := item("Chocolate Cake", 999, ptr(599), 1)
	cake.Product.QuantityDescription = "1kg"

	msg := Compose(MessageInput{
		ShopName: "Cake Corner",
		Customer: cart.Customer{Name: "Asha", Number: "9876543210", Address: "12 MG Road"},
		Items:    []cart.Item{cake, item("Candle", 10.5, nil, 3)},
		Total:    630.5,
		At:       time.Date(2024, 12, 31, 9, 5, 0, 0, ist),
	})

	lines := strings.Split(msg, "\n")
	assert.Equal(t, []string{
		"🛒 *New Order from Cake Corner*",
		"👤 Customer Name: Asha",
		"📞 Customer Number: 9876543210",
		"🏠 Delivery Address: 12 MG Road",
		"🗓️ Order Date & Time: 31/12/2024, 09:05 am",
		"",
		"📦 Items Ordered:",
		"1. Chocolate Cake (1kg) x 1 - ₹599.00",
		"2. Candle x 3 - ₹31.50",
		"💰 Total Amount: ₹630.50",
		"🙏 Please confirm my order!",
	}, lines)
}

func TestMessageUnitPrice(t *testing.T) {
	assert.Equal(t, 15.0, MessageUnitPrice(item("a", 20, ptr(15), 1)))
	assert.Equal(t, 0.0, MessageUnitPrice(item("free", 20, ptr(0), 1)))
	assert.Equal(t, 20.0, MessageUnitPrice(item("nan offer", 20, ptr(math.NaN()), 1)))
	assert.Equal(t, 0.0, MessageUnitPrice(item("all nan", math.NaN(), nil, 1)))
	assert.Equal(t, 45.0, LineTotal(item("x", 20, ptr(15), 3)))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "0.30", Money(0.1+0.2))
	assert.Equal(t, "1234.50", Money(1234.5))
	assert.Equal(t, "0.00", Money(math.NaN()))
	assert.Equal(t, "0.00", Money(math.Inf(1)))
}
