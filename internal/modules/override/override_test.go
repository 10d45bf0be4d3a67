package override

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "product_42_mrp", Key(EntityProduct, "42", "mrp"))
	assert.Equal(t, "shop_7_open_time", Key(EntityShop, "7", "open_time"))
}

func TestParseNumberOr(t *testing.T) {
	assert.Equal(t, 599.0, ParseNumberOr("599", 1))
	assert.Equal(t, 12.5, ParseNumberOr(" 12.5 ", 1))
	assert.Equal(t, 1.0, ParseNumberOr("", 1))
	assert.Equal(t, 1.0, ParseNumberOr("abc", 1))
	assert.Equal(t, 1.0, ParseNumberOr("NaN", 1))
	assert.Equal(t, 1.0, ParseNumberOr("Inf", 1))
}

func TestSetNumberOr(t *testing.T) {
	s := Set{"offer_price": "20", "mrp": "oops"}
	assert.Equal(t, 20.0, s.NumberOr("offer_price", 0))
	assert.Equal(t, 30.0, s.NumberOr("mrp", 30))
	assert.Equal(t, 5.0, s.NumberOr("missing", 5))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "12.5", FormatNumber(12.5))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	none, err := store.Load(ctx, "dev-a", EntityProduct, "p1", "mrp")
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, store.Save(ctx, "dev-a", EntityProduct, "p1", Set{"mrp": "999", "offer_price": "599"}))
	require.NoError(t, store.Save(ctx, "dev-a", EntityProduct, "p1", Set{"stock_status": "limited_stock"}))

	set, err := store.Load(ctx, "dev-a", EntityProduct, "p1", "mrp", "offer_price", "stock_status", "quantity_description")
	require.NoError(t, err)
	assert.Equal(t, Set{"mrp": "999", "offer_price": "599", "stock_status": "limited_stock"}, set)

	// Another device never sees them.
	other, err := store.Load(ctx, "dev-b", EntityProduct, "p1", "mrp", "offer_price")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestDeviceFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, AnonymousDevice, DeviceFromRequest(r))

	r.AddCookie(&http.Cookie{Name: "device_id", Value: "cookie-dev"})
	assert.Equal(t, "cookie-dev", DeviceFromRequest(r))

	r.Header.Set(DeviceHeader, "header-dev")
	assert.Equal(t, "header-dev", DeviceFromRequest(r))
}
