package subscription

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	p, ok := Find("PRO")
	require.True(t, ok)
	assert.Equal(t, 75, p.ProductLimit)
	assert.Equal(t, int64(20000), p.AmountMinor())

	_, ok = Find("gold")
	assert.False(t, ok)
}

func TestValidityLabel(t *testing.T) {
	assert.Equal(t, "Forever", ValidityLabel("free"))
	assert.Equal(t, "45 days", ValidityLabel("basic"))
	assert.Equal(t, "60 days", ValidityLabel("pro"))
	assert.Equal(t, "90 days", ValidityLabel("premium"))
	assert.Equal(t, "N/A", ValidityLabel(""))
}

func TestNextExpiry(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	basic, _ := Find(TierBasic)

	got := NextExpiry(nil, now, basic)
	require.NotNil(t, got)
	assert.Equal(t, now.AddDate(0, 0, 45), *got)

	// Remaining time is carried over.
	current := now.AddDate(0, 0, 10)
	got = NextExpiry(&current, now, basic)
	assert.Equal(t, current.AddDate(0, 0, 45), *got)

	// An already-lapsed expiry restarts from now.
	lapsed := now.AddDate(0, 0, -3)
	got = NextExpiry(&lapsed, now, basic)
	assert.Equal(t, now.AddDate(0, 0, 45), *got)

	assert.Nil(t, NextExpiry(&current, now, Default()))
}

func TestStatusAt(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, Status{}, StatusAt(nil, now))

	soon := now.Add(36 * time.Hour)
	s := StatusAt(&soon, now)
	assert.False(t, s.Expired)
	assert.Equal(t, 2, s.DaysUntilExpiry)
	assert.True(t, s.ShowWarning)

	later := now.AddDate(0, 0, 20)
	s = StatusAt(&later, now)
	assert.False(t, s.ShowWarning)

	past := now.Add(-time.Hour)
	s = StatusAt(&past, now)
	assert.True(t, s.Expired)
	assert.False(t, s.ShowWarning)
}

func TestListPlans(t *testing.T) {
	r := chi.NewRouter()
	NewHandler().RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Currency string `json:"currency"`
		Plans    []Plan `json:"plans"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "INR", body.Currency)
	assert.Len(t, body.Plans, 4)
}
