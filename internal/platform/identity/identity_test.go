package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("secret")
	id := uuid.New()

	token, err := issuer.Issue(id)
	require.NoError(t, err)

	got, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestEmptySecretNeverSignsOrAccepts(t *testing.T) {
	assert.ErrorIs(t, CheckSecret("  "), ErrEmptySecret)
	assert.NoError(t, CheckSecret("secret"))

	empty := NewIssuer("")
	_, err := empty.Issue(uuid.New())
	assert.ErrorIs(t, err, ErrEmptySecret)

	// A token signed with an empty HMAC key is refused.
	claims := &jwt.StandardClaims{Subject: uuid.NewString(), ExpiresAt: time.Now().Add(time.Hour).Unix()}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(""))
	require.NoError(t, err)
	_, err = empty.Parse(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	token, err := NewIssuer("one").Issue(uuid.New())
	require.NoError(t, err)

	_, err = NewIssuer("two").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	issuer := NewIssuer("secret")
	issuer.now = func() time.Time { return time.Now().Add(-2 * TokenTTL) }
	token, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = NewIssuer("secret").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	issuer := NewIssuer("secret")
	id := uuid.New()
	token, err := issuer.Issue(id)
	require.NoError(t, err)

	var seen uuid.UUID
	h := issuer.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing token")
	})

	t.Run("invalid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, id, seen)
	})
}
