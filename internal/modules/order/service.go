package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/georgemunganga/qrmenu-backend/internal/modules/cart"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/shop"
	"github.com/georgemunganga/qrmenu-backend/internal/platform/logging"
)

var (
	ErrMessagingNotConfigured = errors.New("this shop hasn't set up WhatsApp ordering yet")
	ErrEmptyCart              = errors.New("cart is empty, add some products before ordering")
	ErrDuplicateCheckout      = errors.New("this order was already sent")
	ErrNoSession              = errors.New("missing cart session")
)

// Receipt is the outcome of a checkout: the composed message and the link
// that delivers it to the shop.
type Receipt struct {
	OrderID uuid.UUID `json:"order_id"`
	Message string    `json:"message"`
	Link    string    `json:"whatsapp_url"`
	Total   float64   `json:"total"`
	SentAt  time.Time `json:"sent_at"`
}

// Service turns a cart into an order message.
type Service interface {
	// Checkout composes the order for the session's cart and hands back the
	// messaging link. On success the cart is emptied and the customer name
	// and number are cleared; the address is kept. A non-empty
	// idempotencyKey makes repeated calls fail with ErrDuplicateCheckout.
	Checkout(ctx context.Context, s *shop.Shop, sess *cart.Session, idempotencyKey string) (*Receipt, error)
}

type service struct {
	publisher Publisher
	guard     Guard
	loc       *time.Location
	now       func() time.Time
	log       zerolog.Logger
}

// NewService creates the checkout service. Times in messages are rendered in
// loc.
func NewService(publisher Publisher, guard Guard, loc *time.Location) Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if guard == nil {
		guard = NoGuard{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{publisher: publisher, guard: guard, loc: loc, now: time.Now, log: logging.For("order")}
}

func (s *service) Checkout(ctx context.Context, sh *shop.Shop, sess *cart.Session, idempotencyKey string) (*Receipt, error) {
	if strings.TrimSpace(sh.WhatsappNumber) == "" {
		return nil, ErrMessagingNotConfigured
	}

	var (
		receipt *Receipt
		event   Event
		err     error
	)
	sess.Do(func(c *cart.Cart, cu *cart.Customer) {
		if c.IsEmpty() {
			err = ErrEmptyCart
			return
		}
		if !s.claim(ctx, sh.ID, idempotencyKey) {
			err = ErrDuplicateCheckout
			return
		}
		at := s.now().In(s.loc)
		items := c.Items()
		msg := Compose(MessageInput{
			ShopName: sh.ShopName,
			Customer: *cu,
			Items:    items,
			Total:    c.Total(),
			At:       at,
		})
		receipt = &Receipt{
			OrderID: uuid.New(),
			Message: msg,
			Link:    WhatsAppLink(sh.WhatsappNumber, msg),
			Total:   c.Total(),
			SentAt:  at,
		}
		event = newEvent(receipt, sh, *cu, items)

		c.Clear()
		cu.Name = ""
		cu.Number = ""
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Error().Err(err).Str("order_id", receipt.OrderID.String()).Msg("order event not published")
	}
	s.log.Info().
		Str("order_id", receipt.OrderID.String()).
		Str("shop", sh.Slug).
		Int("lines", len(event.Items)).
		Msg("order sent")
	return receipt, nil
}

// claim reports whether the checkout may proceed. A guard failure lets it
// through.
func (s *service) claim(ctx context.Context, shopID uuid.UUID, key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return true
	}
	ok, err := s.guard.Claim(ctx, shopID.String()+":"+key)
	if err != nil {
		s.log.Warn().Err(err).Msg("idempotency check failed, sending anyway")
		return true
	}
	return ok
}

func newEvent(r *Receipt, sh *shop.Shop, cu cart.Customer, items []cart.Item) Event {
	e := Event{
		ID:       r.OrderID,
		Type:     EventOrderSent,
		ShopID:   sh.ID,
		ShopSlug: sh.Slug,
		Customer: EventPerson{Name: cu.Name, Number: cu.Number, Address: cu.Address},
		Total:    r.Total,
		SentAt:   r.SentAt,
	}
	for _, it := range items {
		e.Items = append(e.Items, EventItem{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Quantity:  it.Quantity,
			UnitPrice: MessageUnitPrice(it),
			LineTotal: LineTotal(it),
		})
	}
	return e
}
