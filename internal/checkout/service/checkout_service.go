package service

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	cart "github.com/fjod/go_storefront/internal/cart/domain"
	d "github.com/fjod/go_storefront/internal/checkout/domain"
)

// CartAccess is the narrow slice of the cart store the checkout flow needs.
// Consumers define this interface, not the cart service.
type CartAccess interface {
	GetCart(ctx context.Context, cartID string) (*cart.Cart, error)
	ClearCart(ctx context.Context, cartID string) error
}

// session is one checkout attempt. It lives only in process memory: leaving
// checkout or restarting the server discards it, the cart survives.
type session struct {
	mu sync.Mutex

	step             d.Step
	contact          d.ContactInfo
	address          d.ShippingAddress
	shippingMethodID string
	shippingReached  bool
	processing       bool
	order            *d.Order
}

// State is what the rendering layer gets to display.
type State struct {
	Step             d.Step
	Contact          d.ContactInfo
	Address          d.ShippingAddress
	ShippingMethodID string
	ShippingOptions  []d.ShippingOption
	Summary          d.Summary
	Order            *d.Order
}

type CheckoutService struct {
	carts CartAccess

	mu       sync.RWMutex
	sessions map[string]*session

	// processingDelay simulates external payment authorization; there is no
	// real gateway call.
	processingDelay time.Duration
	now             func() time.Time
}

const defaultProcessingDelay = 2 * time.Second

func NewCheckoutService(carts CartAccess) *CheckoutService {
	return &CheckoutService{
		carts:           carts,
		sessions:        make(map[string]*session),
		processingDelay: defaultProcessingDelay,
		now:             time.Now,
	}
}

// Begin creates (or resumes) the checkout session for a cart. A visitor with
// an empty cart cannot enter checkout. A session left on the terminal
// confirmation step is spent; beginning again starts a fresh flow for the
// next order.
func (s *CheckoutService) Begin(ctx context.Context, cartID string) (*State, error) {
	c, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	s.mu.Lock()
	sess, ok := s.sessions[cartID]
	if ok {
		sess.mu.Lock()
		spent := sess.step.IsTerminal()
		sess.mu.Unlock()
		if spent {
			ok = false
		}
	}
	if !ok {
		sess = &session{
			step:             d.StepInformation,
			shippingMethodID: d.DefaultShippingMethod,
		}
		sess.address.Country = d.DefaultCountry
		s.sessions[cartID] = sess
	}
	s.mu.Unlock()

	return s.stateOf(sess, c), nil
}

// State returns the current step and live totals. The empty-cart guard stays
// active mid-flow: outside the terminal step an emptied cart invalidates the
// whole session.
func (s *CheckoutService) State(ctx context.Context, cartID string) (*State, error) {
	sess, err := s.session(cartID)
	if err != nil {
		return nil, err
	}

	c, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if c.IsEmpty() && !sess.step.IsTerminal() {
		return nil, ErrEmptyCart
	}
	return s.stateLocked(sess, c), nil
}

// GoBack performs an explicit backward navigation. Forward jumps and leaving
// the terminal confirmation step are rejected.
func (s *CheckoutService) GoBack(ctx context.Context, cartID string, to d.Step) (*State, error) {
	sess, err := s.session(cartID)
	if err != nil {
		return nil, err
	}

	c, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if c.IsEmpty() && !sess.step.IsTerminal() {
		return nil, ErrEmptyCart
	}
	if !d.CanReturnTo(sess.step, to) {
		return nil, IllegalTransitionError
	}
	sess.step = to
	return s.stateLocked(sess, c), nil
}

// Leave discards the in-progress session. The cart is untouched: only a
// completed order empties it.
func (s *CheckoutService) Leave(cartID string) {
	s.mu.Lock()
	delete(s.sessions, cartID)
	s.mu.Unlock()
}

func (s *CheckoutService) session(cartID string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[cartID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNoSession
	}
	return sess, nil
}

func (s *CheckoutService) stateOf(sess *session, c *cart.Cart) *State {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.stateLocked(sess, c)
}

func (s *CheckoutService) stateLocked(sess *session, c *cart.Cart) *State {
	return &State{
		Step:             sess.step,
		Contact:          sess.contact,
		Address:          sess.address,
		ShippingMethodID: sess.shippingMethodID,
		ShippingOptions:  d.ShippingOptions(),
		Summary:          s.summaryLocked(sess, c),
		Order:            sess.order,
	}
}

// summaryLocked recomputes totals from the live cart every time; the flow
// never trusts a snapshot taken at checkout start. Shipping cost is unknown
// until the shipping step has been reached.
func (s *CheckoutService) summaryLocked(sess *session, c *cart.Cart) d.Summary {
	sum := d.Summary{Subtotal: c.Subtotal()}
	if !sess.shippingReached {
		return sum
	}
	opt, ok := d.ShippingOptionByID(sess.shippingMethodID)
	if !ok {
		return sum
	}
	sum.ShippingKnown = true
	sum.ShippingCost = opt.Price
	sum.Total = sum.Subtotal + opt.Price
	return sum
}

const referenceCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newOrderReference builds a human-shareable reference: prefix, base-36
// millisecond timestamp, short random suffix. Uniqueness is best-effort.
func (s *CheckoutService) newOrderReference() string {
	ts := strconv.FormatInt(s.now().UnixMilli(), 36)
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = referenceCharset[rand.Intn(len(referenceCharset))]
	}
	return "ECL-" + strings.ToUpper(ts) + "-" + string(suffix)
}
