package order

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoItems         = errors.New("order must contain at least one item")
	ErrInvalidQuantity = errors.New("item quantity must be positive")
	ErrInvalidPrice    = errors.New("item price cannot be negative")
)

type Item struct {
	id             uuid.UUID
	nameSnapshot   string
	unitPriceCents int64
	qty            int32
}

func NewItem(nameSnapshot string, unitPriceCents int64, qty int32) (Item, error) {
	if qty <= 0 {
		return Item{}, ErrInvalidQuantity
	}
	if unitPriceCents < 0 {
		return Item{}, ErrInvalidPrice
	}
	return Item{
		id:             uuid.New(),
		nameSnapshot:   strings.TrimSpace(nameSnapshot),
		unitPriceCents: unitPriceCents,
		qty:            qty,
	}, nil
}

func (i Item) ID() uuid.UUID         { return i.id }
func (i Item) NameSnapshot() string  { return i.nameSnapshot }
func (i Item) UnitPriceCents() int64 { return i.unitPriceCents }
func (i Item) Qty() int32            { return i.qty }
func (i Item) LineTotalCents() int64 { return i.unitPriceCents * int64(i.qty) }

type Order struct {
	id     uuid.UUID
	shopID uuid.UUID
	userID *uuid.UUID
	status Status
	note   string
	items  []Item
}

func NewOrder(shopID uuid.UUID, userID *uuid.UUID, note string, items []Item) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	return &Order{
		id:     uuid.New(),
		shopID: shopID,
		userID: userID,
		status: StatusNew,
		note:   strings.TrimSpace(note),
		items:  items,
	}, nil
}

func (o *Order) TotalCents() int64 {
	var total int64
	for _, it := range o.items {
		total += it.LineTotalCents()
	}
	return total
}

func (o *Order) ID() uuid.UUID     { return o.id }
func (o *Order) ShopID() uuid.UUID { return o.shopID }
func (o *Order) UserID() *uuid.UUID {
	return o.userID
}
func (o *Order) Status() Status { return o.status }
func (o *Order) Note() string   { return o.note }
func (o *Order) Items() []Item  { return o.items }

// PaymentOutcome maps a payment provider result onto the order status set.
// A successful payment confirms the order; a failed one cancels it, which
// releases its slot occupancy.
func PaymentOutcome(result string, now time.Time) (Status, *time.Time, error) {
	switch result {
	case "paid":
		paidAt := now
		return StatusPaid, &paidAt, nil
	case "failed":
		return StatusCancelled, nil, nil
	default:
		return "", nil, ErrInvalidStatus
	}
}
