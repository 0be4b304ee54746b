package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order is the durable record of a completed checkout. The UUID is the
// canonical identifier; the confirmation number is a human-readable display
// code derived from it.
type Order struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	ConfirmationNumber string          `json:"confirmationNumber" db:"confirmation_number"`
	BuyerID            string          `json:"buyerId" db:"buyer_id"`
	BuyerName          string          `json:"buyerName" db:"buyer_name"`
	Items              []OrderItem     `json:"items"`
	Total              int64           `json:"total" db:"total"`
	Payment            PaymentSummary  `json:"payment"`
	DeliveryAddress    DeliveryAddress `json:"deliveryAddress"`
	Status             OrderStatus     `json:"status" db:"status"`
	TrackingNumber     *string         `json:"trackingNumber" db:"tracking_number"`
	OrderDate          time.Time       `json:"orderDate" db:"order_date"`
	EstimatedDelivery  time.Time       `json:"estimatedDelivery" db:"estimated_delivery"`
	ActualDeliveryDate *time.Time      `json:"actualDeliveryDate" db:"actual_delivery_date"`
	CreatedAt          time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is an immutable snapshot of a cart line at checkout time.
type OrderItem struct {
	ID         uuid.UUID `json:"-" db:"id"`
	OrderID    uuid.UUID `json:"-" db:"order_id"`
	ProductID  string    `json:"productId" db:"product_id"`
	Name       string    `json:"name" db:"name"`
	Price      int64     `json:"price" db:"price"`
	Quantity   int       `json:"quantity" db:"quantity"`
	SellerID   string    `json:"sellerId" db:"seller_id"`
	SellerName string    `json:"sellerName" db:"seller_name"`
}

// LineTotal returns price x quantity for this line.
func (i OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// PaymentSummary is what survives of the payment form after checkout. The
// full card number and CVV are validated in memory and never persisted.
type PaymentSummary struct {
	CardholderName string `json:"cardholderName" db:"cardholder_name"`
	CardLast4      string `json:"cardLast4" db:"card_last4"`
	Email          string `json:"email" db:"email"`
	Phone          string `json:"phone" db:"phone"`
}

// DeliveryAddress is derived from the billing fields of the payment form.
type DeliveryAddress struct {
	Address  string `json:"address" db:"address"`
	City     string `json:"city" db:"city"`
	Postcode string `json:"postcode" db:"postcode"`
}

// EstimatedDeliveryDays is added to the order date to produce the estimate
// shown on the confirmation screen.
const EstimatedDeliveryDays = 3

// ConfirmationPrefix starts every confirmation number.
const ConfirmationPrefix = "SELL-"

// ConfirmationNumber derives the display code for an order from its UUID
// and order date. Uniqueness follows from the UUID, so the code is safe to
// look orders up by.
func ConfirmationNumber(id uuid.UUID, orderDate time.Time) string {
	return fmt.Sprintf("%s%s-%s",
		ConfirmationPrefix,
		orderDate.UTC().Format("060102"),
		strings.ToUpper(id.String()[:8]),
	)
}
