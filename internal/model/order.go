package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the review state of an order.
type OrderStatus string

const (
	StatusPending  OrderStatus = "pending"
	StatusApproved OrderStatus = "approved"
	StatusRejected OrderStatus = "rejected"
)

// Valid reports whether s belongs to the closed set of order states.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// PaymentMethod is the offline channel the customer paid through.
type PaymentMethod string

const (
	PaymentManualBankTransfer PaymentMethod = "manual-bank-transfer"
	PaymentInstapay           PaymentMethod = "instapay"
	PaymentVodafoneCash       PaymentMethod = "vodafone-cash"
)

// Valid reports whether m is an accepted payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentManualBankTransfer, PaymentInstapay, PaymentVodafoneCash:
		return true
	}
	return false
}

// Order represents a customer purchase awaiting or past staff review.
type Order struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      string          `json:"productId"`
	ProductType    ProductType     `json:"productType"`
	Items          []OrderItem     `json:"items"`
	Breakdown      PriceBreakdown  `json:"breakdown"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	CustomerName   string          `json:"customerName"`
	CustomerEmail  string          `json:"customerEmail"`
	CustomerPhone  string          `json:"customerPhone"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	ReceiptURL     string          `json:"receiptUrl"`
	ReceiptID      string          `json:"receiptId,omitempty"`
	Status         OrderStatus     `json:"status"`
	AccessLink     string          `json:"accessLink,omitempty"`
	IdempotencyKey *string         `json:"-"`
	Version        int             `json:"version"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// OrderItem is an owned snapshot of a purchased catalog line.
type OrderItem struct {
	Title string          `json:"title"`
	Type  ProductType     `json:"type"`
	Price decimal.Decimal `json:"price"`
}

// HasReceiptLink reports whether the receipt reference is a fetchable URL.
// Older orders stored only the uploaded file name.
func (o *Order) HasReceiptLink() bool {
	return strings.HasPrefix(o.ReceiptURL, "http://") || strings.HasPrefix(o.ReceiptURL, "https://")
}

// OrderView is the customer-facing projection returned by order lookup.
type OrderView struct {
	ID                uuid.UUID       `json:"id"`
	Status            OrderStatus     `json:"status"`
	ProductType       ProductType     `json:"productType"`
	Items             []OrderItem     `json:"items"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod"`
	AccessLink        string          `json:"accessLink,omitempty"`
	ReviewWindowHours int             `json:"reviewWindowHours"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// View projects the order for its customer. The access link is only exposed
// once the order is approved.
func (o *Order) View(reviewWindowHours int) *OrderView {
	v := &OrderView{
		ID:                o.ID,
		Status:            o.Status,
		ProductType:       o.ProductType,
		Items:             o.Items,
		TotalAmount:       o.TotalAmount,
		PaymentMethod:     o.PaymentMethod,
		ReviewWindowHours: reviewWindowHours,
		CreatedAt:         o.CreatedAt,
	}
	if o.Status == StatusApproved {
		v.AccessLink = o.AccessLink
	}
	return v
}

// MatchesSubmission reports whether req describes the same purchase by the
// same customer as o. A replayed idempotency key is only honoured on a match.
func (o *Order) MatchesSubmission(req *CheckoutRequest) bool {
	return o.ProductID == req.ProductID &&
		o.ProductType == req.ProductType &&
		strings.EqualFold(o.CustomerEmail, req.CustomerEmail) &&
		o.CustomerPhone == req.CustomerPhone &&
		o.PaymentMethod == req.PaymentMethod
}

// CheckoutRequest carries the customer's submission, minus the receipt file.
type CheckoutRequest struct {
	ProductID      string        `json:"productId"`
	ProductType    ProductType   `json:"productType"`
	CustomerName   string        `json:"customerName"`
	CustomerEmail  string        `json:"customerEmail"`
	CustomerPhone  string        `json:"customerPhone"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	IdempotencyKey string        `json:"-"`
}

// ApproveRequest is the staff payload for approving an order.
type ApproveRequest struct {
	AccessLink string `json:"accessLink"`
	Version    *int   `json:"version,omitempty"`
}

// RejectRequest is the staff payload for rejecting an order.
type RejectRequest struct {
	Version *int `json:"version,omitempty"`
}

// AccessLinkRequest is the staff payload for correcting an access link.
type AccessLinkRequest struct {
	AccessLink string `json:"accessLink"`
	Version    *int   `json:"version,omitempty"`
}

// ReceiptInfo describes where an order's proof of payment can be viewed.
type ReceiptInfo struct {
	OrderID uuid.UUID `json:"orderId"`
	URL     string    `json:"url,omitempty"`
	Legacy  bool      `json:"legacy"`
	Name    string    `json:"name,omitempty"`
}

// DashboardStats summarises catalog and order counts for staff.
type DashboardStats struct {
	Courses  int                 `json:"courses"`
	Roadmaps int                 `json:"roadmaps"`
	Orders   map[OrderStatus]int `json:"orders"`
}
