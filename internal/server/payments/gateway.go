// Package payments integrates with the external payment gateway used for
// subscription checkout.
package payments

import "context"

// Order is a checkout created at the gateway. ApproveURL is where the
// buyer is sent to approve the payment.
type Order struct {
	ID         string
	Status     string
	ApproveURL string
}

// Capture is the result of capturing an approved order.
type Capture struct {
	OrderID string
	Status  string
}

// Gateway is the payment-gateway contract consumed by the services layer.
type Gateway interface {
	// CreateOrder opens a checkout for the given amount. value is a
	// decimal string such as "9.99"; currency an ISO code such as "USD".
	CreateOrder(ctx context.Context, value, currency, description string) (*Order, error)

	// CaptureOrder captures an order the buyer has approved.
	CaptureOrder(ctx context.Context, orderID string) (*Capture, error)
}
