package payment

// LineItem is one priced cart entry sent to the checkout provider.
type LineItem struct {
	QuoteID     string `json:"quoteId"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitCents   int64  `json:"unitCents"`
}

// CheckoutInput carries one checkout request.
type CheckoutInput struct {
	QuoteID       string     `json:"quoteId"`
	CustomerEmail string     `json:"customerEmail"`
	Items         []LineItem `json:"items"`
}

// Session is the provider's hosted-checkout handle.
type Session struct {
	ID          string `json:"id"`
	RedirectURL string `json:"redirectUrl"`
}

// WebhookEvent is the provider's payment notification payload.
type WebhookEvent struct {
	Type          string `json:"type"`
	OrderID       string `json:"orderId"`
	OrderNumber   string `json:"orderNumber"`
	QuoteID       string `json:"quoteId"`
	AmountCents   int64  `json:"amountCents"`
	Currency      string `json:"currency"`
	CustomerEmail string `json:"customerEmail"`
}

// eventPaymentSucceeded is the only event type that triggers fulfillment.
const eventPaymentSucceeded = "payment.succeeded"
