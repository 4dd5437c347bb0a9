package pricing

import "github.com/askhat-b/partforge/internal/model"

// PartSpec carries the manufacturing parameters quoted for one part.
type PartSpec struct {
	Technology string `json:"technology"`
	Material   string `json:"material"`
	Finish     string `json:"finish,omitempty"`
	Quantity   int    `json:"quantity"`
}

// DFMIssue is one manufacturability finding reported by the pricing service.
type DFMIssue struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// QuoteResult is the response of the external pricing service.
type QuoteResult struct {
	PriceCents   int64      `json:"priceCents"`
	Currency     string     `json:"currency"`
	LeadTimeDays int        `json:"leadTimeDays"`
	Issues       []DFMIssue `json:"issues,omitempty"`
}

// Quote combines the persisted model identity with its price.
type Quote struct {
	QuoteID      string          `json:"quoteId"`
	BaseQuoteID  string          `json:"baseQuoteId"`
	Model        model.ModelFile `json:"model"`
	PriceCents   int64           `json:"priceCents"`
	Currency     string          `json:"currency"`
	LeadTimeDays int             `json:"leadTimeDays"`
	Issues       []DFMIssue      `json:"issues,omitempty"`
}
