package providers

import (
	"context"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
)

type ReferenceRequest struct {
	TranID string
	Mode   models.PaymentMode
}

type ReferenceResponse struct {
	ProviderName string
	References   models.References
}

type Provider interface {
	Name() string
}

// RailProvider issues the settlement references for a payment rail.
type RailProvider interface {
	Provider
	SupportsMode(mode models.PaymentMode) bool
	IssueReferences(ctx context.Context, req ReferenceRequest) (*ReferenceResponse, error)
}
