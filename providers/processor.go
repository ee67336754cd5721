package providers

import (
	"context"
	"fmt"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
)

type Processor struct {
	providers []RailProvider
}

func NewProcessor() *Processor {
	return &Processor{providers: []RailProvider{}}
}

func (p *Processor) RegisterRailProvider(provider RailProvider) {
	p.providers = append(p.providers, provider)
}

// SelectProvider returns the first registered provider supporting mode.
func (p *Processor) SelectProvider(mode models.PaymentMode) (RailProvider, error) {
	for _, provider := range p.providers {
		if provider.SupportsMode(mode) {
			return provider, nil
		}
	}
	return nil, fmt.Errorf("no provider available for mode: %s", mode)
}

func (p *Processor) IssueReferences(ctx context.Context, req ReferenceRequest) (*ReferenceResponse, error) {
	provider, err := p.SelectProvider(req.Mode)
	if err != nil {
		return nil, err
	}

	resp, err := provider.IssueReferences(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: issue references: %w", provider.Name(), err)
	}

	resp.ProviderName = provider.Name()
	return resp, nil
}
