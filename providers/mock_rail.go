package providers

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
)

const (
	RefNoPrefix = "REF"
	RefNoDigits = 12
	UTRNoPrefix = "UTR"
	UTRNoDigits = 14
	PONumPrefix = "PO"
	PONumDigits = 12
)

// MockRail settles nothing; it only issues references made of random digits.
type MockRail struct {
	name    string
	modes   map[models.PaymentMode]struct{}
	entropy io.Reader
}

// NewMockRail supports every mode when none are given.
func NewMockRail(name string, modes ...models.PaymentMode) *MockRail {
	rail := &MockRail{
		name:    name,
		entropy: rand.Reader,
	}
	if len(modes) > 0 {
		rail.modes = make(map[models.PaymentMode]struct{}, len(modes))
		for _, m := range modes {
			rail.modes[m] = struct{}{}
		}
	}
	return rail
}

// WithEntropy swaps the digit source.
func (r *MockRail) WithEntropy(entropy io.Reader) *MockRail {
	r.entropy = entropy
	return r
}

func (r *MockRail) Name() string {
	return r.name
}

func (r *MockRail) SupportsMode(mode models.PaymentMode) bool {
	if r.modes == nil {
		return true
	}
	_, ok := r.modes[mode]
	return ok
}

func (r *MockRail) IssueReferences(ctx context.Context, req ReferenceRequest) (*ReferenceResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	refNo, err := r.reference(RefNoPrefix, RefNoDigits)
	if err != nil {
		return nil, err
	}
	utrNo, err := r.reference(UTRNoPrefix, UTRNoDigits)
	if err != nil {
		return nil, err
	}
	poNum, err := r.reference(PONumPrefix, PONumDigits)
	if err != nil {
		return nil, err
	}

	return &ReferenceResponse{
		References: models.References{
			RefNo: refNo,
			UTRNo: utrNo,
			PONum: poNum,
		},
	}, nil
}

func (r *MockRail) reference(prefix string, n int) (string, error) {
	digits, err := randomDigits(r.entropy, n)
	if err != nil {
		return "", fmt.Errorf("generate %s reference: %w", prefix, err)
	}
	return prefix + digits, nil
}

// randomDigits rejects bytes >= 250 so every digit is equally likely.
func randomDigits(entropy io.Reader, n int) (string, error) {
	out := make([]byte, 0, n)
	buf := make([]byte, n)

	for len(out) < n {
		if _, err := io.ReadFull(entropy, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= 250 {
				continue
			}
			out = append(out, '0'+b%10)
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
