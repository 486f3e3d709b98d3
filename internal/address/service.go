package address

import (
	"context"
	"fmt"

	"github.com/turboost/turboost-backend/pkg/viacep"
)

type cepResolver interface {
	Lookup(ctx context.Context, cep string) (*viacep.Address, error)
}

// Service prefills address forms from a postal code. It is a
// convenience for the storefront; cart and shipping never depend on it.
type Service interface {
	Lookup(ctx context.Context, cep string) (*Address, error)
}

// Address is the prefill payload handed to the storefront.
type Address struct {
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type service struct {
	resolver cepResolver
}

// NewService builds the address lookup service.
func NewService(resolver cepResolver) (Service, error) {
	if resolver == nil {
		return nil, fmt.Errorf("cep resolver required")
	}
	return &service{resolver: resolver}, nil
}

func (s *service) Lookup(ctx context.Context, cep string) (*Address, error) {
	resolved, err := s.resolver.Lookup(ctx, cep)
	if err != nil {
		return nil, err
	}
	return &Address{
		Street:       resolved.Street,
		Neighborhood: resolved.Neighborhood,
		City:         resolved.City,
		State:        resolved.State,
	}, nil
}
