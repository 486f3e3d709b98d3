package shipping

import (
	"context"
	"fmt"

	"github.com/turboost/turboost-backend/internal/cart"
	"github.com/turboost/turboost-backend/pkg/correios"
	"github.com/turboost/turboost-backend/pkg/db/models"
)

type rateClient interface {
	Quote(ctx context.Context, req correios.QuoteRequest) ([]correios.Quote, error)
}

type productSource interface {
	Product(id string) (models.Product, bool)
}

// CorreiosFetcher prices the cart as one parcel: weights add up, the
// largest footprint wins, heights stack.
type CorreiosFetcher struct {
	client    rateClient
	products  productSource
	originCEP string
}

// NewCorreiosFetcher builds a fetcher shipping from the store's origin
// postal code.
func NewCorreiosFetcher(client *correios.Client, products productSource, originCEP string) (*CorreiosFetcher, error) {
	if client == nil {
		return nil, fmt.Errorf("rate client required")
	}
	if products == nil {
		return nil, fmt.Errorf("product source required")
	}
	if len(NormalizePostalCode(originCEP)) != postalCodeLength {
		return nil, fmt.Errorf("origin postal code must have 8 digits")
	}
	return &CorreiosFetcher{
		client:    client,
		products:  products,
		originCEP: NormalizePostalCode(originCEP),
	}, nil
}

// FetchRates aggregates the cart into a parcel and asks the carrier for
// PAC and SEDEX options.
func (f *CorreiosFetcher) FetchRates(ctx context.Context, postalCode string, items []cart.LineItem) ([]Quote, error) {
	parcel := f.buildParcel(items)

	quotes, err := f.client.Quote(ctx, correios.QuoteRequest{
		OriginCEP:      f.originCEP,
		DestinationCEP: postalCode,
		Package:        parcel,
	})
	if err != nil {
		return nil, err
	}

	out := make([]Quote, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, Quote{
			CarrierCode:  q.ServiceCode,
			CarrierName:  q.ServiceName,
			Price:        q.Price,
			DeliveryDays: q.DeliveryDays,
		})
	}
	return out, nil
}

func (f *CorreiosFetcher) buildParcel(items []cart.LineItem) correios.Package {
	parcel := correios.Package{}
	for _, item := range items {
		product, ok := f.products.Product(item.ProductID)
		if !ok {
			continue
		}
		qty := float64(item.Quantity)
		parcel.WeightKG += product.WeightKG * qty
		parcel.HeightCM += product.HeightCM * qty
		if product.LengthCM > parcel.LengthCM {
			parcel.LengthCM = product.LengthCM
		}
		if product.WidthCM > parcel.WidthCM {
			parcel.WidthCM = product.WidthCM
		}
	}
	return parcel
}
