package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/turboost/turboost-backend/pkg/mercadopago"
)

type preferenceCreator interface {
	CreatePreference(ctx context.Context, req mercadopago.PreferenceRequest) (*mercadopago.Preference, error)
}

// MercadoPagoGateway turns a checkout snapshot into a hosted payment
// preference. The shipping cost rides as its own "Frete" line so the
// buyer sees it itemized.
type MercadoPagoGateway struct {
	client      preferenceCreator
	backURLBase string
}

// NewMercadoPagoGateway builds the gateway. backURLBase is the public
// storefront origin the provider redirects back to.
func NewMercadoPagoGateway(client *mercadopago.Client, backURLBase string) (*MercadoPagoGateway, error) {
	if client == nil {
		return nil, fmt.Errorf("mercado pago client required")
	}
	base := strings.TrimRight(strings.TrimSpace(backURLBase), "/")
	if base == "" {
		return nil, fmt.Errorf("back url base required")
	}
	return &MercadoPagoGateway{client: client, backURLBase: base}, nil
}

// CreateSession registers the preference and returns its init point.
func (g *MercadoPagoGateway) CreateSession(ctx context.Context, snapshot *Snapshot, buyer Identity) (string, error) {
	items := make([]mercadopago.Item, 0, len(snapshot.Lines)+1)
	for _, line := range snapshot.Lines {
		items = append(items, mercadopago.Item{
			Title:      line.Name,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			CurrencyID: "BRL",
		})
	}
	if snapshot.ShippingCost.IsPositive() {
		items = append(items, mercadopago.Item{
			Title:      "Frete",
			Quantity:   1,
			UnitPrice:  snapshot.ShippingCost,
			CurrencyID: "BRL",
		})
	}

	pref, err := g.client.CreatePreference(ctx, mercadopago.PreferenceRequest{
		Items: items,
		Payer: mercadopago.Payer{Name: buyer.Name, Email: buyer.Email},
		BackURLs: mercadopago.BackURLs{
			Success: g.backURLBase + "/checkout/sucesso",
			Failure: g.backURLBase + "/checkout/erro",
			Pending: g.backURLBase + "/checkout/pendente",
		},
		AutoReturn: "approved",
	})
	if err != nil {
		return "", err
	}
	return pref.InitPoint, nil
}
