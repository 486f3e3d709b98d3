package correios

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
)

// Service codes accepted by the rate endpoint.
const (
	ServicePAC   = "04510"
	ServiceSEDEX = "04014"
)

// Client calls the freight rate API for PAC and SEDEX quotes.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL sets the rate API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// NewClient builds a freight rate client. The base URL must be provided
// through configuration since there is no public default.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	client := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	WithBaseURL(baseURL)(client)
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.baseURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "correios base URL is required")
	}
	return client, nil
}

// Package describes the parcel being quoted.
type Package struct {
	WeightKG float64 `json:"peso"`
	LengthCM float64 `json:"comprimento"`
	HeightCM float64 `json:"altura"`
	WidthCM  float64 `json:"largura"`
}

// QuoteRequest carries everything the rate endpoint needs.
type QuoteRequest struct {
	OriginCEP      string
	DestinationCEP string
	Package        Package
}

// Quote is one carrier option priced in BRL.
type Quote struct {
	ServiceCode  string
	ServiceName  string
	Price        decimal.Decimal
	DeliveryDays int
}

type rateRequestBody struct {
	CEPOrigem  string  `json:"cepOrigem"`
	CEPDestino string  `json:"cepDestino"`
	Servicos   string  `json:"nCdServico"`
	Package    Package `json:"pacote"`
}

type rateResponseEntry struct {
	Codigo       string `json:"Codigo"`
	Valor        string `json:"Valor"`
	PrazoEntrega string `json:"PrazoEntrega"`
	Erro         string `json:"Erro"`
	MsgErro      string `json:"MsgErro"`
}

var serviceNames = map[string]string{
	ServicePAC:   "PAC",
	ServiceSEDEX: "SEDEX",
}

// Quote fetches PAC and SEDEX rates for the given parcel.
func (c *Client) Quote(ctx context.Context, req QuoteRequest) ([]Quote, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "correios client not configured")
	}
	if len(req.OriginCEP) != 8 || len(req.DestinationCEP) != 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "origin and destination postal codes must have 8 digits")
	}

	body := rateRequestBody{
		CEPOrigem:  req.OriginCEP,
		CEPDestino: req.DestinationCEP,
		Servicos:   ServicePAC + "," + ServiceSEDEX,
		Package:    req.Package,
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode rate request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/calculo", bytes.NewReader(raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build rate request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call rate API")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("rate API returned status %d", resp.StatusCode))
	}

	var entries []rateResponseEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode rate response")
	}

	quotes := make([]Quote, 0, len(entries))
	for _, entry := range entries {
		if entry.Erro != "" && entry.Erro != "0" {
			continue
		}
		price, err := parseBRL(entry.Valor)
		if err != nil {
			continue
		}
		days, err := strconv.Atoi(strings.TrimSpace(entry.PrazoEntrega))
		if err != nil || days < 0 {
			days = 0
		}
		quotes = append(quotes, Quote{
			ServiceCode:  entry.Codigo,
			ServiceName:  serviceName(entry.Codigo),
			Price:        price,
			DeliveryDays: days,
		})
	}
	return quotes, nil
}

func serviceName(code string) string {
	if name, ok := serviceNames[code]; ok {
		return name
	}
	return code
}

// parseBRL converts values in the carrier's comma-decimal format
// ("1.234,56") into a decimal amount.
func parseBRL(value string) (decimal.Decimal, error) {
	normalized := strings.TrimSpace(value)
	normalized = strings.ReplaceAll(normalized, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	if normalized == "" {
		return decimal.Zero, fmt.Errorf("empty price value")
	}
	return decimal.NewFromString(normalized)
}
