package correios

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
)

func TestClientQuote(t *testing.T) {
	t.Run("parses comma-decimal prices and delivery days", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/calculo" {
				t.Fatalf("unexpected path %q", r.URL.Path)
			}
			var body rateRequestBody
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if body.CEPDestino != "04571010" {
				t.Fatalf("unexpected destination %q", body.CEPDestino)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"Codigo":"04510","Valor":"25,50","PrazoEntrega":"8","Erro":"0"},
				{"Codigo":"04014","Valor":"1.042,90","PrazoEntrega":"3","Erro":"0"}
			]`))
		}))
		defer server.Close()

		client, err := NewClient(server.URL, WithHTTPClient(server.Client()))
		if err != nil {
			t.Fatalf("new client: %v", err)
		}
		quotes, err := client.Quote(context.Background(), QuoteRequest{
			OriginCEP:      "01001000",
			DestinationCEP: "04571010",
			Package:        Package{WeightKG: 2.5, LengthCM: 30, HeightCM: 15, WidthCM: 20},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(quotes) != 2 {
			t.Fatalf("expected 2 quotes, got %d", len(quotes))
		}
		if quotes[0].ServiceName != "PAC" || quotes[0].Price.String() != "25.5" || quotes[0].DeliveryDays != 8 {
			t.Fatalf("unexpected PAC quote %+v", quotes[0])
		}
		if quotes[1].ServiceName != "SEDEX" || quotes[1].Price.String() != "1042.9" {
			t.Fatalf("unexpected SEDEX quote %+v", quotes[1])
		}
	})

	t.Run("skips entries flagged with carrier errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"Codigo":"04510","Valor":"0,00","PrazoEntrega":"0","Erro":"-3","MsgErro":"CEP inválido"},
				{"Codigo":"04014","Valor":"41,70","PrazoEntrega":"2","Erro":"0"}
			]`))
		}))
		defer server.Close()

		client, err := NewClient(server.URL, WithHTTPClient(server.Client()))
		if err != nil {
			t.Fatalf("new client: %v", err)
		}
		quotes, err := client.Quote(context.Background(), QuoteRequest{OriginCEP: "01001000", DestinationCEP: "70040010"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(quotes) != 1 || quotes[0].ServiceCode != ServiceSEDEX {
			t.Fatalf("expected only the SEDEX quote, got %+v", quotes)
		}
	})

	t.Run("rejects malformed postal codes", func(t *testing.T) {
		client, err := NewClient("http://127.0.0.1:0")
		if err != nil {
			t.Fatalf("new client: %v", err)
		}
		_, err = client.Quote(context.Background(), QuoteRequest{OriginCEP: "123", DestinationCEP: "04571010"})
		if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("requires a base URL", func(t *testing.T) {
		if _, err := NewClient("  "); err == nil {
			t.Fatal("expected error for missing base URL")
		}
	})
}

func TestParseBRL(t *testing.T) {
	cases := map[string]string{
		"25,50":     "25.5",
		"1.234,56":  "1234.56",
		" 10,00 ":   "10",
		"0,01":      "0.01",
		"15.000,00": "15000",
	}
	for input, want := range cases {
		got, err := parseBRL(input)
		if err != nil {
			t.Fatalf("parseBRL(%q): %v", input, err)
		}
		if got.String() != want {
			t.Fatalf("parseBRL(%q) = %s, want %s", input, got.String(), want)
		}
	}
	if _, err := parseBRL(""); err == nil {
		t.Fatal("expected error for empty value")
	}
}
