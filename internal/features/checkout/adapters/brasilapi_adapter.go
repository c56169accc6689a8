package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"delivery-client/internal/features/checkout/domain"
)

// BrasilAPIAdapter implements ports.PostalCodeLookup against BrasilAPI's
// CEP v1 endpoint.
type BrasilAPIAdapter struct {
	baseURL string
	client  *http.Client
}

// NewBrasilAPIAdapter creates a new BrasilAPIAdapter.
func NewBrasilAPIAdapter(baseURL string, client *http.Client) *BrasilAPIAdapter {
	return &BrasilAPIAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type cepResponse struct {
	CEP          string `json:"cep"`
	State        string `json:"state"`
	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
	Street       string `json:"street"`
}

// Lookup resolves cep, which must already be digits only.
func (a *BrasilAPIAdapter) Lookup(ctx context.Context, cep string) (domain.PostalAddress, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/"+cep, nil)
	if err != nil {
		return domain.PostalAddress{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return domain.PostalAddress{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.PostalAddress{}, fmt.Errorf("CEP %s not found: status %d", cep, resp.StatusCode)
	}

	var body cepResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.PostalAddress{}, fmt.Errorf("failed to decode response: %w", err)
	}

	return domain.PostalAddress{
		Street:       body.Street,
		Neighborhood: body.Neighborhood,
		City:         body.City,
		State:        body.State,
	}, nil
}
