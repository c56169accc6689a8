package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// AddressPrefix marks the delivery address inside order notes.
const AddressPrefix = "Endereço: "

var prefixPattern = regexp.MustCompile(`(?i)^endereço:\s*`)

// AddressMode selects which address form is active.
type AddressMode string

const (
	AddressHistory AddressMode = "history"
	AddressNew     AddressMode = "new"
)

// FreshAddress is a structured address typed in at checkout. Every field
// but Complement is required.
type FreshAddress struct {
	CEP          string `json:"cep" validate:"required"`
	Street       string `json:"street" validate:"required"`
	Number       string `json:"number" validate:"required"`
	Neighborhood string `json:"neighborhood" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	Complement   string `json:"complement,omitempty"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (a FreshAddress) Trimmed() FreshAddress {
	return FreshAddress{
		CEP:          strings.TrimSpace(a.CEP),
		Street:       strings.TrimSpace(a.Street),
		Number:       strings.TrimSpace(a.Number),
		Neighborhood: strings.TrimSpace(a.Neighborhood),
		City:         strings.TrimSpace(a.City),
		State:        strings.TrimSpace(a.State),
		Complement:   strings.TrimSpace(a.Complement),
	}
}

// Notes renders the single notes line sent with the order.
func (a FreshAddress) Notes() string {
	line := fmt.Sprintf("%s%s, %s - %s, %s/%s, CEP: %s", AddressPrefix, a.Street, a.Number, a.Neighborhood, a.City, a.State, a.CEP)
	if a.Complement != "" {
		line += " - Comp: " + a.Complement
	}
	return line
}

// Delivery returns the structured delivery fields.
func (a FreshAddress) Delivery() Delivery {
	return Delivery{
		Address:      a.Street,
		Number:       a.Number,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
		Complement:   a.Complement,
	}
}

// HistoricalAddress is a previously used address. Only its free text is
// known.
type HistoricalAddress struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Notes returns the text with the address marker, never doubled.
func (h HistoricalAddress) Notes() string {
	if strings.HasPrefix(h.Text, strings.TrimSpace(AddressPrefix)) {
		return h.Text
	}
	return AddressPrefix + h.Text
}

// Delivery carries the free text in the street field and leaves the rest
// empty.
func (h HistoricalAddress) Delivery() Delivery {
	return Delivery{Address: h.Text}
}

// LastAddress is one entry of list_last_addresses.
type LastAddress struct {
	ID              FlexibleID `json:"id"`
	DeliveryAddress string     `json:"delivery_address"`
	CreatedAt       string     `json:"created_at"`
}

// History maps raw entries to displayable addresses. Entries without text
// are dropped and the leading marker is stripped.
func History(entries []LastAddress) []HistoricalAddress {
	out := make([]HistoricalAddress, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.DeliveryAddress) == "" {
			continue
		}
		out = append(out, HistoricalAddress{
			ID:        "last-" + string(e.ID),
			Text:      prefixPattern.ReplaceAllString(e.DeliveryAddress, ""),
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

// PostalAddress is what a postal code lookup can fill in.
type PostalAddress struct {
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

var nonDigits = regexp.MustCompile(`\D`)

// CleanCEP strips everything but digits. ok is false unless eight remain.
func CleanCEP(cep string) (string, bool) {
	clean := nonDigits.ReplaceAllString(cep, "")
	return clean, len(clean) == 8
}

// FlexibleID decodes an identifier sent either as a JSON number or string.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	if i, err := n.Int64(); err == nil {
		*id = FlexibleID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = FlexibleID(n.String())
	return nil
}
