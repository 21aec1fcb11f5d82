package webhook

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/enic-kz/portal/internal/core/ports"
)

var ErrMalformedPayload = errors.New("malformed webhook payload")

type payload struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
		PublicMetadata struct {
			Role string `json:"role"`
		} `json:"public_metadata"`
	} `json:"data"`
}

// Decode turns a verified body into an IdentityEvent. The first listed email
// address is used; the role is passed through raw for the caller to parse.
func Decode(deliveryID string, body []byte) (ports.IdentityEvent, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return ports.IdentityEvent{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if p.Type == "" || p.Data.ID == "" {
		return ports.IdentityEvent{}, ErrMalformedPayload
	}

	event := ports.IdentityEvent{
		DeliveryID: deliveryID,
		Type:       p.Type,
		UserID:     p.Data.ID,
		Role:       p.Data.PublicMetadata.Role,
	}
	if len(p.Data.EmailAddresses) > 0 {
		event.Email = p.Data.EmailAddresses[0].EmailAddress
	}
	return event, nil
}
