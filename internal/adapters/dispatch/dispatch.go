// Package dispatch implements notification.Publisher: the boundary to the
// external agent/notification runtime (voice session orchestration,
// push/email/SMS fan-out) named in SPEC_FULL.md's Non-goals as out of
// scope for this module's own business logic. It is a thin signed HTTP
// client, grounded on the same HMAC convention paymentsvc.VerifySignature
// uses for inbound webhooks, applied here to an outbound call.
package dispatch

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/coziyoo/backend/internal/domain/notification"
)

// Client publishes notification.Event to the external runtime's ingest
// endpoint, signing the body the same way inbound payment webhooks are
// verified so the runtime can authenticate the caller.
type Client struct {
	baseURL    string
	sharedSecret string
	httpClient *http.Client
}

func New(baseURL, sharedSecret string) *Client {
	return &Client{
		baseURL:      baseURL,
		sharedSecret: sharedSecret,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Publish satisfies notification.Publisher. A disabled runtime (empty
// baseURL, e.g. in a test or a deployment without the voice/agent feature
// enabled) is a no-op rather than an error, so outbox dispatch never stalls
// on a collaborator this module doesn't own.
func (c *Client) Publish(ctx context.Context, e notification.Event) error {
	if c.baseURL == "" {
		return nil
	}

	body, err := json.Marshal(e)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/notifications", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", sign(c.sharedSecret, body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("dispatch: notification runtime returned status %d", resp.StatusCode)
	}
	return nil
}
