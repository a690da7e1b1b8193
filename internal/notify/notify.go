// Package notify delivers human-readable order notifications. Every
// notifier is best-effort: failures are logged by the caller and never
// affect the outcome of the commit that triggered them.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"fieldbasket/internal/domain"
)

type Notifier interface {
	Notify(ctx context.Context, o domain.Order) error
}

// WebhookNotifier posts a Discord-style JSON message to a webhook URL.
type WebhookNotifier struct {
	URL    string
	Client *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		URL: url,
		Client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, o domain.Order) error {
	msg := strings.Join([]string{
		"**New order received!**",
		"Order ID: " + o.ID,
		"Name: " + o.Name,
		"Phone: " + o.Phone,
		"Email: " + o.Email,
		"Address: " + o.Address,
		"Facebook: " + o.Facebook,
		"Remark: " + o.Remark,
		"Items:\n" + o.Summary,
		fmt.Sprintf("Total: %d", o.Total),
		"Placed at: " + o.CreatedAt,
	}, "\n")

	body, err := json.Marshal(map[string]string{"content": msg})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}

// MailNotifier sends the buyer a confirmation mail with the bank
// transfer instructions and an order lookup link.
type MailNotifier struct {
	Host       string
	Port       int
	User       string
	Pass       string
	From       string
	LookupBase string
}

func (n *MailNotifier) Notify(ctx context.Context, o domain.Order) error {
	m := mail.NewMsg()
	if err := m.From(n.From); err != nil {
		return err
	}
	if err := m.To(o.Email); err != nil {
		return err
	}
	m.Subject("Order confirmation " + o.ID)
	m.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Hello %s,\n\nYour order %s has been placed.\n\n%s\nTotal: %d\nPlaced at: %s\n\n"+
			"Please transfer the total to the account in our listing and keep your order id.\n"+
			"Look it up any time: %s/api/orders/%s\n",
		o.Name, o.ID, o.Summary, o.Total, o.CreatedAt, n.LookupBase, o.ID))

	client, err := mail.NewClient(n.Host,
		mail.WithPort(n.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.User),
		mail.WithPassword(n.Pass),
	)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, m)
}
