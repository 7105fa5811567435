package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultAPI = "https://api.telegram.org"

// Notifier sends text messages through a Telegram bot to every chat id.
type Notifier struct {
	baseURL string
	token   string
	chatIDs []string
	http    *http.Client
}

func New(token string, chatIDs []string) *Notifier {
	return &Notifier{baseURL: defaultAPI, token: token, chatIDs: chatIDs, http: &http.Client{Timeout: 10 * time.Second}}
}

// Enabled reports whether a token and at least one chat id are set.
func (n *Notifier) Enabled() bool {
	return n != nil && n.token != "" && len(n.chatIDs) > 0
}

// Notify does nothing when the notifier is not configured. A failing chat
// does not stop delivery to the others; the last error is returned.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	if !n.Enabled() {
		return nil
	}
	apiURL := n.baseURL + "/bot" + n.token + "/sendMessage"
	var lastErr error
	for _, id := range n.chatIDs {
		form := url.Values{}
		form.Set("chat_id", id)
		form.Set("text", text)
		form.Set("disable_web_page_preview", "1")
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := n.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()
		if resp.StatusCode >= 300 {
			lastErr = fmt.Errorf("telegram status %d for chat %s", resp.StatusCode, id)
		}
	}
	return lastErr
}
