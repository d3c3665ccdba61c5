package telegram

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

// WebhookOptions declares webhook listener settings.
type WebhookOptions struct {
	Listen string
	Port   int
	URL    string
}

// PollerOptions configures BuildPoller.
type PollerOptions struct {
	RunMode                string
	LongPollTimeoutSeconds int
	Webhook                WebhookOptions
}

// BuildPoller returns a telebot poller based on the configured run
// mode; anything but "webhook" selects long polling.
func BuildPoller(opts PollerOptions) tele.Poller {
	if strings.EqualFold(strings.TrimSpace(opts.RunMode), "webhook") {
		return &tele.Webhook{
			Listen:   fmt.Sprintf("%s:%d", opts.Webhook.Listen, opts.Webhook.Port),
			Endpoint: &tele.WebhookEndpoint{PublicURL: opts.Webhook.URL},
		}
	}

	timeoutSec := opts.LongPollTimeoutSeconds
	if timeoutSec <= 0 {
		timeoutSec = 10
	}
	return &tele.LongPoller{Timeout: time.Duration(timeoutSec) * time.Second}
}

// BuildHTTPClient returns an HTTP client tuned for Telegram API calls.
func BuildHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 65 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{
		Timeout:   90 * time.Second,
		Transport: transport,
	}
}
