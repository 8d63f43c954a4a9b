/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
// Package announce posts tournament updates to a Discord channel webhook.
package announce

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Announcer publishes a text message somewhere people will see it.
type Announcer interface {
	Announce(ctx context.Context, msg string) error
}

type executeFunc func(webhookID, token string, params *discordgo.WebhookParams) error

// Webhook posts messages through a Discord webhook URL.
type Webhook struct {
	id      string
	token   string
	execute executeFunc
}

// ParseWebhookURL extracts the webhook id and token from a URL of the form
// https://discord.com/api/webhooks/<id>/<token>.
func ParseWebhookURL(raw string) (id string, token string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("announce.parsewebhookurl: %w", err)
	}
	host := strings.ToLower(u.Hostname())
	if u.Scheme != "https" ||
		!(host == "discord.com" || host == "discordapp.com" ||
			strings.HasSuffix(host, ".discord.com")) {
		return "", "", fmt.Errorf("announce.parsewebhookurl: %q is not a discord webhook url",
			raw)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("announce.parsewebhookurl: %q has no webhook id and token",
		raw)
}

// NewWebhook returns a Webhook for the given URL.
func NewWebhook(webhookURL string) (*Webhook, error) {
	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	// webhooks authenticate with their token, no bot token needed
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("announce.newwebhook: failed to initialize discord client: %w",
			err)
	}

	return &Webhook{
		id:    id,
		token: token,
		execute: func(webhookID, token string, params *discordgo.WebhookParams) error {
			_, err := session.WebhookExecute(webhookID, token, true, params)
			return err
		},
	}, nil
}

// Announce posts msg as a monospaced block.
func (w *Webhook) Announce(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &discordgo.WebhookParams{
		Content: fmt.Sprintf("```\n%s```", TruncateContent(msg)),
	}
	if err := w.execute(w.id, w.token, params); err != nil {
		return fmt.Errorf("announce.webhook: execute failed: %w", err)
	}
	return nil
}

// https://discord.com/developers/docs/resources/webhook#execute-webhook
// limits messages to 2k characters
func TruncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}

// BestEffort announces msg through a, logging instead of returning any
// failure. A nil Announcer does nothing.
func BestEffort(ctx context.Context, a Announcer, msg string) {
	if a == nil {
		return
	}
	if err := a.Announce(ctx, msg); err != nil {
		log.Printf("announce: unable to post update: %v", err)
	}
}
