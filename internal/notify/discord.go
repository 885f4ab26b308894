// Package notify tells admins about cashout requests waiting for a decision.
package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/TapStake_Go/internal/domain"
	"github.com/osse101/TapStake_Go/internal/event"
	"github.com/osse101/TapStake_Go/internal/logger"
)

// WebhookExecutor is the part of a discordgo session the notifier uses
type WebhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts an embed to a webhook for each new cashout request
type DiscordNotifier struct {
	session   WebhookExecutor
	webhookID string
	token     string
}

// NewDiscordSession returns a session usable for webhooks only
func NewDiscordSession() (*discordgo.Session, error) {
	return discordgo.New("")
}

func NewDiscordNotifier(session WebhookExecutor, webhookID, token string) *DiscordNotifier {
	return &DiscordNotifier{session: session, webhookID: webhookID, token: token}
}

// Register subscribes to cashout.requested
func (n *DiscordNotifier) Register(bus event.Bus) {
	bus.Subscribe(domain.EventTypeCashoutRequested, n.Handle)
}

// Handle posts the notification. Delivery failures are logged, never returned.
func (n *DiscordNotifier) Handle(ctx context.Context, e event.Event) error {
	log := logger.FromContext(ctx)

	p, err := event.DecodePayload[event.CashoutPayloadV1](e.Payload)
	if err != nil {
		log.Warn(LogMsgBadPayload, "error", err)
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       EmbedTitleCashoutRequested,
		Description: fmt.Sprintf("**%s** requested **%s %s**", p.PlayerID, p.Amount.StringFixed(2), p.Currency),
		Color:       ColorPending,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Cashout", Value: p.CashoutID, Inline: true},
			{Name: "Status", Value: p.Status, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: EmbedFooterAdmin},
	}

	if _, err := n.session.WebhookExecute(n.webhookID, n.token, false, &discordgo.WebhookParams{
		Username: WebhookUsername,
		Embeds:   []*discordgo.MessageEmbed{embed},
	}); err != nil {
		log.Warn(LogMsgWebhookFailed, "cashoutID", p.CashoutID, "error", err)
	}
	return nil
}
