package notify

import (
	"encoding/json"
	"fmt"
	"strings"

	"renthub/internal/config"
	"renthub/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// sender is the subset of the telegram client the notifier needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier pushes booking events to the manager chats.
type TelegramNotifier struct {
	bot     sender
	chatIDs []int64
	logger  *zerolog.Logger
}

func NewTelegramNotifier(cfg config.TelegramConfig, logger *zerolog.Logger) (*TelegramNotifier, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	bot.Debug = cfg.Debug

	return &TelegramNotifier{
		bot:     bot,
		chatIDs: cfg.ManagerChatIDs,
		logger:  logger,
	}, nil
}

// Subscribe registers handlers for every booking event on the bus.
func (n *TelegramNotifier) Subscribe(bus *events.EventBus) {
	if bus == nil {
		return
	}
	for _, eventType := range []string{
		events.EventBookingCreated,
		events.EventBookingConfirmed,
		events.EventBookingCanceled,
		events.EventBookingCompleted,
	} {
		bus.Subscribe(eventType, n.handleBookingEvent)
	}
	bus.Subscribe(events.EventDatesBlocked, n.handleDatesBlocked)
}

func (n *TelegramNotifier) handleBookingEvent(event *events.Event) error {
	var payload events.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Str("event", event.Type).Msg("notify: decode booking payload")
		return err
	}
	n.broadcast(bookingMessage(event.Type, payload))
	return nil
}

func (n *TelegramNotifier) handleDatesBlocked(event *events.Event) error {
	var payload events.DatesBlockedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Str("event", event.Type).Msg("notify: decode blocked payload")
		return err
	}

	dates := make([]string, 0, len(payload.Dates))
	for _, d := range payload.Dates {
		dates = append(dates, d.Format("2006-01-02"))
	}

	text := fmt.Sprintf("🚫 Dates blocked\n\nListing: %d\nDates: %s",
		payload.ListingID, strings.Join(dates, ", "))
	if payload.Reason != "" {
		text += "\nReason: " + payload.Reason
	}
	n.broadcast(text)
	return nil
}

func (n *TelegramNotifier) broadcast(text string) {
	for _, chatID := range n.chatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.bot.Send(msg); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", chatID).Msg("notify: telegram send")
		}
	}
}

func bookingMessage(eventType string, p events.BookingEventPayload) string {
	var header string
	switch eventType {
	case events.EventBookingCreated:
		header = "🆕 New booking request"
	case events.EventBookingConfirmed:
		header = "✅ Booking confirmed"
	case events.EventBookingCanceled:
		header = "❌ Booking canceled"
	case events.EventBookingCompleted:
		header = "🏁 Booking completed"
	default:
		header = "ℹ️ Booking update"
	}

	msg := fmt.Sprintf(`%s

🏢 Listing: %s
📅 Dates: %s - %s (%d days)
👤 Renter: %s
💰 Total: %.2f
🆔 Reference: %s`,
		header,
		p.ListingName,
		p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"), p.Duration,
		p.RenterName,
		float64(p.TotalCents)/100,
		p.Reference)

	if p.Comment != "" {
		msg += "\n💬 " + p.Comment
	}
	return msg
}
