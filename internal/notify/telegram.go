package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// TelegramService pushes order alerts to the back-office Telegram chat.
type TelegramService struct {
	botToken    string
	adminChatID string
	log         *zap.SugaredLogger
}

// NewTelegramService creates a new TelegramService. With an empty bot token
// or chat id it degrades to a no-op.
func NewTelegramService(botToken, adminChatID string, log *zap.SugaredLogger) *TelegramService {
	return &TelegramService{botToken: botToken, adminChatID: adminChatID, log: log}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.botToken == "" || s.adminChatID == "" {
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)
	body, err := json.Marshal(telegramMessage{
		ChatID:    s.adminChatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}

// NotifyOrderPlaced formats and sends a new-order alert.
func (s *TelegramService) NotifyOrderPlaced(event OrderPlaced) error {
	var items strings.Builder
	for i, line := range event.Items {
		items.WriteString(fmt.Sprintf("%d. <b>%s</b>\n   %d x %.2f = %.2f\n",
			i+1, line.Name, line.Quantity, line.Price, line.Price*float64(line.Quantity)))
	}

	message := fmt.Sprintf(`<b>🛒 NEW ORDER</b>
<b>Order:</b> %s
<b>Customer:</b> %s
<b>Phone:</b> %s
<b>Items:</b>
%s<b>Total:</b> %.2f
<b>Payment:</b> %s`,
		event.OrderNumber,
		event.CustomerName,
		event.CustomerPhone,
		items.String(),
		event.Total,
		event.PaymentMethod,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}

// NotifyPaymentCaptured formats and sends a payment-received alert.
func (s *TelegramService) NotifyPaymentCaptured(event PaymentCaptured) error {
	message := fmt.Sprintf(`<b>✅ PAYMENT RECEIVED</b>
<b>Order:</b> %s
<b>Payment:</b> %s
<b>Amount:</b> %.2f`,
		event.OrderNumber,
		event.PaymentID,
		event.Amount,
	)
	return s.SendToAdmin(strings.TrimSpace(message))
}
