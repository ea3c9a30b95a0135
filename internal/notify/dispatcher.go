package notify

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Dispatcher fans one event out to the configured channels. Any sender may
// be nil; that channel is simply skipped. Individual send failures are
// logged and do not stop the remaining channels.
type Dispatcher struct {
	email    EmailSender
	sms      SMSSender
	telegram *TelegramService
	log      *zap.SugaredLogger
}

// NewDispatcher wires the available senders.
func NewDispatcher(email EmailSender, sms SMSSender, telegram *TelegramService, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{email: email, sms: sms, telegram: telegram, log: log}
}

// Dispatch routes one event. Unknown events are ignored.
func (d *Dispatcher) Dispatch(event Event) error {
	switch e := event.(type) {
	case OTPIssued:
		return d.dispatchOTP(e)
	case OrderPlaced:
		return d.dispatchOrderPlaced(e)
	case OrderStatusChanged:
		return d.dispatchStatusChanged(e)
	case PaymentCaptured:
		if d.telegram != nil {
			return d.telegram.NotifyPaymentCaptured(e)
		}
		return nil
	default:
		d.log.Warnf("notify: unhandled event %s", event.Kind())
		return nil
	}
}

func (d *Dispatcher) dispatchOTP(e OTPIssued) error {
	greeting := e.Name
	if greeting == "" {
		greeting = "there"
	}

	switch e.Channel {
	case "email":
		if d.email == nil {
			return fmt.Errorf("no email sender configured")
		}
		body := fmt.Sprintf("Hi %s,<br><br>Your CureMart login code is <b>%s</b>. It expires at %s.",
			greeting, e.Code, e.ExpiresAt.Format("15:04"))
		return d.email.Send(e.Identifier, "Your CureMart login code", body)
	default:
		if d.sms == nil {
			return fmt.Errorf("no sms sender configured")
		}
		return d.sms.Send(e.Identifier,
			fmt.Sprintf("Your CureMart login code is %s. Valid for 5 minutes.", e.Code))
	}
}

func (d *Dispatcher) dispatchOrderPlaced(e OrderPlaced) error {
	if d.telegram != nil {
		if err := d.telegram.NotifyOrderPlaced(e); err != nil {
			d.log.Errorf("notify: telegram order alert failed: %v", err)
		}
	}

	if d.email != nil && e.CustomerEmail != "" {
		var items strings.Builder
		for _, line := range e.Items {
			items.WriteString(fmt.Sprintf("<li>%s × %d — %.2f</li>", line.Name, line.Quantity, line.Price))
		}
		body := fmt.Sprintf("Hi %s,<br><br>Your order <b>%s</b> has been placed.<ul>%s</ul>Total: <b>%.2f</b>",
			e.CustomerName, e.OrderNumber, items.String(), e.Total)
		if err := d.email.Send(e.CustomerEmail, "Order confirmation "+e.OrderNumber, body); err != nil {
			d.log.Errorf("notify: order confirmation email failed: %v", err)
		}
	}

	if d.sms != nil && e.CustomerPhone != "" {
		msg := fmt.Sprintf("CureMart: order %s placed, total %.2f. Thank you!", e.OrderNumber, e.Total)
		if err := d.sms.Send(e.CustomerPhone, msg); err != nil {
			d.log.Errorf("notify: order confirmation sms failed: %v", err)
		}
	}
	return nil
}

func (d *Dispatcher) dispatchStatusChanged(e OrderStatusChanged) error {
	text := fmt.Sprintf("CureMart: order %s is now %s.", e.OrderNumber, strings.ReplaceAll(e.Status, "_", " "))

	if d.sms != nil && e.CustomerPhone != "" {
		if err := d.sms.Send(e.CustomerPhone, text); err != nil {
			d.log.Errorf("notify: status sms failed: %v", err)
		}
	}
	if d.email != nil && e.CustomerEmail != "" {
		body := fmt.Sprintf("Hi %s,<br><br>%s", e.CustomerName, text)
		if err := d.email.Send(e.CustomerEmail, "Order update "+e.OrderNumber, body); err != nil {
			d.log.Errorf("notify: status email failed: %v", err)
		}
	}
	return nil
}
