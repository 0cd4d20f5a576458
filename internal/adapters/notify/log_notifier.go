package notify

import (
	"context"
	"loadboard-service/internal/domain"
	"loadboard-service/internal/platform/obs"
	"log"
)

// LogNotifier builds the new-load draft and logs its mailto link. There is
// no mail transport; an operator or UI opens the link.
type LogNotifier struct {
	Recipient string

	// Sent receives every draft that would have been opened. Optional.
	Sent func(Draft)
}

func NewLogNotifier(recipient string) *LogNotifier {
	return &LogNotifier{Recipient: recipient}
}

func (n *LogNotifier) NotifyNewLoad(ctx context.Context, load domain.Load, subscribers []string) error {
	if len(subscribers) == 0 {
		log.Printf("req_id=%s notify skipped: load_id=%s reason=no_subscribers", obs.RequestID(ctx), load.ID)
		return nil
	}

	d := NewLoadDraft(n.Recipient, load, subscribers)
	log.Printf("req_id=%s notify new load: load_id=%s bcc=%d mailto=%s",
		obs.RequestID(ctx), load.ID, len(d.Bcc), d.MailtoURL())

	if n.Sent != nil {
		n.Sent(d)
	}
	return nil
}
