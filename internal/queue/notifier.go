package queue

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Notifier delivers one message to one user. The production
// implementation is the chat gateway; this package only needs the
// ability to attempt a send and learn whether it worked.
type Notifier interface {
	Send(ctx context.Context, userID uint64, text string) error
}

// FanOut attempts delivery to every recipient of the event and returns
// the number of successful sends. Each send runs in its own failure
// boundary: an error is logged and skipped, so one unreachable user
// never suppresses delivery to the rest, and no delivery failure ever
// propagates back to the data mutation that triggered the event.
func FanOut(ctx context.Context, n Notifier, ev NotificationEvent) int {
	sent := 0
	for _, uid := range ev.UserIDs {
		if err := n.Send(ctx, uid, ev.Text); err != nil {
			log.Printf("notify: send to %d failed: %v", uid, err)
			continue
		}
		sent++
	}
	return sent
}

// FileNotifier appends each delivery as one line to logs/notify.log.
// It stands in for a real chat gateway in development and keeps an
// audit trail of what would have been sent.
type FileNotifier struct{}

func (FileNotifier) Send(_ context.Context, userID uint64, text string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "notify.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "user_id=%d | %s\n", userID, text); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
