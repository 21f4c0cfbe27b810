package app

import (
	"context"
	"log"
	"time"

	"github.com/flickcards/flick/internal/auth"
)

const (
	defaultRefreshCheck = 30 * time.Second
	refreshLeeway       = time.Minute
)

// StartRefresher launches a background goroutine that mints a fresh access
// token shortly before the current one expires, so interactive requests
// rarely pay the 401-and-retry round trip. It returns immediately.
func StartRefresher(ctx context.Context, session *auth.Manager, interval time.Duration) {
	if interval <= 0 {
		interval = defaultRefreshCheck
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if !session.NeedsRefresh(refreshLeeway) {
				continue
			}
			if err := session.RefreshAccess(ctx); err != nil {
				log.Printf("token refresh failed: %v", err)
			}
		}
	}()
}
