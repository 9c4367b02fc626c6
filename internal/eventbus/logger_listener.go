package eventbus

import (
	"context"

	"github.com/annel0/floragen/internal/logging"
)

// AttachLogger подписывает логгер на события шины.
// Удобно при отладке генерации: включается флагом конфигурации.
func AttachLogger(ctx context.Context, bus EventBus, f Filter) (Subscription, error) {
	return bus.Subscribe(ctx, f, func(_ context.Context, ev *Envelope) {
		logging.Debug("event %s from %s: %v", ev.EventType, ev.Source, ev.Metadata)
	})
}
