package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	nats "github.com/nats-io/nats.go"
)

// NatsBus публикует диагностические события в NATS, позволяя собирать
// их вне процесса (например, другим инструментом наблюдения за миром).
// Subject: floragen.events.<тип события>.
type NatsBus struct {
	nc        *nats.Conn
	published uint64
	consumed  uint64
	dropped   uint64
}

const natsSubjectPrefix = "floragen.events."

// NewNatsBus подключается к NATS. url: nats://127.0.0.1:4222.
func NewNatsBus(url string) (*NatsBus, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NatsBus{nc: nc}, nil
}

// Publish сериализует Envelope в JSON и публикует в subject по типу события
func (b *NatsBus) Publish(ctx context.Context, ev *Envelope) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	if err := b.nc.Publish(natsSubjectPrefix+ev.EventType, data); err != nil {
		atomic.AddUint64(&b.dropped, 1)
		return fmt.Errorf("nats publish: %w", err)
	}
	atomic.AddUint64(&b.published, 1)
	return nil
}

// Subscribe подписывается на все события и фильтрует локально
func (b *NatsBus) Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error) {
	sub, err := b.nc.Subscribe(natsSubjectPrefix+">", func(msg *nats.Msg) {
		var ev Envelope
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return
		}
		if !matchFilter(&ev, f) {
			return
		}
		atomic.AddUint64(&b.consumed, 1)
		h(ctx, &ev)
	})
	if err != nil {
		return nil, fmt.Errorf("nats subscribe: %w", err)
	}
	return &natsSub{sub: sub}, nil
}

// Metrics возвращает счетчики шины
func (b *NatsBus) Metrics() Stats {
	return Stats{
		Published: atomic.LoadUint64(&b.published),
		Consumed:  atomic.LoadUint64(&b.consumed),
		Dropped:   atomic.LoadUint64(&b.dropped),
	}
}

// Close закрывает подключение к NATS
func (b *NatsBus) Close() {
	b.nc.Drain()
}

type natsSub struct {
	sub *nats.Subscription
}

func (s *natsSub) Unsubscribe() {
	s.sub.Unsubscribe()
}
