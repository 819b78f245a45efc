package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/meridiancredit/investor-portal/internal/core/domain"
	"github.com/meridiancredit/investor-portal/internal/core/ports"
)

type recordingSender struct {
	calls chan string
	err   error
}

func newRecordingSender(err error) *recordingSender {
	return &recordingSender{calls: make(chan string, 16), err: err}
}

func (s *recordingSender) SendCode(_ context.Context, destination, _ string) error {
	s.calls <- destination
	return s.err
}

func TestDispatcher_DeliversEmailJobs(t *testing.T) {
	sender := newRecordingSender(nil)
	d := NewDispatcher(2, sender, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Deliver(ports.DeliveryJob{
		UserID:      "u1",
		Channel:     domain.ChannelEmail,
		Destination: "user@example.com",
		Code:        "123456",
	})

	select {
	case dest := <-sender.calls:
		if dest != "user@example.com" {
			t.Fatalf("unexpected destination %q", dest)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("delivery never reached the sender")
	}
}

func TestDispatcher_SwallowsSenderFailures(t *testing.T) {
	sender := newRecordingSender(errors.New("provider down"))
	d := NewDispatcher(1, sender, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	// Two jobs: the first fails, the second must still be processed.
	for i := 0; i < 2; i++ {
		d.Deliver(ports.DeliveryJob{
			UserID:      "u1",
			Channel:     domain.ChannelEmail,
			Destination: "user@example.com",
			Code:        "123456",
		})
	}

	for i := 0; i < 2; i++ {
		select {
		case <-sender.calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("job %d never processed after earlier failure", i)
		}
	}
}

func TestDispatcher_PhoneChannelIsLogOnly(t *testing.T) {
	sender := newRecordingSender(nil)
	d := NewDispatcher(1, sender, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Deliver(ports.DeliveryJob{
		UserID:      "u1",
		Channel:     domain.ChannelPhone,
		Destination: "+15550100",
		Code:        "123456",
	})
	d.Deliver(ports.DeliveryJob{
		UserID:      "u1",
		Channel:     domain.ChannelEmail,
		Destination: "user@example.com",
		Code:        "123456",
	})

	// Same shard, so the email arriving proves the phone job was skipped
	// rather than sent.
	select {
	case dest := <-sender.calls:
		if dest != "user@example.com" {
			t.Fatalf("phone job must not reach the sender, got %q", dest)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("email job never processed")
	}
}

func TestDispatcher_ShardIsStablePerPrincipal(t *testing.T) {
	d := NewDispatcher(4, newRecordingSender(nil), zerolog.Nop())
	first := d.shardIndex("u1")
	for i := 0; i < 10; i++ {
		if d.shardIndex("u1") != first {
			t.Fatalf("shard index not deterministic")
		}
	}
}
