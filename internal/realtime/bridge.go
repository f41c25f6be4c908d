package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PubSub is the slice of the Redis store the bridge needs.
type PubSub interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// envelope carries one broadcast between server instances. Origin lets each
// instance skip envelopes it published itself.
type envelope struct {
	Origin  uuid.UUID `json:"origin"`
	Exclude uuid.UUID `json:"exclude,omitzero"`
	Event   Event     `json:"event"`
}

// Bridge extends a Registry's fan-out across server instances via Redis
// pub/sub. A broadcast is delivered to local connections directly and
// republished so sibling instances deliver it to theirs. Single-instance
// deployments use the bare Registry and never construct a Bridge.
type Bridge struct {
	registry   *Registry
	pubsub     PubSub
	channel    string
	instanceID uuid.UUID
}

func NewBridge(registry *Registry, pubsub PubSub, channel string) *Bridge {
	return &Bridge{
		registry:   registry,
		pubsub:     pubsub,
		channel:    channel,
		instanceID: uuid.New(),
	}
}

// Broadcast fans out locally, then relays to sibling instances. The relay is
// best-effort like everything else on this path: a publish failure is logged
// and local delivery stands.
func (b *Bridge) Broadcast(evt Event, excludeUserID uuid.UUID) {
	b.registry.Broadcast(evt, excludeUserID)

	env := envelope{Origin: b.instanceID, Exclude: excludeUserID, Event: evt}
	payload, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("type", string(evt.Type)).Msg("realtime: marshal envelope")
		return
	}

	if err := b.pubsub.Publish(context.Background(), b.channel, payload); err != nil {
		log.Warn().Err(err).Msg("realtime: relay publish failed")
	}
}

// Run consumes relayed envelopes until ctx is cancelled, applying each
// foreign broadcast to the local registry.
func (b *Bridge) Run(ctx context.Context) error {
	messages, cleanup, err := b.pubsub.Subscribe(ctx, b.channel)
	if err != nil {
		return fmt.Errorf("realtime.Bridge.Run: %w", err)
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, open := <-messages:
			if !open {
				return nil
			}
			var env envelope
			if err := json.Unmarshal(msg, &env); err != nil {
				log.Warn().Err(err).Msg("realtime: malformed relay envelope")
				continue
			}
			if env.Origin == b.instanceID {
				continue
			}
			b.registry.Broadcast(env.Event, env.Exclude)
		}
	}
}
