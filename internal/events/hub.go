package events

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/namaz/internal/model"
	"github.com/Nixie-Tech-LLC/namaz/internal/session"
)

type Kind string

const (
	KindIdentity Kind = "identity"
	KindRecord   Kind = "record"
)

// Event is delivered to every subscriber of the event's user.
type Event struct {
	Kind   Kind             `json:"kind"`
	UserID int              `json:"user_id"`
	Change *session.Change  `json:"change,omitempty"`
	Record *model.DayRecord `json:"record,omitempty"`
	// TokenID scopes an identity change to one signed-in client; empty means
	// every client of the user.
	TokenID string `json:"token_id,omitempty"`
}

// Topic is the broker topic the event is mirrored to.
func (e Event) Topic() string {
	return fmt.Sprintf("namaz/users/%d/%s", e.UserID, e.Kind)
}

// Publisher mirrors events to an external broker.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

type subscriber struct {
	ch chan Event
}

// MirrorBuffer is how many events may wait for the Publisher before new ones
// are dropped.
const MirrorBuffer = 256

// Hub fans events out to in-process subscribers and an optional Publisher.
// Mirroring runs on its own goroutine so a slow broker never holds up Publish.
type Hub struct {
	mu        sync.RWMutex
	subs      map[int]map[*subscriber]struct{}
	publisher Publisher

	mirror    chan Event
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func NewHub(publisher Publisher) *Hub {
	h := &Hub{
		subs:      make(map[int]map[*subscriber]struct{}),
		publisher: publisher,
	}
	if publisher != nil {
		h.mirror = make(chan Event, MirrorBuffer)
		h.quit = make(chan struct{})
		h.done = make(chan struct{})
		go h.forward()
	}
	return h
}

func (h *Hub) forward() {
	defer close(h.done)
	for {
		select {
		case e := <-h.mirror:
			h.send(e)
		case <-h.quit:
			for {
				select {
				case e := <-h.mirror:
					h.send(e)
				default:
					return
				}
			}
		}
	}
}

func (h *Hub) send(e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode event")
		return
	}
	if err := h.publisher.Publish(e.Topic(), payload); err != nil {
		log.Error().Err(err).Str("topic", e.Topic()).Msg("failed to mirror event")
	}
}

// Close flushes queued events to the Publisher and stops mirroring. Events
// published afterwards reach subscribers only.
func (h *Hub) Close() {
	if h.publisher == nil {
		return
	}
	h.closeOnce.Do(func() { close(h.quit) })
	<-h.done
}

// Subscribe returns a channel of the user's events and a cancel function that
// must be called once the subscriber is done.
func (h *Hub) Subscribe(userID int, buffer int) (<-chan Event, func()) {
	sub := &subscriber{ch: make(chan Event, buffer)}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*subscriber]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[userID], sub)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			h.mu.Unlock()
			close(sub.ch)
		})
	}
}

// Publish never blocks: a subscriber whose buffer is full misses the event,
// and so does the Publisher once MirrorBuffer events are queued.
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	for sub := range h.subs[e.UserID] {
		select {
		case sub.ch <- e:
		default:
			log.Warn().Int("user_id", e.UserID).Str("kind", string(e.Kind)).Msg("dropping event for slow subscriber")
		}
	}
	h.mu.RUnlock()

	if h.publisher == nil {
		return
	}
	select {
	case h.mirror <- e:
	default:
		log.Warn().Str("topic", e.Topic()).Msg("mirror queue full, dropping event")
	}
}

// Subscribers reports how many subscribers a user has.
func (h *Hub) Subscribers(userID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
