// Package event carries change notifications from the use-case layer to
// whoever holds derived views of the stores.
package event

import (
	"sync"
	"time"
)

// Kind names what changed.
type Kind string

const (
	ArticleCreated  Kind = "article.created"
	ArticleUpdated  Kind = "article.updated"
	ArticleDeleted  Kind = "article.deleted"
	RatingChanged   Kind = "rating.changed"
	FavoriteChanged Kind = "favorite.changed"
)

// Event is published after a successful write.
type Event struct {
	Kind      Kind      `json:"kind"`
	ArticleID string    `json:"article_id"`
	UserID    string    `json:"user_id,omitempty"`
	At        time.Time `json:"at"`
}

// Handler receives published events.
type Handler func(Event)

// Publisher is what the use-case layer publishes to.
type Publisher interface {
	Publish(Event)
}

// Bus is a synchronous in-process Publisher. Handlers run on the publishing
// goroutine in subscription order.
type Bus struct {
	mu       sync.Mutex
	next     int
	handlers map[int]Handler
	order    []int
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.handlers[id] = h
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.handlers, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i:i], b.order[i+1:]...)
			break
		}
	}
}

// Publish delivers e to every current subscriber. Handlers may subscribe or
// unsubscribe while being called; the change applies to the next Publish.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	hs := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		hs = append(hs, b.handlers[id])
	}
	b.mu.Unlock()

	for _, h := range hs {
		h(e)
	}
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(Event) {}
