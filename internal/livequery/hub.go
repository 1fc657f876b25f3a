// Package livequery fans out full snapshots of the todo collection to
// subscribers. Each delivery replaces whatever the subscriber held before.
package livequery

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"todoboard/internal/domain"
	"todoboard/internal/domain/entities"
	"todoboard/internal/log"
)

const snapshotKey = "snapshot"

// DefaultFetchTimeout bounds a single load of the collection.
const DefaultFetchTimeout = 10 * time.Second

// FetchFunc loads the current contents of the collection.
type FetchFunc func(ctx context.Context) ([]entities.Todo, error)

// snapshot is one load result. gen orders loads by the moment they started
// reading; a higher gen reflects every write committed before it began.
type snapshot struct {
	gen   uint64
	items []entities.Todo
}

// Hub manages live-query subscriptions.
type Hub struct {
	fetch FetchFunc
	sf    singleflight.Group
	gen   atomic.Uint64

	// ctx scopes loads to the hub, not to whichever request started them.
	ctx    context.Context
	cancel context.CancelFunc

	FetchTimeout time.Duration

	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	last   snapshot
	closed bool
}

// NewHub returns a Hub that loads snapshots with fetch.
func NewHub(fetch FetchFunc) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		fetch:        fetch,
		ctx:          ctx,
		cancel:       cancel,
		FetchTimeout: DefaultFetchTimeout,
		subs:         make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a subscriber and queues the current snapshot as its
// first delivery. The subscription is released by Close or when ctx is done.
func (h *Hub) Subscribe(ctx context.Context) (*Subscription, error) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return nil, domain.ErrSubscriptionClosed
	}

	snap, err := h.load(ctx)
	if err != nil {
		return nil, err
	}

	sub := &Subscription{
		hub: h,
		ch:  make(chan []entities.Todo, 1),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, domain.ErrSubscriptionClosed
	}
	h.subs[sub] = struct{}{}
	// A Refresh that started after our load may already have landed.
	if snap.gen > h.last.gen {
		h.last = snap
	}
	sub.offer(slices.Clone(h.last.items))
	h.mu.Unlock()

	stop := context.AfterFunc(ctx, sub.Close)
	sub.mu.Lock()
	sub.stop = stop
	sub.mu.Unlock()

	log.Debug().Int("subscribers", h.SubscriberCount()).Msg("live query subscribed")
	return sub, nil
}

// Refresh reloads the collection and delivers the snapshot to every
// subscriber. The load never joins one that began before Refresh was called,
// so a write committed before Refresh is always in what it delivers. Results
// older than the last delivered snapshot are dropped.
func (h *Hub) Refresh(ctx context.Context) error {
	h.sf.Forget(snapshotKey)
	snap, err := h.load(ctx)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || snap.gen <= h.last.gen {
		return nil
	}
	h.last = snap
	for sub := range h.subs {
		sub.offer(slices.Clone(snap.items))
	}
	return nil
}

// load shares an in-flight read with concurrent callers. The read runs on
// the hub's context; ctx only bounds how long this caller waits.
func (h *Hub) load(ctx context.Context) (snapshot, error) {
	ch := h.sf.DoChan(snapshotKey, func() (any, error) {
		gen := h.gen.Add(1)
		fetchCtx, cancel := context.WithTimeout(h.ctx, h.FetchTimeout)
		defer cancel()
		items, err := h.fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []entities.Todo{}
		}
		return snapshot{gen: gen, items: items}, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return snapshot{}, fmt.Errorf("load snapshot: %w", res.Err)
		}
		return res.Val.(snapshot), nil
	case <-ctx.Done():
		return snapshot{}, fmt.Errorf("load snapshot: %w", ctx.Err())
	}
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}

// SubscriberCount returns the number of open subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Shutdown closes every subscription and aborts in-flight loads; later
// Subscribe calls fail with domain.ErrSubscriptionClosed.
func (h *Hub) Shutdown() {
	h.cancel()

	h.mu.Lock()
	h.closed = true
	subs := make([]*Subscription, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}
