package sessionmanager

import (
	"context"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jellydator/ttlcache/v3"
)

// initReclaim sets up the TTL cache that tracks detached sessions. Entries
// expire after the configured reclaim interval; expiry deletes the session
// unless it was re-activated in the meantime.
func (c *controller) initReclaim() {
	c.reclaim = ttlcache.New[uuid.UUID, time.Time](
		ttlcache.WithTTL[uuid.UUID, time.Time](c.reclaimAfter),
		ttlcache.WithDisableTouchOnHit[uuid.UUID, time.Time](),
	)
	c.reclaim.OnEviction(c.onReclaimEviction)
}

// onReclaimEviction runs inside the cache's lock. It must not call back into
// the reclaim cache.
func (c *controller) onReclaimEviction(ctx context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[uuid.UUID, time.Time]) {
	if reason != ttlcache.EvictionReasonExpired {
		return
	}

	id := item.Key()
	s, err := c.sessions.Get(ctx, id)
	if err != nil {
		return
	}
	if !s.Detached() {
		return
	}

	if err := c.sessions.Delete(ctx, id); err != nil {
		c.logger.Errorw("deleting reclaimed session", "session", id.String(), "error", err)
		return
	}
	c.logger.Infow("session reclaimed", "session", id.String(), "detachedAt", item.Value())
	c.refreshIdleTimer(ctx)
}

// scheduleReclaim marks a detached session for reclamation. A zero reclaim
// interval disables reclamation and detached sessions live until shutdown.
func (c *controller) scheduleReclaim(id uuid.UUID, detachedAt time.Time) {
	if c.reclaimAfter == 0 {
		return
	}
	c.reclaim.Set(id, detachedAt, ttlcache.DefaultTTL)
}

// cancelReclaim removes a re-activated session from the reclaim schedule.
func (c *controller) cancelReclaim(id uuid.UUID) {
	if c.reclaimAfter == 0 {
		return
	}
	c.reclaim.Delete(id)
}
