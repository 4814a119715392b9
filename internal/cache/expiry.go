package cache

import "time"

const (
	ExpiryDefaultInMemory = 30 * time.Minute
	ExpiryDefaultRedis    = 5 * time.Minute

	// ExpiryAccessVerdict bounds how stale a cached access verdict can be.
	ExpiryAccessVerdict = 15 * time.Minute

	// ExpiryNoSubscriptions caps the negative cache for accounts with no
	// subscriptions on record, so an empty list is re-checked sooner.
	ExpiryNoSubscriptions = 5 * time.Minute

	// ExpirySubscriptionList bounds the cached per-user record snapshots
	// used by the portal listing.
	ExpirySubscriptionList = 15 * time.Minute
)
