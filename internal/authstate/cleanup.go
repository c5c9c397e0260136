package authstate

import "strings"

const (
	// SessionKeyPrefix namespaces every locally cached session artifact.
	SessionKeyPrefix = "fault-auth."
	// SessionKeyMarker appears inside keys the backend caches on its own
	// behalf, outside the main namespace.
	SessionKeyMarker = "fr-sess"
)

// sessionArtifactKey reports whether a locally persisted key belongs to the
// session cache.
func sessionArtifactKey(key string) bool {
	return strings.HasPrefix(key, SessionKeyPrefix) || strings.Contains(key, SessionKeyMarker)
}

// CleanupAuthState purges stale session artifacts from every given store.
// A token revoked server-side can linger in a local store and produce a
// session that looks valid locally but is rejected remotely; purging before
// any sign-in or sign-up guarantees a clean slate.
//
// The operation is synchronous and idempotent, and it never fails: a key
// that cannot be removed is skipped so the remaining keys are still purged.
func CleanupAuthState(stores ...KeyValueStore) {
	for _, store := range stores {
		if store == nil {
			continue
		}
		for _, key := range store.Keys() {
			if !sessionArtifactKey(key) {
				continue
			}
			_ = store.Remove(key)
		}
	}
}
