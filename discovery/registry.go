package discovery

import (
	"github.com/mama165/otr-discovery/contract"
	"github.com/samber/lo"
)

// registry is the candidate mapping: Identifier -> ChannelHandle. It holds
// exclusive ownership of every handle it contains until eviction or
// handover. It is not safe for concurrent use: the discovery controller
// that owns it is single-threaded.
type registry struct {
	candidates map[string]contract.ChannelHandle
}

func newRegistry() *registry {
	return &registry{candidates: make(map[string]contract.ChannelHandle)}
}

func (r *registry) get(id contract.Identifier) (contract.ChannelHandle, bool) {
	h, ok := r.candidates[string(id)]
	return h, ok
}

func (r *registry) insert(id contract.Identifier, handle contract.ChannelHandle) {
	r.candidates[string(id)] = handle
}

func (r *registry) evict(id contract.Identifier) {
	delete(r.candidates, string(id))
}

func (r *registry) reset() {
	r.candidates = make(map[string]contract.ChannelHandle)
}

// snapshotKeys returns the current candidate keys as a stable slice so a
// caller can forward an event to every live candidate while tolerating
// insertions or removals that happen as a side effect of that forwarding.
func (r *registry) snapshotKeys() []string {
	return lo.Keys(r.candidates)
}

// findByFingerprint scans the registry for the identifier whose fingerprint
// matches hexFingerprint, returning it on the first match. Scan order
// across distinct candidates is unspecified; a collision-free hash makes
// at most one match possible in practice.
func (r *registry) findByFingerprint(hexFingerprint string) (contract.Identifier, bool) {
	for key := range r.candidates {
		id := contract.Identifier(key)
		if Fingerprint(id) == hexFingerprint {
			return id, true
		}
	}
	return nil, false
}
