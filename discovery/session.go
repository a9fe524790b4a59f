package discovery

import (
	"github.com/google/uuid"
	"github.com/mama165/otr-discovery/contract"
)

// session holds the state of one discovery round: the outbound probe's
// nonce, the one-shot latch that fires when that probe echoes back, the
// event log accumulated since the latch fired, and the identifier of the
// candidate the caller has chosen to join, if any.
type session struct {
	id                uuid.UUID // correlation id for logging only; no semantic role
	nonce             []byte
	probeObserved     bool
	eventLog          []contract.RoomEvent
	hasJoining        bool
	joiningIdentifier contract.Identifier
	registry          *registry
}

func newSession(nonce []byte) *session {
	return &session{id: uuid.New(), nonce: nonce, registry: newRegistry()}
}

func (s *session) appendEvent(ev contract.RoomEvent) {
	s.eventLog = append(s.eventLog, ev)
}

func (s *session) setJoining(id contract.Identifier) {
	s.hasJoining = true
	s.joiningIdentifier = id
}

func (s *session) clearJoining() {
	s.hasJoining = false
	s.joiningIdentifier = nil
}
