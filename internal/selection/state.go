// Package selection tracks which peer the user is chatting with and derives
// the conversation id both participants compute independently.
package selection

import (
	"regexp"
	"sync"

	"github.com/satish9484/chat-app/internal/session/model"
	"github.com/satish9484/chat-app/pkg/errors"
	"github.com/satish9484/chat-app/pkg/logger"
)

// NoChat is the sentinel conversation id for the Idle state.
const NoChat = "none"

// UploadState is the transient attachment-transfer view shared with the
// message list; never persisted.
type UploadState struct {
	InProgress bool
	FileName   string
	Percent    int
}

// State is the chat selection machine: Idle (no peer) or Active(peer,
// chatID). SelectPeer re-enters Active; Reset returns to Idle from anywhere.
type State struct {
	logger *logger.Logger

	mu     sync.Mutex
	peer   model.Principal
	chatID string
	upload UploadState

	listeners map[int]func(chatID string)
	nextID    int
}

func NewState(log *logger.Logger) *State {
	return &State{
		logger:    log,
		chatID:    NoChat,
		listeners: make(map[int]func(string)),
	}
}

// SelectPeer makes peer the active chat partner, recomputes the conversation
// id and resets the upload view. The current principal must be known so both
// sides derive the same id.
func (s *State) SelectPeer(self model.Principal, peer model.Principal) error {
	if self.IsZero() {
		return errors.ErrNotSignedIn
	}
	if peer.IsZero() {
		s.logger.Warn("selection rejected: peer without id", "peer", peer.DisplayName)
		return errors.ErrInvalidPeer
	}
	chatID, err := ConversationID(self.UID, peer.UID)
	if err != nil {
		s.logger.Warn("selection rejected: bad principal id", "self", self.UID, "peer", peer.UID)
		return err
	}

	s.mu.Lock()
	s.peer = peer
	s.chatID = chatID
	s.upload = UploadState{}
	s.notifyLocked(chatID)
	s.mu.Unlock()
	return nil
}

// Reset returns to the Idle state. Invoked on every identity change and when
// the active chat partner is unfriended.
func (s *State) Reset() {
	s.mu.Lock()
	s.peer = model.Principal{}
	s.chatID = NoChat
	s.upload = UploadState{}
	s.notifyLocked(NoChat)
	s.mu.Unlock()
}

func (s *State) ChatID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatID
}

func (s *State) Peer() model.Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peer
}

func (s *State) Upload() UploadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upload
}

// SetUpload mirrors the coordinator's transfer state into the selection so
// list renderers can show a placeholder.
func (s *State) SetUpload(u UploadState) {
	s.mu.Lock()
	s.upload = u
	s.mu.Unlock()
}

// OnChange registers fn for every chat-id change. Unlike the auth stream
// there is no immediate initial call; subscribers react to transitions.
func (s *State) OnChange(fn func(chatID string)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *State) notifyLocked(chatID string) {
	fns := make([]func(string), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(chatID)
	}
	s.mu.Lock()
}

var principalIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ConversationID derives the deterministic conversation id for a pair of
// principals: the lexicographically larger id concatenated with the smaller,
// so both sides compute the same id without a lookup. Ids are validated
// before concatenation; anything outside the url-safe token alphabet is
// rejected.
func ConversationID(a, b string) (string, error) {
	if !principalIDPattern.MatchString(a) || !principalIDPattern.MatchString(b) {
		return "", errors.ErrInvalidPrincipalID
	}
	if a > b {
		return a + b, nil
	}
	return b + a, nil
}
