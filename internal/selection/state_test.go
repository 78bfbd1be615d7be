package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satish9484/chat-app/internal/session/model"
	appErrors "github.com/satish9484/chat-app/pkg/errors"
	"github.com/satish9484/chat-app/pkg/logger"
)

func TestConversationID(t *testing.T) {
	t.Run("happy path - larger id first, both orders agree", func(t *testing.T) {
		id, err := ConversationID("u1", "u2")
		require.NoError(t, err)
		assert.Equal(t, "u2u1", id)

		flipped, err := ConversationID("u2", "u1")
		require.NoError(t, err)
		assert.Equal(t, id, flipped)
	})

	t.Run("happy path - url-safe alphabet accepted", func(t *testing.T) {
		id, err := ConversationID("User_01", "user-02")
		require.NoError(t, err)
		assert.Equal(t, "user-02User_01", id)
	})

	t.Run("sad path - ids outside the token alphabet rejected", func(t *testing.T) {
		for _, bad := range []string{"", "u 1", "a/b", "x.y", "u1\n"} {
			_, err := ConversationID(bad, "u2")
			assert.ErrorIs(t, err, appErrors.ErrInvalidPrincipalID, "id %q", bad)

			_, err = ConversationID("u1", bad)
			assert.ErrorIs(t, err, appErrors.ErrInvalidPrincipalID, "id %q", bad)
		}
	})
}

func TestState_SelectPeer(t *testing.T) {
	self := model.Principal{UID: "u1", DisplayName: "One"}
	peer := model.Principal{UID: "u2", DisplayName: "Two"}

	t.Run("happy path - activates the pair", func(t *testing.T) {
		s := NewState(logger.NewNop())

		var seen []string
		s.OnChange(func(chatID string) { seen = append(seen, chatID) })

		require.NoError(t, s.SelectPeer(self, peer))
		assert.Equal(t, "u2u1", s.ChatID())
		assert.Equal(t, peer, s.Peer())
		assert.Equal(t, []string{"u2u1"}, seen)
	})

	t.Run("happy path - reselect clears the upload view", func(t *testing.T) {
		s := NewState(logger.NewNop())
		require.NoError(t, s.SelectPeer(self, peer))
		s.SetUpload(UploadState{InProgress: true, FileName: "pic.png", Percent: 40})

		require.NoError(t, s.SelectPeer(self, model.Principal{UID: "u3"}))
		assert.Equal(t, UploadState{}, s.Upload())
	})

	t.Run("sad path - nobody signed in", func(t *testing.T) {
		s := NewState(logger.NewNop())
		err := s.SelectPeer(model.Principal{}, peer)
		assert.ErrorIs(t, err, appErrors.ErrNotSignedIn)
		assert.Equal(t, NoChat, s.ChatID())
	})

	t.Run("sad path - peer without id", func(t *testing.T) {
		s := NewState(logger.NewNop())
		err := s.SelectPeer(self, model.Principal{DisplayName: "ghost"})
		assert.ErrorIs(t, err, appErrors.ErrInvalidPeer)
	})

	t.Run("sad path - malformed principal id", func(t *testing.T) {
		s := NewState(logger.NewNop())
		err := s.SelectPeer(self, model.Principal{UID: "u 2"})
		assert.ErrorIs(t, err, appErrors.ErrInvalidPrincipalID)
		assert.Equal(t, NoChat, s.ChatID())
	})
}

func TestState_Reset(t *testing.T) {
	s := NewState(logger.NewNop())
	self := model.Principal{UID: "u1"}
	require.NoError(t, s.SelectPeer(self, model.Principal{UID: "u2"}))
	s.SetUpload(UploadState{InProgress: true, FileName: "pic.png"})

	var seen []string
	unsubscribe := s.OnChange(func(chatID string) { seen = append(seen, chatID) })

	s.Reset()
	assert.Equal(t, NoChat, s.ChatID())
	assert.True(t, s.Peer().IsZero())
	assert.Equal(t, UploadState{}, s.Upload())
	assert.Equal(t, []string{NoChat}, seen)

	unsubscribe()
	s.Reset()
	assert.Equal(t, []string{NoChat}, seen, "unsubscribed listener must stay quiet")
}
