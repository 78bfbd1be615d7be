package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satish9484/chat-app/internal/friend/mocks"
	friendrepo "github.com/satish9484/chat-app/internal/friend/repository"
	"github.com/satish9484/chat-app/internal/platform"
	"github.com/satish9484/chat-app/internal/platform/memory"
	"github.com/satish9484/chat-app/internal/selection"
	sessionmocks "github.com/satish9484/chat-app/internal/session/mocks"
	"github.com/satish9484/chat-app/internal/session/model"
	appErrors "github.com/satish9484/chat-app/pkg/errors"
	"github.com/satish9484/chat-app/pkg/logger"
)

var (
	owner = model.Principal{UID: "u1", DisplayName: "Owner"}
	bob   = model.Principal{UID: "u2", DisplayName: "Bob"}
	cara  = model.Principal{UID: "u3", DisplayName: "Cara"}
)

func newDirectory(t *testing.T, signedIn bool) (*FriendDirectory, *mocks.MockRepository, *selection.State) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	sess := sessionmocks.NewMockUsecase(ctrl)
	if signedIn {
		principal := owner
		sess.EXPECT().Current().Return(&principal).AnyTimes()
	} else {
		sess.EXPECT().Current().Return(nil).AnyTimes()
	}
	sel := selection.NewState(logger.NewNop())
	return NewFriendDirectory(repo, sess, sel, logger.NewNop()), repo, sel
}

func TestFriendDirectory_LoadFriends(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path - symmetric lists need no repair", func(t *testing.T) {
		d, repo, _ := newDirectory(t, true)

		repo.EXPECT().Load(gomock.Any(), owner.UID).Return([]model.Principal{bob}, nil)
		repo.EXPECT().Load(gomock.Any(), bob.UID).Return([]model.Principal{owner}, nil)

		list, err := d.LoadFriends(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Principal{bob}, list)
		assert.True(t, d.IsFriend(bob.UID))
	})

	t.Run("happy path - one-sided relation is repaired", func(t *testing.T) {
		d, repo, _ := newDirectory(t, true)

		repo.EXPECT().Load(gomock.Any(), owner.UID).Return([]model.Principal{bob}, nil)
		repo.EXPECT().Load(gomock.Any(), bob.UID).Return(nil, nil)
		repo.EXPECT().Append(gomock.Any(), bob.UID, owner).Return(nil)

		_, err := d.LoadFriends(ctx)
		require.NoError(t, err)
	})

	t.Run("happy path - repair failure stays silent", func(t *testing.T) {
		d, repo, _ := newDirectory(t, true)

		repo.EXPECT().Load(gomock.Any(), owner.UID).Return([]model.Principal{bob}, nil)
		repo.EXPECT().Load(gomock.Any(), bob.UID).Return(nil, nil)
		repo.EXPECT().Append(gomock.Any(), bob.UID, owner).Return(errors.New("offline"))

		list, err := d.LoadFriends(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("sad path - nobody signed in", func(t *testing.T) {
		d, _, _ := newDirectory(t, false)
		_, err := d.LoadFriends(ctx)
		assert.ErrorIs(t, err, appErrors.ErrNotSignedIn)
	})

	t.Run("sad path - backend read failure", func(t *testing.T) {
		d, repo, _ := newDirectory(t, true)
		repo.EXPECT().Load(gomock.Any(), owner.UID).Return(nil, errors.New("offline"))

		_, err := d.LoadFriends(ctx)
		require.Error(t, err)
		assert.Equal(t, appErrors.CodeUnavailable, appErrors.CodeOf(err))
	})
}

func TestFriendDirectory_AddFriend(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path - both writes land and the chat opens", func(t *testing.T) {
		d, repo, sel := newDirectory(t, true)

		repo.EXPECT().Append(gomock.Any(), owner.UID, bob).Return(nil)
		repo.EXPECT().Append(gomock.Any(), bob.UID, owner).Return(nil)

		require.NoError(t, d.AddFriend(ctx, bob))
		assert.True(t, d.IsFriend(bob.UID))
		assert.Equal(t, "u2u1", sel.ChatID())
		assert.Empty(t, d.AddingFriend())
	})

	t.Run("happy path - adding an existing friend only opens the chat", func(t *testing.T) {
		d, repo, sel := newDirectory(t, true)

		repo.EXPECT().Load(gomock.Any(), owner.UID).Return([]model.Principal{bob}, nil)
		repo.EXPECT().Load(gomock.Any(), bob.UID).Return([]model.Principal{owner}, nil)
		_, err := d.LoadFriends(ctx)
		require.NoError(t, err)

		// No Append expectations: the relation already exists.
		require.NoError(t, d.AddFriend(ctx, bob))
		assert.Equal(t, "u2u1", sel.ChatID())
		assert.Len(t, d.Friends(), 1)
	})

	t.Run("happy path - reverse write failure is tolerated", func(t *testing.T) {
		d, repo, _ := newDirectory(t, true)

		repo.EXPECT().Append(gomock.Any(), owner.UID, bob).Return(nil)
		repo.EXPECT().Append(gomock.Any(), bob.UID, owner).Return(errors.New("offline"))

		require.NoError(t, d.AddFriend(ctx, bob))
		assert.True(t, d.IsFriend(bob.UID))
	})

	t.Run("sad path - own write failure aborts", func(t *testing.T) {
		d, repo, sel := newDirectory(t, true)

		repo.EXPECT().Append(gomock.Any(), owner.UID, bob).Return(errors.New("offline"))

		err := d.AddFriend(ctx, bob)
		require.Error(t, err)
		assert.Equal(t, appErrors.CodeUnavailable, appErrors.CodeOf(err))
		assert.False(t, d.IsFriend(bob.UID))
		assert.Equal(t, selection.NoChat, sel.ChatID())
	})

	t.Run("sad path - peer without id", func(t *testing.T) {
		d, _, _ := newDirectory(t, true)
		err := d.AddFriend(ctx, model.Principal{DisplayName: "ghost"})
		assert.ErrorIs(t, err, appErrors.ErrInvalidPeer)
	})
}

func TestFriendDirectory_Removal(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path - confirm rewrites both lists", func(t *testing.T) {
		d, repo, _ := newDirectory(t, true)

		repo.EXPECT().Load(gomock.Any(), owner.UID).Return([]model.Principal{bob, cara}, nil)
		repo.EXPECT().Replace(gomock.Any(), owner.UID, []model.Principal{cara}).Return(nil)
		repo.EXPECT().Load(gomock.Any(), bob.UID).Return([]model.Principal{owner}, nil)
		repo.EXPECT().Replace(gomock.Any(), bob.UID, []model.Principal{}).Return(nil)

		require.NoError(t, d.RequestRemoval(bob))
		require.NotNil(t, d.PendingRemoval())
		require.NoError(t, d.ConfirmRemoval(ctx))
		assert.Nil(t, d.PendingRemoval())
		assert.False(t, d.IsFriend(bob.UID))
	})

	t.Run("happy path - removing the active peer resets the selection", func(t *testing.T) {
		d, repo, sel := newDirectory(t, true)
		require.NoError(t, sel.SelectPeer(owner, bob))

		repo.EXPECT().Load(gomock.Any(), owner.UID).Return([]model.Principal{bob}, nil)
		repo.EXPECT().Replace(gomock.Any(), owner.UID, []model.Principal{}).Return(nil)
		repo.EXPECT().Load(gomock.Any(), bob.UID).Return([]model.Principal{owner}, nil)
		repo.EXPECT().Replace(gomock.Any(), bob.UID, []model.Principal{}).Return(nil)

		require.NoError(t, d.RequestRemoval(bob))
		require.NoError(t, d.ConfirmRemoval(ctx))
		assert.Equal(t, selection.NoChat, sel.ChatID())
	})

	t.Run("happy path - cancel clears the pending removal", func(t *testing.T) {
		d, _, _ := newDirectory(t, true)
		require.NoError(t, d.RequestRemoval(bob))
		d.CancelRemoval()
		assert.Nil(t, d.PendingRemoval())
		assert.ErrorIs(t, d.ConfirmRemoval(ctx), appErrors.ErrNoPendingRemoval)
	})

	t.Run("happy path - reverse rewrite failure is tolerated", func(t *testing.T) {
		d, repo, _ := newDirectory(t, true)

		repo.EXPECT().Load(gomock.Any(), owner.UID).Return([]model.Principal{bob}, nil)
		repo.EXPECT().Replace(gomock.Any(), owner.UID, []model.Principal{}).Return(nil)
		repo.EXPECT().Load(gomock.Any(), bob.UID).Return(nil, errors.New("offline"))

		require.NoError(t, d.RequestRemoval(bob))
		require.NoError(t, d.ConfirmRemoval(ctx))
	})

	t.Run("sad path - confirm without a pending removal", func(t *testing.T) {
		d, _, _ := newDirectory(t, true)
		assert.ErrorIs(t, d.ConfirmRemoval(ctx), appErrors.ErrNoPendingRemoval)
	})

	t.Run("sad path - own rewrite failure keeps the friend", func(t *testing.T) {
		d, repo, _ := newDirectory(t, true)

		repo.EXPECT().Load(gomock.Any(), owner.UID).Return([]model.Principal{bob}, nil)
		repo.EXPECT().Replace(gomock.Any(), owner.UID, []model.Principal{}).Return(errors.New("offline"))

		require.NoError(t, d.RequestRemoval(bob))
		err := d.ConfirmRemoval(ctx)
		require.Error(t, err)
		assert.Equal(t, appErrors.CodeUnavailable, appErrors.CodeOf(err))
	})

	t.Run("happy path - chat history survives the removal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sess := sessionmocks.NewMockUsecase(ctrl)
		principal := owner
		sess.EXPECT().Current().Return(&principal).AnyTimes()

		docs := memory.NewDocumentStore()
		require.NoError(t, docs.Set(ctx, "chats", "u2u1", platform.Document{
			"messages": []any{
				map[string]any{"id": "m1", "text": "hi", "senderId": owner.UID},
				map[string]any{"id": "m2", "text": "yo", "senderId": bob.UID},
			},
		}, false))

		repo := friendrepo.NewFriendRepository(docs, logger.NewNop())
		require.NoError(t, repo.Append(ctx, owner.UID, bob))
		require.NoError(t, repo.Append(ctx, bob.UID, owner))

		d := NewFriendDirectory(repo, sess, selection.NewState(logger.NewNop()), logger.NewNop())
		_, err := d.LoadFriends(ctx)
		require.NoError(t, err)

		require.NoError(t, d.RequestRemoval(bob))
		require.NoError(t, d.ConfirmRemoval(ctx))

		doc, err := docs.Get(ctx, "chats", "u2u1")
		require.NoError(t, err)
		raw, _ := doc["messages"].([]any)
		assert.Len(t, raw, 2, "messages are deliberately untouched")
	})
}
