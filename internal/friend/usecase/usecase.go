package usecase

import (
	"context"
	"sync"

	"github.com/satish9484/chat-app/internal/friend"
	"github.com/satish9484/chat-app/internal/selection"
	"github.com/satish9484/chat-app/internal/session"
	"github.com/satish9484/chat-app/internal/session/model"
	"github.com/satish9484/chat-app/pkg/errors"
	"github.com/satish9484/chat-app/pkg/logger"
)

type FriendDirectory struct {
	repo      friend.Repository
	session   session.Usecase
	selection *selection.State
	logger    *logger.Logger

	mu      sync.Mutex
	friends []model.Principal
	adding  string
	pending *model.Principal
}

func NewFriendDirectory(repo friend.Repository, sess session.Usecase, sel *selection.State, log *logger.Logger) *FriendDirectory {
	return &FriendDirectory{
		repo:      repo,
		session:   sess,
		selection: sel,
		logger:    log,
	}
}

func (d *FriendDirectory) LoadFriends(ctx context.Context) ([]model.Principal, error) {
	owner := d.session.Current()
	if owner == nil {
		return nil, errors.ErrNotSignedIn
	}

	list, err := d.repo.Load(ctx, owner.UID)
	if err != nil {
		d.logger.Error("error loading friends", "owner", owner.UID, "err", err)
		return nil, errors.ErrBackendRead(err)
	}

	d.repairSymmetry(ctx, *owner, list)

	d.mu.Lock()
	d.friends = list
	d.mu.Unlock()
	return append([]model.Principal(nil), list...), nil
}

// repairSymmetry re-appends the owner to any friend's list that lost the
// reverse entry. The relation is written with two independent writes, so a
// failed second write can leave it one-sided; the load is the repair point.
// Failures here are logged, never surfaced.
func (d *FriendDirectory) repairSymmetry(ctx context.Context, owner model.Principal, list []model.Principal) {
	for _, peer := range list {
		peerList, err := d.repo.Load(ctx, peer.UID)
		if err != nil {
			d.logger.Warn("symmetry check skipped", "peer", peer.UID, "err", err)
			continue
		}
		if containsUID(peerList, owner.UID) {
			continue
		}
		if err := d.repo.Append(ctx, peer.UID, owner); err != nil {
			d.logger.Warn("symmetry repair failed", "peer", peer.UID, "err", err)
			continue
		}
		d.logger.Info("repaired one-sided friend relation", "owner", owner.UID, "peer", peer.UID)
	}
}

func (d *FriendDirectory) AddFriend(ctx context.Context, target model.Principal) error {
	owner := d.session.Current()
	if owner == nil {
		return errors.ErrNotSignedIn
	}
	if target.IsZero() {
		return errors.ErrInvalidPeer
	}

	d.mu.Lock()
	d.adding = target.UID
	alreadyFriend := containsUID(d.friends, target.UID)
	d.mu.Unlock()
	defer d.clearAdding()

	if alreadyFriend {
		// No duplicate entry; still open the conversation.
		d.logger.Info("already friends, opening chat", "target", target.UID)
		return d.selection.SelectPeer(*owner, target)
	}

	if err := d.repo.Append(ctx, owner.UID, target); err != nil {
		d.logger.Error("error adding friend", "owner", owner.UID, "target", target.UID, "err", err)
		return errors.ErrBackendWrite(err)
	}

	// Reverse entry is best-effort; the load-time repair pass closes the
	// gap if this write fails.
	if err := d.repo.Append(ctx, target.UID, *owner); err != nil {
		d.logger.Warn("reverse friend write failed", "owner", owner.UID, "target", target.UID, "err", err)
	}

	d.mu.Lock()
	d.friends = append(d.friends, target)
	d.mu.Unlock()

	return d.selection.SelectPeer(*owner, target)
}

func (d *FriendDirectory) RequestRemoval(target model.Principal) error {
	if target.IsZero() {
		return errors.ErrInvalidPeer
	}
	d.mu.Lock()
	snapshot := target
	d.pending = &snapshot
	d.mu.Unlock()
	return nil
}

func (d *FriendDirectory) ConfirmRemoval(ctx context.Context) error {
	d.mu.Lock()
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()
	if pending == nil {
		return errors.ErrNoPendingRemoval
	}

	owner := d.session.Current()
	if owner == nil {
		return errors.ErrNotSignedIn
	}

	// Two independent writes; chat history is deliberately untouched.
	ownList, err := d.repo.Load(ctx, owner.UID)
	if err != nil {
		d.logger.Error("error loading friends for removal", "owner", owner.UID, "err", err)
		return errors.ErrBackendRead(err)
	}
	if err := d.repo.Replace(ctx, owner.UID, withoutUID(ownList, pending.UID)); err != nil {
		d.logger.Error("error removing friend", "owner", owner.UID, "target", pending.UID, "err", err)
		return errors.ErrBackendWrite(err)
	}

	if peerList, err := d.repo.Load(ctx, pending.UID); err != nil {
		d.logger.Warn("reverse removal read failed", "target", pending.UID, "err", err)
	} else if err := d.repo.Replace(ctx, pending.UID, withoutUID(peerList, owner.UID)); err != nil {
		d.logger.Warn("reverse removal write failed", "target", pending.UID, "err", err)
	}

	d.mu.Lock()
	d.friends = withoutUID(d.friends, pending.UID)
	d.mu.Unlock()

	// Leaving the removed friend as the active chat partner would strand
	// the conversation view.
	if d.selection.Peer().UID == pending.UID {
		d.selection.Reset()
	}
	return nil
}

func (d *FriendDirectory) CancelRemoval() {
	d.mu.Lock()
	d.pending = nil
	d.mu.Unlock()
}

func (d *FriendDirectory) PendingRemoval() *model.Principal {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == nil {
		return nil
	}
	snapshot := *d.pending
	return &snapshot
}

func (d *FriendDirectory) IsFriend(uid string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return containsUID(d.friends, uid)
}

func (d *FriendDirectory) Friends() []model.Principal {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.Principal(nil), d.friends...)
}

func (d *FriendDirectory) AddingFriend() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.adding
}

func (d *FriendDirectory) clearAdding() {
	d.mu.Lock()
	d.adding = ""
	d.mu.Unlock()
}

func containsUID(list []model.Principal, uid string) bool {
	for _, p := range list {
		if p.UID == uid {
			return true
		}
	}
	return false
}

func withoutUID(list []model.Principal, uid string) []model.Principal {
	out := make([]model.Principal, 0, len(list))
	for _, p := range list {
		if p.UID != uid {
			out = append(out, p)
		}
	}
	return out
}
