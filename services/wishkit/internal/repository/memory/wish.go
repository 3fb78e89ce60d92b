package memory

import (
	"cmp"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/domain"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/repository"
)

type voteKey struct {
	wishID string
	token  string
}

// vote is one optimistic overlay entry. prev is the committed entry it
// replaced, restored on rollback.
type vote struct {
	action    domain.VoteAction
	committed bool
	order     uint64
	prev      *vote
}

// state is immutable once published.
type state struct {
	revision    uint64
	sequence    uint64
	watermark   bool
	baseline    []domain.Wish
	overlay     map[voteKey]vote
	placeholder *domain.Wish

	wishes []domain.Wish
	index  map[string]int

	implemented func() []domain.Wish
	requested   sync.Map // token -> []domain.Wish
}

func newState(revision, sequence uint64, watermark bool, baseline []domain.Wish, overlay map[voteKey]vote, placeholder *domain.Wish) *state {
	s := &state{
		revision:    revision,
		sequence:    sequence,
		watermark:   watermark,
		baseline:    baseline,
		overlay:     overlay,
		placeholder: placeholder,
	}

	s.wishes = slices.Clone(baseline)
	s.index = make(map[string]int, len(s.wishes))
	for i, w := range s.wishes {
		s.index[w.ID] = i
	}

	keys := slices.SortedFunc(maps.Keys(overlay), func(a, b voteKey) int {
		return cmp.Compare(overlay[a].order, overlay[b].order)
	})
	for _, k := range keys {
		if i, ok := s.index[k.wishID]; ok {
			s.wishes[i] = overlay[k].action.Apply(s.wishes[i], domain.Voter{Token: k.token})
		}
	}

	s.implemented = sync.OnceValue(func() []domain.Wish {
		return domain.Partition(s.wishes, domain.IsImplemented)
	})
	return s
}

func (s *state) visible() []domain.Wish {
	if s.placeholder == nil {
		return s.wishes
	}
	return append(slices.Clip(s.wishes), *s.placeholder)
}

func (s *state) wish(id string) (domain.Wish, bool) {
	if i, ok := s.index[id]; ok {
		return s.wishes[i], true
	}
	if s.placeholder != nil && s.placeholder.ID == id {
		return *s.placeholder, true
	}
	return domain.Wish{}, false
}

func (s *state) requestedFor(voter domain.Voter) []domain.Wish {
	if cached, ok := s.requested.Load(voter.Token); ok {
		return cached.([]domain.Wish)
	}
	part := domain.Partition(s.visible(), func(w domain.Wish) bool {
		return domain.IsRequested(w, voter)
	})
	actual, _ := s.requested.LoadOrStore(voter.Token, part)
	return actual.([]domain.Wish)
}

// WishRepository is the in-memory repository.WishRepository. Reads are lock
// free; writers are serialized and publish a new state atomically.
type WishRepository struct {
	current atomic.Pointer[state]

	mu          sync.Mutex
	nextOrder   uint64
	nextSubID   int
	subscribers map[int]chan repository.Change
}

var _ repository.WishRepository = (*WishRepository)(nil)

// NewWishRepository creates an empty repository.
func NewWishRepository() *WishRepository {
	r := &WishRepository{subscribers: make(map[int]chan repository.Change)}
	r.current.Store(newState(0, 0, false, nil, map[voteKey]vote{}, nil))
	return r
}

func (r *WishRepository) load() *state {
	return r.current.Load()
}

// publish must be called with r.mu held.
func (r *WishRepository) publish(next *state, kind repository.ChangeKind, wishID string) {
	r.current.Store(next)
	change := repository.Change{Revision: next.revision, Kind: kind, WishID: wishID}
	for _, ch := range r.subscribers {
		select {
		case ch <- change:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- change:
		default:
		}
	}
}

func (r *WishRepository) ReplaceSnapshot(snapshot domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.load()
	if snapshot.Sequence != 0 && snapshot.Sequence <= cur.sequence {
		return domain.ErrStaleSnapshot
	}

	overlay := make(map[voteKey]vote, len(cur.overlay))
	for k, v := range cur.overlay {
		if v.committed {
			continue
		}
		v.prev = nil
		overlay[k] = v
	}

	sequence := cur.sequence
	if snapshot.Sequence != 0 {
		sequence = snapshot.Sequence
	}

	baseline := snapshot.Clone().Wishes
	r.publish(newState(cur.revision+1, sequence, snapshot.WatermarkVisible, baseline, overlay, cur.placeholder),
		repository.ChangeSnapshot, "")
	return nil
}

func (r *WishRepository) RequestedPartition(voter domain.Voter) []domain.Wish {
	return slices.Clone(r.load().requestedFor(voter))
}

func (r *WishRepository) ImplementedPartition() []domain.Wish {
	return slices.Clone(r.load().implemented())
}

func (r *WishRepository) ApplyOptimisticVote(wishID string, voter domain.Voter, policy domain.VotePolicy) (domain.VoteAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.load()
	// Placeholders are not on the server yet and cannot be voted on.
	var target *domain.Wish
	if i, ok := cur.index[wishID]; ok {
		w := cur.wishes[i]
		target = &w
	}

	action, err := domain.CheckVote(target, voter, policy)
	if err != nil {
		return 0, err
	}

	key := voteKey{wishID: wishID, token: voter.Token}
	existing, has := cur.overlay[key]
	if has && !existing.committed {
		return 0, domain.ErrVoteInFlight
	}

	r.nextOrder++
	entry := vote{action: action, order: r.nextOrder}
	if has {
		prev := existing
		entry.prev = &prev
	}

	overlay := maps.Clone(cur.overlay)
	overlay[key] = entry
	r.publish(newState(cur.revision+1, cur.sequence, cur.watermark, cur.baseline, overlay, cur.placeholder),
		repository.ChangeVote, wishID)
	return action, nil
}

func (r *WishRepository) CommitOptimisticVote(wishID string, voter domain.Voter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.load()
	key := voteKey{wishID: wishID, token: voter.Token}
	entry, ok := cur.overlay[key]
	if !ok || entry.committed {
		return
	}

	entry.committed = true
	entry.prev = nil
	overlay := maps.Clone(cur.overlay)
	overlay[key] = entry

	// The visible list is unchanged, so nothing is announced.
	r.current.Store(newState(cur.revision, cur.sequence, cur.watermark, cur.baseline, overlay, cur.placeholder))
}

func (r *WishRepository) RollbackOptimisticVote(wishID string, voter domain.Voter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.load()
	key := voteKey{wishID: wishID, token: voter.Token}
	entry, ok := cur.overlay[key]
	if !ok || entry.committed {
		return
	}

	overlay := maps.Clone(cur.overlay)
	if entry.prev != nil {
		overlay[key] = *entry.prev
	} else {
		delete(overlay, key)
	}
	r.publish(newState(cur.revision+1, cur.sequence, cur.watermark, cur.baseline, overlay, cur.placeholder),
		repository.ChangeRollback, wishID)
}

func (r *WishRepository) AddPlaceholder(w domain.Wish) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.load()
	placeholder := w.Clone()
	r.publish(newState(cur.revision+1, cur.sequence, cur.watermark, cur.baseline, cur.overlay, &placeholder),
		repository.ChangePlaceholder, w.ID)
}

func (r *WishRepository) RemovePlaceholder(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.load()
	if cur.placeholder == nil || cur.placeholder.ID != id {
		return
	}
	r.publish(newState(cur.revision+1, cur.sequence, cur.watermark, cur.baseline, cur.overlay, nil),
		repository.ChangePlaceholder, id)
}

func (r *WishRepository) Placeholder() (domain.Wish, bool) {
	p := r.load().placeholder
	if p == nil {
		return domain.Wish{}, false
	}
	return p.Clone(), true
}

func (r *WishRepository) Subscribe(buffer int) (<-chan repository.Change, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan repository.Change, buffer)

	r.mu.Lock()
	id := r.nextSubID
	r.nextSubID++
	r.subscribers[id] = ch
	r.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subscribers, id)
			close(ch)
			r.mu.Unlock()
		})
	}
}

func (r *WishRepository) Wish(id string) (domain.Wish, bool) {
	w, ok := r.load().wish(id)
	if !ok {
		return domain.Wish{}, false
	}
	return w.Clone(), true
}

func (r *WishRepository) Watermark() bool {
	return r.load().watermark
}

func (r *WishRepository) Revision() uint64 {
	return r.load().revision
}

// Len is the number of wishes in the visible snapshot, placeholder excluded.
func (r *WishRepository) Len() int {
	return len(r.load().wishes)
}
