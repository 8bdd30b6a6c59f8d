package tree

import (
	"sync"
	"time"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/arbor/rlang/ast"
	"github.com/dhamidi/arbor/text"
)

var log = commonlog.GetLogger("arbor.tree")

// ParseFunc builds a syntax tree for a snapshot.
type ParseFunc func(snapshot *text.Snapshot) *ast.Root

const (
	// DefaultDamageThreshold is the queued edit volume above which an
	// update pass skips invalidation and reparses outright.
	DefaultDamageThreshold = 2048
	// DefaultDebounce is how long the scheduler waits after the last
	// edit before starting an async pass.
	DefaultDebounce = 100 * time.Millisecond
)

// Tree keeps a syntax tree synchronized with a text buffer. Edits queue
// up and are absorbed lazily, either by a debounced background pass or
// when the owner demands readiness. Background readers borrow the tree
// through read leases; structural mutation happens only under the write
// lease.
//
// Mutating operations hang off the Owner capability returned by New.
// Holding the Tree alone grants the read surface, the listener
// registry, and state queries.
type Tree struct {
	buffer    *text.Buffer
	parse     ParseFunc
	threshold int
	debounce  time.Duration
	lock      *AccessLock
	ready     readyActions

	mu            sync.Mutex
	ownerGen      uint64
	root          *ast.Root
	previous      *ast.Root
	syncedVersion int
	pending       pendingChanges
	listeners     []Listener
	closed        bool

	timer       *time.Timer
	scheduleGen uint64
	processing  bool
	procDone    chan struct{}
}

// Owner is the capability for operations that mutate the tree or
// depend on its exact state. TakeOwnership revokes all earlier tokens;
// using a revoked or zero token panics.
type Owner struct {
	t   *Tree
	gen uint64
}

type Option func(*Tree)

func WithDamageThreshold(n int) Option {
	return func(t *Tree) { t.threshold = n }
}

func WithDebounce(d time.Duration) Option {
	return func(t *Tree) { t.debounce = d }
}

// New attaches a tree to the buffer and returns it with the initial
// owner token. The tree starts empty and not ready; Build or
// EnsureTreeReady performs the first parse.
func New(buffer *text.Buffer, parse ParseFunc, opts ...Option) (*Tree, Owner) {
	t := &Tree{
		buffer:        buffer,
		parse:         parse,
		threshold:     DefaultDamageThreshold,
		debounce:      DefaultDebounce,
		lock:          NewAccessLock(),
		syncedVersion: -1,
		ownerGen:      1,
	}
	for _, opt := range opts {
		opt(t)
	}
	buffer.AddListener(t)
	return t, Owner{t: t, gen: 1}
}

// OnTextChanged queues the edits, marks the tree dirty, and arms the
// debounce timer. Implements text.Listener.
func (t *Tree) OnTextChanged(changes []text.Change, snapshot *text.Snapshot) {
	normalized := Normalize(changes)
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.pending.append(normalized, snapshot.Version())
	t.scheduleLocked(t.debounce)
	t.mu.Unlock()
	t.notifyUpdatesPending(normalized)
}

// IsDirty reports whether edits are queued that the tree has not
// absorbed.
func (t *Tree) IsDirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending.pending()
}

// IsReady reports whether the tree has no queued edits and was built
// against the buffer's current text.
func (t *Tree) IsReady() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readyLocked()
}

func (t *Tree) readyLocked() bool {
	return !t.closed && t.root != nil && !t.pending.pending() &&
		t.syncedVersion == t.buffer.Version()
}

// PendingChanges returns a copy of the queued changes.
func (t *Tree) PendingChanges() []text.Change {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending.flatten()
}

func (t *Tree) Buffer() *text.Buffer { return t.buffer }

// AcquireReadLock grants the identity a read lease and returns the
// current tree. Returns nil when the lease is unavailable or no tree
// has been built; the caller retries later or falls back.
func (t *Tree) AcquireReadLock(id string) *ast.Root {
	if !t.lock.AcquireRead(id) {
		return nil
	}
	t.mu.Lock()
	root := t.root
	t.mu.Unlock()
	if root == nil {
		t.lock.ReleaseRead(id)
		return nil
	}
	return root
}

// ReleaseReadLock drops the identity's lease.
func (t *Tree) ReleaseReadLock(id string) bool {
	return t.lock.ReleaseRead(id)
}

// AcquireWriteLock and ReleaseWriteLock delegate to the access lock for
// callers that replace tree state themselves. Update passes take the
// write lease internally; most callers never need these.
func (t *Tree) AcquireWriteLock() bool { return t.lock.AcquireWrite() }

func (t *Tree) ReleaseWriteLock() bool { return t.lock.ReleaseWrite() }

// InvokeWhenReady runs fn(arg) once the tree next becomes ready, or
// immediately when it already is. Registering the same kind again
// before the tree turns ready replaces the earlier callback. With
// processNow the scheduler starts an async pass right away instead of
// waiting out the debounce.
func (t *Tree) InvokeWhenReady(kind string, fn func(arg any), arg any, processNow bool) {
	if t.IsReady() {
		fn(arg)
		return
	}
	t.ready.set(kind, fn, arg)
	if processNow {
		t.scheduleAsync(0)
	}
	// A pass finishing between the readiness check and the
	// registration would strand the action; catch up here.
	t.fireReadyActions()
}

func (t *Tree) fireReadyActions() {
	if !t.IsReady() || t.ready.empty() {
		return
	}
	for _, a := range t.ready.take() {
		a.fn(a.arg)
	}
}

// TakeOwnership issues a fresh owner token and revokes every earlier
// one.
func (t *Tree) TakeOwnership() Owner {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ownerGen++
	return Owner{t: t, gen: t.ownerGen}
}

func (o Owner) verify() {
	if o.t == nil {
		panic("tree: use of zero Owner")
	}
	o.t.mu.Lock()
	current := o.t.ownerGen
	o.t.mu.Unlock()
	if o.gen != current {
		panic("tree: owner token was revoked by TakeOwnership")
	}
}

func (o Owner) Tree() *Tree {
	o.verify()
	return o.t
}

// Root returns the current tree, which may be stale while edits are
// queued. Prefer EnsureTreeReady when exact positions matter.
func (o Owner) Root() *ast.Root {
	o.verify()
	o.t.mu.Lock()
	defer o.t.mu.Unlock()
	return o.t.root
}

// PreviousRoot returns the tree retired by the last full replacement,
// for approximate queries while the current tree is unavailable.
func (o Owner) PreviousRoot() *ast.Root {
	o.verify()
	o.t.mu.Lock()
	defer o.t.mu.Unlock()
	return o.t.previous
}

// Build discards any schedule and parses the buffer's current text
// unconditionally.
func (o Owner) Build() *ast.Root {
	o.verify()
	t := o.t
	t.cancelScheduled()
	t.notifyUpdatesPending(t.PendingChanges())
	t.buildFull()
	return o.Root()
}

// EnsureTreeReady drains the queue on the calling goroutine, waiting
// out an in-flight async pass, and parses from scratch when draining
// was not enough. On return the tree is ready.
func (o Owner) EnsureTreeReady() *ast.Root {
	o.verify()
	t := o.t
	t.cancelScheduled()
	t.ensureProcessed()
	if !t.IsReady() {
		t.buildFull()
	}
	return o.Root()
}

// ProcessPendingChanges absorbs the queued edits. Async nudges the
// scheduler to run a background pass immediately; otherwise the pass
// runs on the calling goroutine.
func (o Owner) ProcessPendingChanges(async bool) {
	o.verify()
	if async {
		o.t.scheduleAsync(0)
		return
	}
	o.t.processPending()
}

// EnsureProcessingComplete waits out an in-flight async pass and drains
// the queue on the calling goroutine. Unlike EnsureTreeReady it does
// not parse when draining leaves the tree stale.
func (o Owner) EnsureProcessingComplete() {
	o.verify()
	o.t.ensureProcessed()
}

// Cancel discards scheduled asynchronous work without applying it. A
// pass already running is not rolled back.
func (o Owner) Cancel() {
	o.verify()
	o.t.cancelScheduled()
}

// ClearChanges drops the queued edits without applying them. The tree
// stays stale until the next full parse.
func (o Owner) ClearChanges() {
	o.verify()
	t := o.t
	t.cancelScheduled()
	t.mu.Lock()
	t.pending.clear()
	t.mu.Unlock()
}

// Invalidate throws the current tree away wholesale. The retired tree
// becomes the previous-tree fallback when it had content. No reparse
// is triggered; the tree reports not ready until one happens.
func (o Owner) Invalidate() {
	o.verify()
	t := o.t
	var removed []*ast.Node
	t.withWriteLease(func() {
		t.mu.Lock()
		old := t.root
		if old == nil {
			t.mu.Unlock()
			return
		}
		if len(old.Children) > 0 {
			t.previous = old
			removed = old.Children
		}
		t.root = ast.NewRoot(old.Text)
		t.syncedVersion = -1
		t.mu.Unlock()
	})
	t.notifyNodesRemoved(removed)
}

// Close detaches the tree from its buffer and stops the scheduler.
// Listeners hear closing first; an in-flight pass finishes before the
// tree shuts.
func (o Owner) Close() {
	o.verify()
	t := o.t
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.notifyClosing()
	t.buffer.RemoveListener(t)
	t.cancelScheduled()

	t.mu.Lock()
	for t.processing {
		done := t.procDone
		t.mu.Unlock()
		<-done
		t.mu.Lock()
	}
	t.closed = true
	t.pending.clear()
	t.listeners = nil
	t.mu.Unlock()
}

func (t *Tree) buildFull() {
	t.notifyUpdateBegin()
	t.withWriteLease(t.replaceRoot)
	t.notifyUpdateCompleted(UpdateFull)
	t.fireReadyActions()
}
