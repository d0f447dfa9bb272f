// Package propagate implements the propagator scheduling contract of
// spec.md §4.2: a bounded number of fixed priority buckets (FIFO, not
// a heap — spec.md §9 explicitly calls this out), event masks, delay
// lists, and kill-vs-annihilate lifecycle, cooperating single-
// threaded with the sat engine's Boolean loop.
package propagate

// EventMask is a bitset of the wake conditions a Propagator declares
// (spec.md §4.2): decision-to-true, decision-to-false, argument-
// binding (variable unified with another), or user-defined events.
type EventMask uint32

const (
	EventDecisionTrue  EventMask = 1 << iota
	EventDecisionFalse
	EventArgBind
	EventUserBase // user-defined events start at this bit and above
)

// Propagator is one scheduled unit of work. Run executes it; it may
// itself post constraints, assert literals, add clauses, or fail by
// returning an error, and yields to the queue by returning.
type Propagator interface {
	Priority() int
	Events() EventMask
	Run() error
}

// entry wraps a Propagator with its queue linkage. next doubling as
// the "currently scheduled" flag (spec.md §4.2 "No duplicate
// scheduling... next-pointer doubles as the scheduled flag") is
// modelled here with a scheduled bool plus explicit bucket links,
// since Go has no raw pointer arithmetic to exploit the original's
// trick directly.
type entry struct {
	prop      Propagator
	next      *entry
	scheduled bool
	killed    bool
	annihilated bool
}

// Queue is the fixed 8-bucket (configurable via core.Options)
// propagator scheduler.
type Queue struct {
	buckets []bucket
	cursor  int // highest non-empty bucket we've seen since last pop, for the downward cursor rule
	entries map[Propagator]*entry
	running *entry // the currently-executing propagator, for self-reschedule
}

type bucket struct {
	head, tail *entry
}

func NewQueue(levels int) *Queue {
	if levels <= 0 {
		levels = 8
	}
	return &Queue{
		buckets: make([]bucket, levels),
		entries: make(map[Propagator]*entry),
	}
}

func (q *Queue) entryFor(p Propagator) *entry {
	e, ok := q.entries[p]
	if !ok {
		e = &entry{prop: p}
		q.entries[p] = e
	}
	return e
}

// Schedule appends p to its priority bucket, unless it is already
// scheduled, killed, or annihilated (spec.md §4.2).
func (q *Queue) Schedule(p Propagator) {
	e := q.entryFor(p)
	if e.scheduled || e.killed || e.annihilated {
		return
	}
	e.scheduled = true
	lvl := p.Priority()
	if lvl < 0 {
		lvl = 0
	}
	if lvl >= len(q.buckets) {
		lvl = len(q.buckets) - 1
	}
	b := &q.buckets[lvl]
	if b.tail == nil {
		b.head, b.tail = e, e
	} else {
		b.tail.next = e
		b.tail = e
	}
	if lvl < q.cursor {
		q.cursor = lvl
	}
}

// Pop removes and returns the highest-priority non-empty bucket's head
// entry, silently dropping already-killed propagators; running it is
// the caller's job, and a propagator whose owning constraint has been
// purged is skipped by the caller via Propagator.Run returning nil
// immediately. Returns false when the queue is empty.
func (q *Queue) Pop() (Propagator, bool) {
	for q.cursor < len(q.buckets) {
		b := &q.buckets[q.cursor]
		if b.head == nil {
			q.cursor++
			continue
		}
		e := b.head
		b.head = e.next
		if b.head == nil {
			b.tail = nil
		}
		e.next = nil
		e.scheduled = false
		if e.killed || e.annihilated {
			continue
		}
		q.running = e
		return e.prop, true
	}
	return nil, false
}

// Empty reports whether every bucket is empty.
func (q *Queue) Empty() bool {
	for i := range q.buckets {
		if q.buckets[i].head != nil {
			return false
		}
	}
	return true
}

// Kill marks p dead, reversibly: a trail undo (see core package
// convention used elsewhere) should call Resurrect to undo this.
func (q *Queue) Kill(p Propagator) {
	q.entryFor(p).killed = true
}

// Resurrect undoes a Kill on backtrack.
func (q *Queue) Resurrect(p Propagator) {
	if e, ok := q.entries[p]; ok {
		e.killed = false
	}
}

// Annihilate kills p irreversibly, for one-shot expansions that must
// never re-fire even across backtracking (spec.md §4.2, e.g. the
// domain encoding expansion).
func (q *Queue) Annihilate(p Propagator) {
	q.entryFor(p).annihilated = true
}

// Flush clears every bucket's scheduled flag, invoked on failure so
// backtracked propagators become cleanly schedulable again (spec.md
// §4.2).
func (q *Queue) Flush() {
	for i := range q.buckets {
		for e := q.buckets[i].head; e != nil; {
			next := e.next
			e.next = nil
			e.scheduled = false
			e = next
		}
		q.buckets[i] = bucket{}
	}
	q.cursor = 0
}

// Run drains the queue, running propagators to completion or until
// one fails. A propagator may call Schedule again on itself (self-
// reschedule) since q.running is cleared before Run returns.
func (q *Queue) Run() error {
	for {
		p, ok := q.Pop()
		if !ok {
			return nil
		}
		err := p.Run()
		q.running = nil
		if err != nil {
			return err
		}
	}
}
