package propagate

// DelayList lets a propagator suspend on a variable instead of (or in
// addition to) an event mask: any user-published event against that
// variable re-schedules every propagator on its list (spec.md §4.2).
type DelayList struct {
	q        *Queue
	waiting  []Propagator
}

func NewDelayList(q *Queue) *DelayList { return &DelayList{q: q} }

// Install adds p to the delay list.
func (d *DelayList) Install(p Propagator) {
	d.waiting = append(d.waiting, p)
}

// Publish re-schedules every propagator currently on the list. The
// list itself is not cleared: a propagator may re-install itself
// after waking if it needs to wait again.
func (d *DelayList) Publish() {
	for _, p := range d.waiting {
		d.q.Schedule(p)
	}
}
