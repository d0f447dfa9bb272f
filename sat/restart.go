package sat

// restartState drives the Luby-sequence restart schedule of spec.md
// §4.1: "a Luby sequence multiplied by a base factor (default 256
// conflicts)." luby uses the standard 0-indexed doubling algorithm:
// the sequence 1,1,2,1,1,2,4,1,1,2,1,1,2,4,8,... for x=0,1,2,...
type restartState struct {
	base      int64
	index     int64
	conflicts int64
	nextAt    int64
}

func newRestartState(base int64) restartState {
	if base <= 0 {
		base = 256
	}
	r := restartState{base: base}
	r.nextAt = base * luby(0)
	return r
}

func luby(x int64) int64 {
	size, seq := int64(1), int64(0)
	for size < x+1 {
		seq++
		size = 2*size + 1
	}
	for size-1 != x {
		size = (size - 1) / 2
		seq--
		x = x % size
	}
	return 1 << uint(seq)
}

// dueForRestart reports whether the conflict count since the last
// restart has reached the current Luby-scaled threshold.
func (r *restartState) dueForRestart() bool {
	return r.conflicts >= r.nextAt
}

func (r *restartState) recordConflict() { r.conflicts++ }

// advance moves to the next Luby term after a restart fires.
func (r *restartState) advance() {
	r.index++
	r.conflicts = 0
	r.nextAt = r.base * luby(r.index)
}
