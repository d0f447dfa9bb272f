package propagate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeProp struct {
	priority int
	events   EventMask
	ran      *[]string
	name     string
}

func (f *fakeProp) Priority() int    { return f.priority }
func (f *fakeProp) Events() EventMask { return f.events }
func (f *fakeProp) Run() error {
	*f.ran = append(*f.ran, f.name)
	return nil
}

func TestHigherPriorityRunsFirst(t *testing.T) {
	var ran []string
	q := NewQueue(8)
	low := &fakeProp{priority: 7, ran: &ran, name: "low"}
	high := &fakeProp{priority: 0, ran: &ran, name: "high"}

	q.Schedule(low)
	q.Schedule(high)
	require.NoError(t, q.Run())

	require.Equal(t, []string{"high", "low"}, ran)
}

func TestScheduleIsIdempotentWhileQueued(t *testing.T) {
	var ran []string
	q := NewQueue(8)
	p := &fakeProp{priority: 0, ran: &ran, name: "p"}

	q.Schedule(p)
	q.Schedule(p) // duplicate, must not double-queue
	require.NoError(t, q.Run())

	require.Equal(t, []string{"p"}, ran)
}

func TestKilledPropagatorIsDroppedSilently(t *testing.T) {
	var ran []string
	q := NewQueue(8)
	p := &fakeProp{priority: 0, ran: &ran, name: "p"}

	q.Schedule(p)
	q.Kill(p)
	require.NoError(t, q.Run())

	require.Empty(t, ran)
}

func TestResurrectAllowsReschedulingAfterKill(t *testing.T) {
	var ran []string
	q := NewQueue(8)
	p := &fakeProp{priority: 0, ran: &ran, name: "p"}

	q.Kill(p)
	q.Resurrect(p)
	q.Schedule(p)
	require.NoError(t, q.Run())

	require.Equal(t, []string{"p"}, ran)
}

func TestAnnihilateSurvivesResurrect(t *testing.T) {
	var ran []string
	q := NewQueue(8)
	p := &fakeProp{priority: 0, ran: &ran, name: "p"}

	q.Annihilate(p)
	q.Resurrect(p) // only undoes Kill, not Annihilate
	q.Schedule(p)
	require.NoError(t, q.Run())

	require.Empty(t, ran)
}

func TestFlushClearsScheduledFlag(t *testing.T) {
	var ran []string
	q := NewQueue(8)
	p := &fakeProp{priority: 0, ran: &ran, name: "p"}

	q.Schedule(p)
	q.Flush()
	require.True(t, q.Empty())

	q.Schedule(p)
	require.NoError(t, q.Run())
	require.Equal(t, []string{"p"}, ran)
}

func TestDelayListRepublishesOnEvent(t *testing.T) {
	var ran []string
	q := NewQueue(8)
	p := &fakeProp{priority: 0, ran: &ran, name: "p"}
	dl := NewDelayList(q)
	dl.Install(p)

	dl.Publish()
	require.NoError(t, q.Run())
	require.Equal(t, []string{"p"}, ran)
}
