package process

import "testing"

func TestSpawnAssignsMonotonicPIDs(t *testing.T) {
	tbl := NewTable(4)
	p1, ok := tbl.Spawn(0, 100, 2, 0, 4)
	if !ok {
		t.Fatalf("Spawn failed")
	}
	p2, ok := tbl.Spawn(0, 200, 2, 0, 4)
	if !ok {
		t.Fatalf("Spawn failed")
	}
	if p2.PID <= p1.PID {
		t.Fatalf("PID %d not strictly greater than %d", p2.PID, p1.PID)
	}
	if p1.State != Ready || p2.State != Ready {
		t.Fatalf("spawned processes must be READY")
	}
}

func TestSpawnFailsWhenTableFull(t *testing.T) {
	tbl := NewTable(1)
	if _, ok := tbl.Spawn(0, 0, 1, 0, 4); !ok {
		t.Fatalf("first spawn should succeed")
	}
	if _, ok := tbl.Spawn(0, 0, 1, 0, 4); ok {
		t.Fatalf("second spawn should fail: table full")
	}
}

func TestTransitionAccumulatesStateTicks(t *testing.T) {
	tbl := NewTable(2)
	pcb, _ := tbl.Spawn(0, 0, 1, 0, 4)

	tbl.Transition(pcb, Running, 10)
	if pcb.Metrics.StateTicks[Ready] != 10 {
		t.Fatalf("StateTicks[Ready] = %d, want 10", pcb.Metrics.StateTicks[Ready])
	}
	tbl.Transition(pcb, Blocked, 13)
	if pcb.Metrics.StateTicks[Running] != 3 {
		t.Fatalf("StateTicks[Running] = %d, want 3", pcb.Metrics.StateTicks[Running])
	}
	if pcb.Metrics.StateEntries[Blocked] != 1 {
		t.Fatalf("StateEntries[Blocked] = %d, want 1", pcb.Metrics.StateEntries[Blocked])
	}
}

func TestRunningSlotTracksDispatch(t *testing.T) {
	tbl := NewTable(2)
	pcb, _ := tbl.Spawn(0, 0, 1, 0, 4)
	tbl.Transition(pcb, Running, 0)
	if r, ok := tbl.Running(); !ok || r.PID != pcb.PID {
		t.Fatalf("Running() did not return the dispatched process")
	}
	tbl.Transition(pcb, Blocked, 1)
	if _, ok := tbl.Running(); ok {
		t.Fatalf("Running() should report none after block")
	}
}

func TestReapBeforeWait(t *testing.T) {
	tbl := NewTable(2)
	p1, _ := tbl.Spawn(0, 0, 1, 0, 4)
	p2, _ := tbl.Spawn(0, 0, 1, 0, 4)

	tbl.Terminate(p2, 5)
	if p2.State != Terminated {
		t.Fatalf("p2 should be TERMINATED")
	}

	// p1 waits afterwards: no waiter was registered before termination, so
	// the caller must detect the already-TERMINATED target and reap
	// immediately rather than via FindWaiter.
	if _, ok := tbl.FindWaiter(p2.PID); ok {
		t.Fatalf("no waiter should be registered yet")
	}

	tbl.Reap(p2, 10)
	if p2.State != Free {
		t.Fatalf("p2 should be FREE after reap")
	}
	_ = p1
}

func TestFindWaiterSingleWakeup(t *testing.T) {
	tbl := NewTable(3)
	target, _ := tbl.Spawn(0, 0, 1, 0, 4)
	w1, _ := tbl.Spawn(0, 0, 1, 0, 4)
	w2, _ := tbl.Spawn(0, 0, 1, 0, 4)

	tbl.Transition(w1, Blocked, 0)
	w1.BlockReason = WaitPID
	w1.BlockDatum = target.PID
	tbl.Transition(w2, Blocked, 0)
	w2.BlockReason = WaitPID
	w2.BlockDatum = target.PID

	waiter, ok := tbl.FindWaiter(target.PID)
	if !ok || waiter.PID != w1.PID {
		t.Fatalf("FindWaiter should return the lowest-slot waiter (w1)")
	}
}
