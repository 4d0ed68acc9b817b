package process

import "github.com/r3nner/TrabalhoSO/mmu"

// Table is the fixed-size process arena: slots are stable and reused,
// PIDs are monotonic handles that are never reused within a run. Cross
// references (waiters, frame owners) use PID rather than slot index, per
// the arena-plus-indices design.
type Table struct {
	slots       []PCB
	nextPID     int
	runningSlot int
}

// NewTable returns an empty table of maxProcesses slots, all FREE.
func NewTable(maxProcesses int) *Table {
	slots := make([]PCB, maxProcesses)
	for i := range slots {
		slots[i] = PCB{Slot: i, State: Free, Metrics: Metrics{TerminationTick: -1}}
	}
	return &Table{slots: slots, nextPID: 1, runningSlot: -1}
}

// Capacity returns the number of process slots.
func (t *Table) Capacity() int {
	return len(t.slots)
}

// NumCreated returns the number of PIDs handed out so far in this run.
func (t *Table) NumCreated() int {
	return t.nextPID - 1
}

// Slot returns the PCB at the given slot index.
func (t *Table) Slot(i int) *PCB {
	return &t.slots[i]
}

// Get finds the live (non-FREE) PCB with the given PID.
func (t *Table) Get(pid int) (*PCB, bool) {
	for i := range t.slots {
		if t.slots[i].State != Free && t.slots[i].PID == pid {
			return &t.slots[i], true
		}
	}
	return nil, false
}

// PageTable looks up any live process's page table by PID, including a
// fault's victim frame owner. It backs mmu.PageTables through the kernel's
// tableAdapter; Table itself does not satisfy that interface, since its
// Get already returns a PCB.
func (t *Table) PageTable(pid int) (*mmu.PageTable, bool) {
	pcb, ok := t.Get(pid)
	if !ok {
		return nil, false
	}
	return pcb.PageTable, true
}

// Running returns the currently RUNNING PCB, if any.
func (t *Table) Running() (*PCB, bool) {
	if t.runningSlot < 0 {
		return nil, false
	}
	return &t.slots[t.runningSlot], true
}

// Ready returns every READY PCB in ascending slot order, the view the
// priority scan walks.
func (t *Table) Ready() []*PCB {
	var out []*PCB
	for i := range t.slots {
		if t.slots[i].State == Ready {
			out = append(out, &t.slots[i])
		}
	}
	return out
}

// FindWaiter returns the first (lowest slot index) PCB BLOCKED on
// WaitPID == targetPID, the single-waiter reap rule.
func (t *Table) FindWaiter(targetPID int) (*PCB, bool) {
	for i := range t.slots {
		pcb := &t.slots[i]
		if pcb.State == Blocked && pcb.BlockReason == WaitPID && pcb.BlockDatum == targetPID {
			return pcb, true
		}
	}
	return nil, false
}

// FreeSlot returns the first FREE slot, if any.
func (t *Table) FreeSlot() (*PCB, bool) {
	for i := range t.slots {
		if t.slots[i].State == Free {
			return &t.slots[i], true
		}
	}
	return nil, false
}

// Transition moves pcb to newState at tick now, folding the time spent in
// the old state into its accumulator and bumping the new state's entry
// count — the only place the per-state entry and tick metrics are
// produced (the preemption count and termination tick are set by the
// scheduler and Terminate).
func (t *Table) Transition(pcb *PCB, newState State, now int) {
	old := pcb.State
	if old != newState {
		elapsed := now - pcb.Metrics.LastChange
		pcb.Metrics.StateTicks[old] += elapsed
		pcb.Metrics.StateEntries[newState]++
		pcb.Metrics.LastChange = now

		if old == Ready {
			pcb.Metrics.TotalReadyTicks += elapsed
		}
	}
	pcb.State = newState

	switch {
	case newState == Running:
		t.runningSlot = pcb.Slot
	case t.runningSlot == pcb.Slot:
		t.runningSlot = -1
	}
}

// Spawn claims a FREE slot, assigns the next PID, builds a fresh page
// table of numPages entries, and leaves the new PCB READY with PC set to
// entry and terminal striped across four terminals by slot, the way the
// source cycles D_TERM_A + (slot%4)*4.
func (t *Table) Spawn(now, entry, numPages, terminalBase, terminalStride int) (*PCB, bool) {
	pcb, ok := t.FreeSlot()
	if !ok {
		return nil, false
	}

	pid := t.nextPID
	t.nextPID++

	*pcb = PCB{
		PID:      pid,
		Slot:     pcb.Slot,
		Terminal: terminalBase + (pcb.Slot%4)*terminalStride,
		State:    Free,
		Ctx:      CPUContext{PC: entry},
		Priority: 0.5,
		Metrics: Metrics{
			CreationTick:    now,
			TerminationTick: -1,
			LastChange:      now,
		},
		PageTable: mmu.NewPageTable(numPages),
	}

	t.Transition(pcb, Ready, now)
	return pcb, true
}

// Terminate transitions pcb straight to TERMINATED, recording the
// termination tick.
func (t *Table) Terminate(pcb *PCB, now int) {
	t.Transition(pcb, Terminated, now)
	pcb.Metrics.TerminationTick = now
}

// Reap transitions a TERMINATED pcb to FREE. The caller is responsible
// for releasing the process's frames and disk blocks through the mmu
// collaborators first; Reap only updates process-table bookkeeping.
func (t *Table) Reap(pcb *PCB, now int) {
	t.Transition(pcb, Free, now)
	pcb.PageTable = nil
}
