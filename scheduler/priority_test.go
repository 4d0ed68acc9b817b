package scheduler

import (
	"testing"

	"github.com/r3nner/TrabalhoSO/process"
)

func TestPrioritySelectsLowestValue(t *testing.T) {
	tbl := process.NewTable(3)
	p1, _ := tbl.Spawn(0, 0, 1, 0, 4)
	p2, _ := tbl.Spawn(0, 0, 1, 0, 4)
	p1.Priority = 0.8
	p2.Priority = 0.2

	prio := NewPriority(3)
	mustPreempt := false
	prio.Select(tbl, &mustPreempt, 0)

	running, ok := tbl.Running()
	if !ok || running.PID != p2.PID {
		t.Fatalf("expected lowest-priority process p2 dispatched")
	}
}

func TestPriorityConvergesForIOBoundProcess(t *testing.T) {
	tbl := process.NewTable(2)
	pcb, _ := tbl.Spawn(0, 0, 1, 0, 4)
	prio := NewPriority(3)

	pcb.QuantumRemaining = 3 // blocks immediately: t_exec = 0
	prio.OnDeparture(pcb)
	if pcb.Priority != 0.25 {
		t.Fatalf("priority after first block = %v, want 0.25", pcb.Priority)
	}
	prio.OnDeparture(pcb)
	if pcb.Priority != 0.125 {
		t.Fatalf("priority after second block = %v, want 0.125", pcb.Priority)
	}
}

func TestPriorityStaysInBounds(t *testing.T) {
	tbl := process.NewTable(2)
	pcb, _ := tbl.Spawn(0, 0, 1, 0, 4)
	prio := NewPriority(3)

	pcb.QuantumRemaining = 0 // t_exec = quantumTotal: full burst used
	prio.OnDeparture(pcb)
	if pcb.Priority < 0 || pcb.Priority > 1 {
		t.Fatalf("priority out of [0,1]: %v", pcb.Priority)
	}
}

func TestPrioritySelectTieBreakLowestSlot(t *testing.T) {
	tbl := process.NewTable(3)
	p1, _ := tbl.Spawn(0, 0, 1, 0, 4)
	p2, _ := tbl.Spawn(0, 0, 1, 0, 4)
	p1.Priority = 0.5
	p2.Priority = 0.5

	prio := NewPriority(3)
	mustPreempt := false
	prio.Select(tbl, &mustPreempt, 0)
	running, _ := tbl.Running()
	if running.Slot != p1.Slot {
		t.Fatalf("tie should break to lowest slot index, got slot %d", running.Slot)
	}
}
