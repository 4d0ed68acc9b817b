// Package scheduler implements the two selectable dispatch strategies:
// round robin with quantum preemption and a priority scheduler whose
// priority is recomputed from quantum usage on every departure from
// RUNNING.
//
// Grounded on the original project's so_escalona_rr/so_escalona_prio
// (so.c), reworked into small, independently testable types instead of
// a single switch-dispatched function.
package scheduler

import (
	"fmt"

	"github.com/r3nner/TrabalhoSO/process"
)

// Scheduler is the active dispatch strategy's contract. Both
// implementations honor must_preempt identically: Select clears it after
// acting on it.
type Scheduler interface {
	// Admit is called by the kernel whenever a PCB transitions into
	// READY for a reason other than preemption (spawn, I/O completion,
	// reap-wake). Round robin enqueues it; priority needs no action
	// since its READY cohort is a table scan.
	Admit(pcb *process.PCB)

	// OnDeparture is called by the kernel whenever the RUNNING process
	// leaves that state for a reason Select itself doesn't observe —
	// blocking or terminating. Preemption is handled inside Select.
	OnDeparture(pcb *process.PCB)

	// Select runs the scheduling decision: resolve any pending
	// preemption, then keep the current RUNNING process or dispatch the
	// next one. now is the current simulated tick, used for idle
	// accounting.
	Select(tbl *process.Table, mustPreempt *bool, now int)

	// IdleTotal returns the total simulated ticks spent with no process
	// selected, closed up to the last Select call.
	IdleTotal() int
}

// New builds the scheduler named by kind ("rr" or "priority"), as read
// from kernelconfig.
func New(kind string, quantumTotal int) (Scheduler, error) {
	switch kind {
	case "", "rr", "roundrobin", "round-robin":
		return NewRoundRobin(quantumTotal), nil
	case "priority":
		return NewPriority(quantumTotal), nil
	default:
		return nil, fmt.Errorf("scheduler: unknown kind %q", kind)
	}
}

// idleTracker is the idle-time accounting shared by both schedulers:
// whenever no process is selected, note when idleness began; close the
// interval and add to the total the next time a process is picked.
type idleTracker struct {
	idle      bool
	idleSince int
	total     int
}

func (it *idleTracker) markIdle(now int) {
	if !it.idle {
		it.idle = true
		it.idleSince = now
	}
}

func (it *idleTracker) markBusy(now int) {
	if it.idle {
		it.total += now - it.idleSince
		it.idle = false
	}
}
