package scheduler

import "github.com/r3nner/TrabalhoSO/process"

// Priority dispatches the READY process with the lowest priority value
// (lower means more favored), recomputed from quantum usage on every
// RUNNING -> not-RUNNING transition. There is no ready queue: the READY
// cohort is a filtered scan of the process table, avoiding a second
// container to keep in sync.
type Priority struct {
	quantumTotal int
	idle         idleTracker
}

// NewPriority returns a priority scheduler with the given quantum
// (used as the denominator of the used-fraction formula).
func NewPriority(quantumTotal int) *Priority {
	return &Priority{quantumTotal: quantumTotal}
}

// Admit is a no-op for priority scheduling: the READY cohort is a table
// scan, so a PCB already in state READY needs no separate admission.
func (p *Priority) Admit(pcb *process.PCB) {}

// OnDeparture recomputes pcb's priority for a block or terminate, the two
// departures Select itself cannot observe.
func (p *Priority) OnDeparture(pcb *process.PCB) {
	p.updatePriority(pcb)
}

// updatePriority applies priority' = (priority + used_frac) / 2, where
// used_frac = (quantum_total - quantum_remaining) / quantum_total,
// clamped so a process that blocks before its first clock tick
// contributes zero rather than a negative fraction. Preserved exactly as
// specified even though this slightly underweights processes that block
// early in a burst.
func (p *Priority) updatePriority(pcb *process.PCB) {
	tExec := p.quantumTotal - pcb.QuantumRemaining
	if tExec < 0 {
		tExec = 0
	}
	usedFrac := float64(tExec) / float64(p.quantumTotal)
	pcb.Priority = (pcb.Priority + usedFrac) / 2
}

// Select resolves any pending preemption (updating priority and
// returning the process to READY), then keeps a still-RUNNING process or
// scans the table for the lowest-priority READY process, tie-broken by
// lowest slot index.
func (p *Priority) Select(tbl *process.Table, mustPreempt *bool, now int) {
	if *mustPreempt {
		if running, ok := tbl.Running(); ok {
			running.Metrics.Preemptions++
			p.updatePriority(running)
			tbl.Transition(running, process.Ready, now)
		}
		*mustPreempt = false
	}

	if _, ok := tbl.Running(); ok {
		return
	}

	ready := tbl.Ready()
	if len(ready) == 0 {
		p.idle.markIdle(now)
		return
	}
	p.idle.markBusy(now)

	best := ready[0]
	for _, candidate := range ready[1:] {
		if candidate.Priority < best.Priority {
			best = candidate
		}
	}

	tbl.Transition(best, process.Running, now)
	best.QuantumRemaining = p.quantumTotal
}

// IdleTotal returns the accumulated idle ticks.
func (p *Priority) IdleTotal() int {
	return p.idle.total
}
