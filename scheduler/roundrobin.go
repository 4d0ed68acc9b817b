package scheduler

import "github.com/r3nner/TrabalhoSO/process"

// RoundRobin dispatches READY processes in a FIFO queue, preempting the
// RUNNING process once its quantum is exhausted. Tie-break is queue
// order; bounded wait is N * quantum ticks by construction.
type RoundRobin struct {
	queue        []int // process slots, FIFO
	quantumTotal int
	idle         idleTracker
}

// NewRoundRobin returns a round-robin scheduler with the given quantum
// (number of clock IRQs per turn).
func NewRoundRobin(quantumTotal int) *RoundRobin {
	return &RoundRobin{quantumTotal: quantumTotal}
}

// Enqueue admits slot to the tail of the ready queue. The kernel calls
// this whenever a PCB transitions into READY (spawn, I/O completion,
// reap-wake) — departures from RUNNING via preemption enqueue themselves
// inside Select.
func (rr *RoundRobin) Enqueue(slot int) {
	rr.queue = append(rr.queue, slot)
}

func (rr *RoundRobin) dequeue() (int, bool) {
	if len(rr.queue) == 0 {
		return 0, false
	}
	slot := rr.queue[0]
	rr.queue = rr.queue[1:]
	return slot, true
}

// Admit enqueues pcb at the tail of the ready queue.
func (rr *RoundRobin) Admit(pcb *process.PCB) {
	rr.Enqueue(pcb.Slot)
}

// OnDeparture is a no-op for round robin: nothing about RR state depends
// on why a process left RUNNING.
func (rr *RoundRobin) OnDeparture(pcb *process.PCB) {}

// Select implements the round-robin entry contract of the component
// design: resolve must_preempt, keep a still-RUNNING process, or dequeue
// the next READY process and arm its quantum.
func (rr *RoundRobin) Select(tbl *process.Table, mustPreempt *bool, now int) {
	if *mustPreempt {
		if running, ok := tbl.Running(); ok {
			running.Metrics.Preemptions++
			tbl.Transition(running, process.Ready, now)
			rr.Enqueue(running.Slot)
		}
		*mustPreempt = false
	}

	if _, ok := tbl.Running(); ok {
		return
	}

	slot, ok := rr.dequeue()
	for ok && tbl.Slot(slot).State != process.Ready {
		slot, ok = rr.dequeue()
	}
	if !ok {
		rr.idle.markIdle(now)
		return
	}
	rr.idle.markBusy(now)

	pcb := tbl.Slot(slot)
	tbl.Transition(pcb, process.Running, now)
	pcb.QuantumRemaining = rr.quantumTotal
}

// IdleTotal returns the accumulated idle ticks.
func (rr *RoundRobin) IdleTotal() int {
	return rr.idle.total
}
