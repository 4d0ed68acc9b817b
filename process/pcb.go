// Package process implements the process table and PCB state machine: the
// flat, fixed-size arena of process control blocks the kernel dispatches,
// blocks, reaps and spawns into.
//
// Grounded on the original project's processo_t/tabela_processos (so.c),
// reshaped into the teacher's index-addressed, package-level-table idiom.
package process

import "github.com/r3nner/TrabalhoSO/mmu"

// State is one of the five PCB lifecycle states.
type State int

const (
	Free State = iota
	Ready
	Running
	Blocked
	Terminated

	NumStates = 5
)

// String names a state for logging and the final report.
func (s State) String() string {
	switch s {
	case Free:
		return "FREE"
	case Ready:
		return "READY"
	case Running:
		return "RUNNING"
	case Blocked:
		return "BLOCKED"
	case Terminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// BlockReason qualifies why a BLOCKED process is waiting.
type BlockReason int

const (
	NoReason BlockReason = iota
	IORead
	IOWrite
	WaitPID
)

// CPUContext is the saved register set the trap stub writes on entry and
// the dispatcher restores on exit: program counter, accumulator, index
// register, error register.
type CPUContext struct {
	PC  int
	A   int
	X   int
	Err int
}

// Metrics accumulates everything the final report needs: per-state entry
// counts and ticks, creation/termination ticks, preemption count, and
// total ready time for the mean response time calculation.
type Metrics struct {
	CreationTick    int
	TerminationTick int // -1 until the process terminates
	Preemptions     int
	StateEntries    [NumStates]int
	StateTicks      [NumStates]int
	LastChange      int
	TotalReadyTicks int // for mean response time: TotalReadyTicks / StateEntries[Running]
}

// PCB is one process control block.
type PCB struct {
	PID      int
	Slot     int
	Terminal int
	State    State

	Ctx CPUContext

	BlockReason BlockReason
	BlockDatum  int // device base for IO_READ/IO_WRITE, target PID for WAIT_PID
	PendingData int // screen word to write, saved while blocked on IO_WRITE

	Priority         float64
	QuantumRemaining int

	// ChargeAccumulator holds page-transfer cost not yet reflected in the
	// clock timer's next reload, per the deferred-charge design.
	ChargeAccumulator int

	PageTable *mmu.PageTable

	Metrics Metrics
}

// MeanResponseTicks returns the average time spent READY before each
// dispatch to RUNNING, or 0 if the process never ran.
func (p *PCB) MeanResponseTicks() float64 {
	runs := p.Metrics.StateEntries[Running]
	if runs == 0 {
		return 0
	}
	return float64(p.Metrics.TotalReadyTicks) / float64(runs)
}
