// Package kernel wires the process table, scheduler and mmu collaborators
// into the interrupt-driven dispatcher: on_trap, its syscall table, and the
// pending-I/O sweep, the kernel's entire reason for existing.
//
// Grounded on the original project's so.c main dispatch loop, reshaped
// around the narrow device.CPU/Memory/IO/Loader contracts so the same
// Kernel drives both a real terminal/clock harness and a fake one in
// tests.
package kernel

import (
	"io"
	"log/slog"

	"github.com/r3nner/TrabalhoSO/config/kernelconfig"
	"github.com/r3nner/TrabalhoSO/emu/device"
	"github.com/r3nner/TrabalhoSO/metrics"
	"github.com/r3nner/TrabalhoSO/mmu"
	"github.com/r3nner/TrabalhoSO/process"
	"github.com/r3nner/TrabalhoSO/scheduler"
)

// terminalBase is the device address of the first terminal's register
// block; later terminals are struck at terminalBase + slot%4 * TerminalStride.
const terminalBase = 0

// tableAdapter satisfies mmu.PageTables over a *process.Table, whose own
// lookup-by-pid method is named PageTable (Get already means "PCB by pid"
// on Table) — the fault handler only ever sees this narrow view.
type tableAdapter struct{ t *process.Table }

func (a tableAdapter) Get(pid int) (*mmu.PageTable, bool) { return a.t.PageTable(pid) }

// Kernel holds every collaborator and subsystem the dispatcher touches.
type Kernel struct {
	CPU       device.CPU
	Memory    device.Memory
	Secondary device.Memory
	IO        device.IO
	Loader    device.Loader

	Table  *process.Table
	Sched  scheduler.Scheduler
	Frames *mmu.FrameManager
	Disk   *mmu.SecondaryAllocator
	Fault  *mmu.FaultHandler
	tables tableAdapter

	Metrics      *metrics.Metrics
	Log          *slog.Logger
	ReportWriter io.Writer

	Cfg *kernelconfig.Config

	now               int
	mustPreempt       bool
	fatal             bool
	ShutdownRequested bool
}

// New wires a Kernel over the given collaborators and configuration. mem
// is primary memory, reached both by the CPU's register cells and by
// process pages; secondary is the page-eviction backing store sized
// PrimaryWords*SecondaryFactor by convention. report receives the final
// report text when PID 1 terminates.
func New(cpu device.CPU, mem device.Memory, secondary device.Memory, ioDev device.IO, loader device.Loader, cfg *kernelconfig.Config, log *slog.Logger, report io.Writer) (*Kernel, error) {
	numFrames := cfg.PrimaryWords / cfg.PageSize
	frames := mmu.NewFrameManager(numFrames)
	disk := mmu.NewSecondaryAllocator(cfg.PrimaryWords * cfg.SecondaryFactor)
	fault := mmu.NewFaultHandler(frames, disk, mem, secondary, cfg.PageSize, cfg.PageTransferCost, cfg.Replacement)

	sched, err := scheduler.New(cfg.Scheduler, cfg.Quantum)
	if err != nil {
		return nil, err
	}

	tbl := process.NewTable(cfg.MaxProcesses)

	k := &Kernel{
		CPU: cpu, Memory: mem, Secondary: secondary, IO: ioDev, Loader: loader,
		Table: tbl, Sched: sched, Frames: frames, Disk: disk, Fault: fault,
		tables:       tableAdapter{t: tbl},
		Metrics:      metrics.New(),
		Log:          log,
		ReportWriter: report,
		Cfg:          cfg,
	}
	return k, nil
}

// Fatal reports whether the kernel hit an unrecoverable condition (a
// register access failed, an unknown IRQ arrived) and should not be
// driven further.
func (k *Kernel) Fatal() bool {
	return k.fatal
}
