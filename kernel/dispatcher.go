package kernel

import (
	"github.com/r3nner/TrabalhoSO/emu/device"
	"github.com/r3nner/TrabalhoSO/process"
)

// OnTrap is the kernel's single entry point, bound to the CPU at reset and
// invoked on every trap with the reason in irq. It saves the running
// process's context, dispatches on irq, sweeps completed I/O, lets the
// scheduler pick the next process, and restores its context — or returns
// Halt if nothing is runnable.
func (k *Kernel) OnTrap(irq device.IRQ) device.ResumeDecision {
	k.Metrics.RecordIRQ(irq)

	if now, err := k.IO.ReadRegister(device.ClockInstr); err == nil {
		k.now = int(now)
	} else {
		k.fatal = true
		return device.Halt
	}

	if running, ok := k.Table.Running(); ok {
		if err := k.saveContext(running); err != nil {
			k.fatal = true
			return device.Halt
		}
	}

	switch irq {
	case device.IRQReset:
		k.handleReset()
	case device.IRQSyscall:
		k.dispatchSyscall()
	case device.IRQCPUError:
		k.handleCPUError()
	case device.IRQClock:
		k.handleClock()
	default:
		k.fatal = true
	}

	if k.fatal {
		return device.Halt
	}

	k.sweepPendingIO()

	if k.mustPreempt {
		if running, ok := k.Table.Running(); ok {
			_ = running
			k.Metrics.RecordPreempt()
		}
	}
	k.Sched.Select(k.Table, &k.mustPreempt, k.now)

	if running, ok := k.Table.Running(); ok {
		if err := k.restoreContext(running); err != nil {
			k.fatal = true
			return device.Halt
		}
		return device.Resume
	}
	return device.Halt
}

func (k *Kernel) saveContext(pcb *process.PCB) error {
	a, err := k.CPU.GetWord(device.AddrA)
	if err != nil {
		return err
	}
	pc, err := k.CPU.GetWord(device.AddrPC)
	if err != nil {
		return err
	}
	x, err := k.CPU.GetWord(device.AddrX)
	if err != nil {
		return err
	}
	e, err := k.CPU.GetWord(device.AddrErr)
	if err != nil {
		return err
	}
	pcb.Ctx = process.CPUContext{PC: int(pc), A: int(a), X: int(x), Err: int(e)}
	return nil
}

func (k *Kernel) restoreContext(pcb *process.PCB) error {
	if err := k.CPU.PutWord(device.AddrA, uint32(pcb.Ctx.A)); err != nil {
		return err
	}
	if err := k.CPU.PutWord(device.AddrPC, uint32(pcb.Ctx.PC)); err != nil {
		return err
	}
	if err := k.CPU.PutWord(device.AddrX, uint32(pcb.Ctx.X)); err != nil {
		return err
	}
	if err := k.CPU.PutWord(device.AddrErr, uint32(pcb.Ctx.Err)); err != nil {
		return err
	}
	return nil
}

// handleReset brings up PID 1 from the "init" program: binds itself as
// the trap handler, arms the clock, and spawns the first process.
func (k *Kernel) handleReset() {
	k.CPU.BindTrapHandler(k.OnTrap)
	if err := k.IO.WriteRegister(device.ClockTimer, uint32(k.Cfg.ClockInterval)); err != nil {
		k.fatal = true
		return
	}

	prog, err := k.Loader.Load("init")
	if err != nil {
		k.fatal = true
		return
	}
	if _, err := k.spawnFromProgram(prog); err != nil {
		k.fatal = true
		return
	}
}

// handleCPUError resolves a CPU_ERROR trap: a page fault is serviced by
// the MMU and the faulting instruction retried; anything else is fatal to
// the process that raised it.
func (k *Kernel) handleCPUError() {
	running, ok := k.Table.Running()
	if !ok {
		k.fatal = true
		return
	}

	switch running.Ctx.Err {
	case device.ErrPageFault:
		page := running.Ctx.X
		cost, err := k.Fault.Service(k.tables, running.PID, page, k.now)
		if err != nil {
			k.terminateProcess(running)
			return
		}
		running.ChargeAccumulator += cost
	default:
		k.terminateProcess(running)
	}
}

// handleClock reloads the timer (discounting whatever page-transfer cost
// accumulated since the last reload), clears the pending flag, and
// decrements the running process's quantum, flagging a preemption once it
// is exhausted.
func (k *Kernel) handleClock() {
	running, ok := k.Table.Running()

	reload := k.Cfg.ClockInterval
	if ok {
		reload -= running.ChargeAccumulator
		if reload < 1 {
			reload = 1
		}
		running.ChargeAccumulator = 0
	}

	if err := k.IO.WriteRegister(device.ClockTimer, uint32(reload)); err != nil {
		k.fatal = true
		return
	}
	if err := k.IO.WriteRegister(device.ClockIRQFlag, 0); err != nil {
		k.fatal = true
		return
	}

	if ok {
		running.QuantumRemaining--
		if running.QuantumRemaining <= 0 {
			k.mustPreempt = true
		}
	}
}
