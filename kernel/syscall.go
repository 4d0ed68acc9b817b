package kernel

import (
	"errors"

	"github.com/r3nner/TrabalhoSO/emu/device"
	"github.com/r3nner/TrabalhoSO/metrics"
	"github.com/r3nner/TrabalhoSO/process"
)

// dispatchSyscall routes on the running process's accumulator (the
// syscall id placed there on trap entry) to one of the five handlers in
// section 4.6; an unrecognized id terminates the caller.
func (k *Kernel) dispatchSyscall() {
	running, ok := k.Table.Running()
	if !ok {
		k.fatal = true
		return
	}

	switch running.Ctx.A {
	case device.SysRead:
		k.sysRead(running)
	case device.SysWrite:
		k.sysWrite(running)
	case device.SysSpawn:
		k.sysSpawn(running)
	case device.SysKill:
		k.sysKill(running)
	case device.SysWait:
		k.sysWait(running)
	default:
		k.terminateProcess(running)
	}
}

// sysRead services SYS_READ: if the caller's terminal keyboard is ready
// the character is returned immediately in A, otherwise the caller blocks
// and the pending-I/O sweep completes it later.
func (k *Kernel) sysRead(pcb *process.PCB) {
	ready, err := k.IO.ReadRegister(pcb.Terminal + device.OffKbdOk)
	if err != nil {
		k.terminateProcess(pcb)
		return
	}
	if ready == 0 {
		k.blockRunning(pcb, process.IORead, pcb.Terminal)
		return
	}
	data, err := k.IO.ReadRegister(pcb.Terminal + device.OffKbdData)
	if err != nil {
		k.terminateProcess(pcb)
		return
	}
	pcb.Ctx.A = int(data)
}

// sysWrite services SYS_WRITE: reg X holds the word to print. If the
// screen isn't ready the word is stashed in PendingData and completed by
// the sweep once the device drains.
func (k *Kernel) sysWrite(pcb *process.PCB) {
	ready, err := k.IO.ReadRegister(pcb.Terminal + device.OffScrOk)
	if err != nil {
		k.terminateProcess(pcb)
		return
	}
	if ready == 0 {
		pcb.PendingData = pcb.Ctx.X
		k.blockRunning(pcb, process.IOWrite, pcb.Terminal)
		return
	}
	if err := k.IO.WriteRegister(pcb.Terminal+device.OffScrData, uint32(pcb.Ctx.X)); err != nil {
		k.terminateProcess(pcb)
		return
	}
	pcb.Ctx.A = 0
}

// sysSpawn services SYS_SPAWN: reg X is a virtual address of a
// NUL-terminated program name inside the caller's own address space,
// read fault-tolerantly page by page. Any failure to resolve the name or
// load the program refuses the call with -1 rather than killing the
// caller.
func (k *Kernel) sysSpawn(pcb *process.PCB) {
	name, err := k.readCString(pcb, pcb.Ctx.X)
	if err != nil {
		pcb.Ctx.A = -1
		return
	}

	prog, err := k.Loader.Load(name)
	if err != nil {
		pcb.Ctx.A = -1
		return
	}

	child, err := k.spawnFromProgram(prog)
	if err != nil {
		pcb.Ctx.A = -1
		return
	}
	pcb.Ctx.A = child.PID
}

// sysKill services SYS_KILL: reg X is the target PID, or 0 for self.
// Killing an unknown or already-TERMINATED/FREE target is refused with
// -1; killing PID 1 triggers the final report and shutdown.
func (k *Kernel) sysKill(pcb *process.PCB) {
	targetPID := pcb.Ctx.X
	if targetPID == 0 {
		targetPID = pcb.PID
	}

	target, ok := k.Table.Get(targetPID)
	if !ok || target.State == process.Terminated {
		pcb.Ctx.A = -1
		return
	}

	k.terminateProcess(target)
	pcb.Ctx.A = 0
}

// sysWait services SYS_WAIT: reg X is the PID to reap. Waiting on self,
// an invalid PID, or a PID with no live PCB is refused with -1. A
// TERMINATED target is reaped immediately; otherwise the caller blocks
// until the target terminates (by SYS_KILL or any process-fatal error)
// and terminateProcess wakes it.
func (k *Kernel) sysWait(pcb *process.PCB) {
	targetPID := pcb.Ctx.X
	if targetPID <= 0 || targetPID == pcb.PID {
		pcb.Ctx.A = -1
		return
	}

	target, ok := k.Table.Get(targetPID)
	if !ok {
		pcb.Ctx.A = -1
		return
	}

	if target.State == process.Terminated {
		k.reap(target)
		pcb.Ctx.A = 0
		return
	}

	k.blockRunning(pcb, process.WaitPID, targetPID)
}

// blockRunning moves pcb out of RUNNING for a reason Select itself never
// observes; the scheduler gets its OnDeparture callback first so a
// priority recompute sees the quantum state as it stood at the moment of
// departure.
func (k *Kernel) blockRunning(pcb *process.PCB, reason process.BlockReason, datum int) {
	k.Sched.OnDeparture(pcb)
	k.Table.Transition(pcb, process.Blocked, k.now)
	pcb.BlockReason = reason
	pcb.BlockDatum = datum
}

// terminateProcess transitions target to TERMINATED, wakes its single
// waiter (if any) by reaping it and admitting the waiter back to READY,
// and — if target is PID 1 — emits the final report and requests
// shutdown.
func (k *Kernel) terminateProcess(target *process.PCB) {
	if target.State == process.Running {
		k.Sched.OnDeparture(target)
	}
	k.Table.Terminate(target, k.now)

	if target.PID == 1 {
		report := metrics.Generate(k.Table, k.Sched.IdleTotal(), k.now, k.Metrics)
		if k.ReportWriter != nil {
			report.WriteTo(k.ReportWriter)
		}
		k.ShutdownRequested = true
	}

	if waiter, ok := k.Table.FindWaiter(target.PID); ok {
		k.reap(target)
		waiter.Ctx.A = 0
		k.Table.Transition(waiter, process.Ready, k.now)
		k.Sched.Admit(waiter)
	}
}

// reap releases target's frames and disk blocks before returning its
// slot to FREE; Table.Reap on its own only updates table bookkeeping.
func (k *Kernel) reap(target *process.PCB) {
	k.Frames.ReleaseAll(target.PID)
	for _, block := range target.PageTable.DiskBlocks() {
		k.Disk.Free(block, k.Cfg.PageSize)
	}
	k.Table.Reap(target, k.now)
}

// readCString walks the caller's virtual address space one word at a
// time starting at vaddr, faulting pages in on demand, stopping at the
// first zero word. Used by SYS_SPAWN to resolve the program name
// without requiring it already be resident.
func (k *Kernel) readCString(pcb *process.PCB, vaddr int) (string, error) {
	if vaddr < 0 {
		return "", errors.New("kernel: invalid address")
	}

	var out []byte
	for {
		page := vaddr / k.Cfg.PageSize
		offset := vaddr % k.Cfg.PageSize

		pte, ok := pcb.PageTable.Peek(page)
		if !ok || !pte.Valid {
			if _, err := k.Fault.Service(k.tables, pcb.PID, page, k.now); err != nil {
				return "", err
			}
			pte, _ = pcb.PageTable.Peek(page)
		}

		word, err := k.Memory.GetWord(pte.Frame*k.Cfg.PageSize + offset)
		if err != nil {
			return "", err
		}
		if word == 0 {
			break
		}
		out = append(out, byte(word))
		vaddr++

		if len(out) > 4096 {
			return "", errors.New("kernel: program name too long")
		}
	}
	return string(out), nil
}

// spawnFromProgram admits a freshly loaded program into the process
// table: it is written page by page into secondary storage with no
// frame assigned, so the first touch of each page takes the ordinary
// demand-paging fault rather than an eager copy into primary memory.
func (k *Kernel) spawnFromProgram(prog device.Program) (*process.PCB, error) {
	numPages := (prog.Size() + k.Cfg.PageSize - 1) / k.Cfg.PageSize
	if numPages == 0 {
		numPages = 1
	}

	pcb, ok := k.Table.Spawn(k.now, prog.Start(), numPages, terminalBase, device.TerminalStride)
	if !ok {
		return nil, errors.New("kernel: process table full")
	}

	if err := k.loadProgramPages(pcb, prog, numPages); err != nil {
		return nil, err
	}

	k.Sched.Admit(pcb)
	return pcb, nil
}

func (k *Kernel) loadProgramPages(pcb *process.PCB, prog device.Program, numPages int) error {
	for page := 0; page < numPages; page++ {
		block := k.Disk.Alloc(k.Cfg.PageSize)
		if block == -1 {
			return errors.New("kernel: no disk space to load program")
		}

		for i := 0; i < k.Cfg.PageSize; i++ {
			addr := page*k.Cfg.PageSize + i
			var word uint32
			if addr < prog.Size() {
				word = prog.WordAt(addr)
			}
			if err := k.Secondary.PutWord(block+i, word); err != nil {
				return err
			}
		}

		pte := pcb.PageTable.At(page)
		pte.DiskBlock = block
	}
	return nil
}
