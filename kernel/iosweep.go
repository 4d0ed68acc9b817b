package kernel

import (
	"github.com/r3nner/TrabalhoSO/emu/device"
	"github.com/r3nner/TrabalhoSO/process"
)

// sweepPendingIO walks every BLOCKED-on-I/O process in ascending slot
// order and completes whichever device has drained, admitting it back to
// READY. Run once per trap, after the trap-specific handler and before
// the scheduler picks the next process, so an I/O completion in the same
// tick can be dispatched immediately.
func (k *Kernel) sweepPendingIO() {
	for i := 0; i < k.Table.Capacity(); i++ {
		pcb := k.Table.Slot(i)
		if pcb.State != process.Blocked {
			continue
		}

		switch pcb.BlockReason {
		case process.IORead:
			k.sweepRead(pcb)
		case process.IOWrite:
			k.sweepWrite(pcb)
		}
	}
}

func (k *Kernel) sweepRead(pcb *process.PCB) {
	ready, err := k.IO.ReadRegister(pcb.BlockDatum + device.OffKbdOk)
	if err != nil {
		k.terminateProcess(pcb)
		return
	}
	if ready == 0 {
		return
	}

	data, err := k.IO.ReadRegister(pcb.BlockDatum + device.OffKbdData)
	if err != nil {
		k.terminateProcess(pcb)
		return
	}
	pcb.Ctx.A = int(data)
	k.completeIO(pcb)
}

func (k *Kernel) sweepWrite(pcb *process.PCB) {
	ready, err := k.IO.ReadRegister(pcb.BlockDatum + device.OffScrOk)
	if err != nil {
		k.terminateProcess(pcb)
		return
	}
	if ready == 0 {
		return
	}

	if err := k.IO.WriteRegister(pcb.BlockDatum+device.OffScrData, uint32(pcb.PendingData)); err != nil {
		k.terminateProcess(pcb)
		return
	}
	pcb.Ctx.A = 0
	k.completeIO(pcb)
}

func (k *Kernel) completeIO(pcb *process.PCB) {
	pcb.BlockReason = process.NoReason
	k.Table.Transition(pcb, process.Ready, k.now)
	k.Sched.Admit(pcb)
}
