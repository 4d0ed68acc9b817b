/*
 * S370 - Kernel/CPU/memory/IO collaborator contracts.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package device holds the narrow contracts the kernel uses to reach the
// simulated CPU, memory, I/O devices and program loader. None of these are
// implemented here: the kernel only ever sees the interfaces below, and a
// host program (or a test) supplies concrete collaborators.
package device

import "errors"

// ErrOutOfRange is returned by a Memory implementation on an out of bounds
// word address.
var ErrOutOfRange = errors.New("device: address out of range")

// ErrNotReady is returned by an IO implementation when the addressed
// register is not ready to transfer (the simulated device is busy).
var ErrNotReady = errors.New("device: not ready")

// Memory is word-addressable read/write with an OK/error result, used both
// for the CPU register cells and for primary memory proper.
type Memory interface {
	GetWord(addr int) (uint32, error)
	PutWord(addr int, value uint32) error
}

// TrapHandler is the CHAMAC-equivalent callback: the kernel's single entry
// point, bound once at reset and invoked by the CPU collaborator on every
// trap with the IRQ identifier as its argument.
type TrapHandler func(irq IRQ) ResumeDecision

// CPU is the simulated processor: its registers are memory-mapped cells
// reachable through Memory, and it lets the kernel register itself as the
// trap handler.
type CPU interface {
	Memory
	BindTrapHandler(fn TrapHandler)
}

// IO is read/write of device registers by integer address.
type IO interface {
	ReadRegister(addr int) (uint32, error)
	WriteRegister(addr int, value uint32) error
}

// Program is a loaded executable image: a load address, a size, and
// word-at-a-time access to its contents.
type Program interface {
	Start() int
	Size() int
	WordAt(addr int) uint32
}

// Loader loads a named program file and hands back a Program; the kernel
// copies it into memory and discards the handle.
type Loader interface {
	Load(name string) (Program, error)
}

// Register cells: fixed memory addresses the CPU stub writes on trap entry
// and the kernel reads/restores on dispatch.
const (
	AddrA   = 0 // Accumulator: syscall id on entry, syscall return on exit.
	AddrPC  = 1 // Program counter.
	AddrErr = 2 // CPU-reported error register.
	AddrX   = 3 // Index register: syscall argument on entry.
)

// IRQ identifies the reason the CPU trapped into the kernel.
type IRQ int

const (
	IRQReset IRQ = iota
	IRQSyscall
	IRQCPUError
	IRQClock
	NIRQ // Number of known IRQ kinds, used to size per-IRQ metric tables.
)

// Name returns the IRQ's display name, used in log messages and the final
// report, mirroring the source's irq_nome.
func (irq IRQ) Name() string {
	switch irq {
	case IRQReset:
		return "RESET"
	case IRQSyscall:
		return "SYSCALL"
	case IRQCPUError:
		return "CPU_ERROR"
	case IRQClock:
		return "CLOCK"
	default:
		return "UNKNOWN"
	}
}

// ResumeDecision is on_trap's return value: whether the trap stub should
// resume a process (RETI) or halt until the next hardware interrupt (PARA).
type ResumeDecision int

const (
	Resume ResumeDecision = 0
	Halt   ResumeDecision = 1
)

// Terminal device register layout: base is the owning terminal's device
// number, offsets locate the keyboard/screen data and ready-status cells.
const (
	OffKbdData = 0
	OffKbdOk   = 1
	OffScrData = 2
	OffScrOk   = 3

	TerminalStride = 4 // Register cells consumed per terminal.
)

// Clock device registers, address-independent of any terminal.
const (
	ClockInstr   = -1 // Monotonic instruction/tick counter (read only).
	ClockTimer   = -2 // Countdown reload (write arms the next CLOCK irq).
	ClockIRQFlag = -3 // Clear-on-write pending-interrupt flag.
)

// Syscall identifiers, placed in reg A by the trapping process.
const (
	SysRead = 1 + iota
	SysWrite
	SysSpawn
	SysKill
	SysWait
)

// CPU-reported error codes, placed in AddrErr alongside a CPU_ERROR trap.
// ErrPageFault is serviceable by the MMU fault handler (the faulting
// virtual page travels in AddrX); any other code is process-fatal.
const (
	ErrNone = iota
	ErrPageFault
	ErrInvalidOp
)
