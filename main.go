/*
 * S370 - Main process.
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

// The simulated CPU's instruction decoding is out of scope for the kernel
// itself; this driver plays that part, feeding the kernel a scripted
// SYS_READ/SYS_WRITE echo loop against a real terminal instead of decoding
// opcodes out of primary memory.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	getopt "github.com/pborman/getopt/v2"
	"golang.org/x/term"

	config "github.com/r3nner/TrabalhoSO/config/kernelconfig"
	"github.com/r3nner/TrabalhoSO/emu/device"
	"github.com/r3nner/TrabalhoSO/emu/memory"
	"github.com/r3nner/TrabalhoSO/kernel"
	"github.com/r3nner/TrabalhoSO/metrics"
	logger "github.com/r3nner/TrabalhoSO/util/logger"
)

// registerCPU is a device.CPU with no instruction execution of its own:
// four addressable register cells and a bound trap handler, driven
// entirely by the scripted loop in main().
type registerCPU struct {
	regs [4]uint32
	trap device.TrapHandler
}

func (c *registerCPU) GetWord(addr int) (uint32, error) {
	if addr < 0 || addr >= len(c.regs) {
		return 0, device.ErrOutOfRange
	}
	return c.regs[addr], nil
}

func (c *registerCPU) PutWord(addr int, value uint32) error {
	if addr < 0 || addr >= len(c.regs) {
		return device.ErrOutOfRange
	}
	c.regs[addr] = value
	return nil
}

func (c *registerCPU) BindTrapHandler(fn device.TrapHandler) {
	c.trap = fn
}

// termRegisters is one terminal's four register cells. scrOk starts set:
// this driver writes screen output straight through to stdout, which
// never blocks.
type termRegisters struct {
	kbdData uint32
	kbdOk   uint32
	scrOk   uint32
}

// consoleIO is the device.IO backing every terminal plus the clock. A
// screen data write is echoed to stdout immediately as a side effect of
// the register write, standing in for a real screen controller.
type consoleIO struct {
	clockInstr int
	clockTimer int
	clockFlag  int
	term       map[int]*termRegisters
	out        *os.File
}

func newConsoleIO(out *os.File) *consoleIO {
	return &consoleIO{term: map[int]*termRegisters{}, out: out}
}

func (c *consoleIO) termFor(base int) *termRegisters {
	t, ok := c.term[base]
	if !ok {
		t = &termRegisters{scrOk: 1}
		c.term[base] = t
	}
	return t
}

func (c *consoleIO) ReadRegister(addr int) (uint32, error) {
	switch addr {
	case device.ClockInstr:
		return uint32(c.clockInstr), nil
	case device.ClockTimer:
		return uint32(c.clockTimer), nil
	case device.ClockIRQFlag:
		return uint32(c.clockFlag), nil
	}
	if addr < 0 {
		return 0, device.ErrOutOfRange
	}
	base := (addr / device.TerminalStride) * device.TerminalStride
	t := c.termFor(base)
	switch addr - base {
	case device.OffKbdData:
		return t.kbdData, nil
	case device.OffKbdOk:
		return t.kbdOk, nil
	case device.OffScrOk:
		return t.scrOk, nil
	}
	return 0, device.ErrOutOfRange
}

func (c *consoleIO) WriteRegister(addr int, value uint32) error {
	switch addr {
	case device.ClockTimer:
		c.clockTimer = int(value)
		return nil
	case device.ClockIRQFlag:
		c.clockFlag = int(value)
		return nil
	}
	if addr < 0 {
		return device.ErrOutOfRange
	}
	base := (addr / device.TerminalStride) * device.TerminalStride
	t := c.termFor(base)
	switch addr - base {
	case device.OffKbdData:
		t.kbdData = value
	case device.OffKbdOk:
		t.kbdOk = value
	case device.OffScrData:
		fmt.Fprintf(c.out, "%c", byte(value))
	case device.OffScrOk:
		t.scrOk = value
	default:
		return device.ErrOutOfRange
	}
	return nil
}

// deliver marks a byte arrived at term's keyboard.
func (c *consoleIO) deliver(term int, b byte) {
	t := c.termFor(term)
	t.kbdData = uint32(b)
	t.kbdOk = 1
}

// acknowledge clears term's ready flag once the kernel has consumed it,
// the way a real keyboard controller drops its ready line on read.
func (c *consoleIO) acknowledge(term int) {
	c.termFor(term).kbdOk = 0
}

// program is a device.Program over a plain word slice.
type program struct {
	start int
	words []uint32
}

func (p *program) Start() int { return p.start }
func (p *program) Size() int  { return len(p.words) }
func (p *program) WordAt(addr int) uint32 {
	if addr < 0 || addr >= len(p.words) {
		return 0
	}
	return p.words[addr]
}

type programLoader struct {
	programs map[string]*program
}

func (l *programLoader) Load(name string) (device.Program, error) {
	p, ok := l.programs[name]
	if !ok {
		return nil, fmt.Errorf("programLoader: unknown program %q", name)
	}
	return p, nil
}

func newProgramLoader() *programLoader {
	return &programLoader{programs: map[string]*program{
		"init": {start: 0, words: make([]uint32, 23)},
	}}
}

func main() {
	optConfig := getopt.StringLong("config", 'c', "kernel.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	cfg, err := config.Load(*optConfig)
	if err != nil {
		cfg = config.Default()
	}

	var logWriter io.Writer
	if *optLogFile != "" {
		if f, err := os.Create(*optLogFile); err == nil {
			logWriter = f
		}
	}
	log := logger.NewKernelLogger(logWriter, false)
	log.Info("kernel booting", "scheduler", cfg.Scheduler, "replacement", cfg.Replacement)

	mem := memory.NewPrimary(cfg.PrimaryWords)
	sec := memory.NewSecondary(cfg.PrimaryWords * cfg.SecondaryFactor)
	cpu := &registerCPU{}
	con := newConsoleIO(os.Stdout)
	loader := newProgramLoader()

	var report bytes.Buffer
	k, err := kernel.New(cpu, mem, sec, con, loader, cfg, log, &report)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}

	var oldState *term.State
	if term.IsTerminal(int(os.Stdin.Fd())) {
		if s, err := term.MakeRaw(int(os.Stdin.Fd())); err == nil {
			oldState = s
		}
	}
	restoreTerminal := func() {
		if oldState != nil {
			_ = term.Restore(int(os.Stdin.Fd()), oldState)
		}
	}
	defer restoreTerminal()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	stdinBytes := make(chan byte, 64)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil || n == 0 {
				close(stdinBytes)
				return
			}
			stdinBytes <- buf[0]
		}
	}()

	k.OnTrap(device.IRQReset)
	pid1, ok := k.Table.Running()
	if !ok {
		log.Error("kernel failed to bring up the init process")
		os.Exit(1)
	}
	log.Info("init process running", "pid", pid1.PID)

	cpu.regs[device.AddrA] = uint32(device.SysRead)
	k.OnTrap(device.IRQSyscall)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

runLoop:
	for {
		select {
		case <-sigChan:
			cpu.regs[device.AddrA] = uint32(device.SysKill)
			cpu.regs[device.AddrX] = 0
			k.OnTrap(device.IRQSyscall)

		case b, more := <-stdinBytes:
			if !more || b == 3 { // EOF, or Ctrl-C bypassing SIGINT under raw mode
				cpu.regs[device.AddrA] = uint32(device.SysKill)
				cpu.regs[device.AddrX] = 0
				k.OnTrap(device.IRQSyscall)
				break
			}

			con.deliver(pid1.Terminal, b)
			con.clockInstr++
			k.OnTrap(device.IRQClock)
			con.acknowledge(pid1.Terminal)

			if running, ok := k.Table.Running(); ok && running.PID == pid1.PID {
				echoed := cpu.regs[device.AddrA]
				cpu.regs[device.AddrA] = uint32(device.SysWrite)
				cpu.regs[device.AddrX] = echoed
				k.OnTrap(device.IRQSyscall)

				cpu.regs[device.AddrA] = uint32(device.SysRead)
				k.OnTrap(device.IRQSyscall)
			}

		case <-ticker.C:
			con.clockInstr++
			k.OnTrap(device.IRQClock)
		}

		if k.ShutdownRequested || k.Fatal() {
			break runLoop
		}
	}

	restoreTerminal()
	fmt.Println()
	fmt.Print(report.String())

	final := metrics.Generate(k.Table, k.Sched.IdleTotal(), con.clockInstr, k.Metrics)
	if err := metrics.RenderStateChart(final, 640, "report.png"); err != nil {
		log.Warn("could not render state chart", "error", err)
	}
}
