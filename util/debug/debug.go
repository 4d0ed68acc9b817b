/*
 * S370 - Log debug data to a file
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

package debug

import (
	"fmt"
	"os"

	config "github.com/r3nner/TrabalhoSO/config/kernelconfig"
)

// Mask bits selecting which kernel subsystem a trace call belongs to; a
// caller ANDs its module's bit against the level enabled at runtime.
const (
	KERNEL = 1 << iota
	SCHED
	MMU
	SYSCALL
)

var logFile *os.File

// Debugf emits a trace line for module if mask&level is nonzero, the same
// gating the 370 simulator uses for its CPU/CHANNEL trace calls.
func Debugf(module string, mask int, level int, format string, a ...interface{}) {
	if (mask & level) != 0 {
		out := logFile
		if out == nil {
			out = os.Stderr
		}
		fmt.Fprintf(out, module+": "+format+"\n", a...)
	}
}

// register a log file creator on initialize, mirroring the teacher's
// DEBUGFILE hook.
func init() {
	config.RegisterFile("DEBUGFILE", create)
}

func create(fileName string, _ []config.Option) error {
	if fileName == "" {
		return nil
	}
	if logFile != nil {
		return fmt.Errorf("debug: can't have more than one debug file, previous: %s", logFile.Name())
	}

	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("debug: unable to create debug file: %s", fileName)
	}

	logFile = file
	return nil
}
