/*
 * S370 - Configuration file parser
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

// Package kernelconfig parses the kernel's own configuration file: a
// trimmed version of the 370 simulator's device config grammar, cut down
// to the kernel's vocabulary (scheduler, replacement, maxprocesses,
// quantum, clockinterval, pagesize, primarywords, secondaryfactor, debug)
// instead of device models and addresses.
package kernelconfig

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// Option is one comma-separated value list attached to a key, kept from
// the device-config grammar for the RegisterFile hook signature; the
// kernel's own parser never builds one and passes the hook a nil list.
type Option struct {
	Name     string
	EqualOpt string
	Value    []string
}

// Config holds every tunable named in the kernel's configuration
// constants. Values left unset by the file keep their Default() values.
type Config struct {
	Scheduler        string // "rr" or "priority"
	Replacement      string // "fifo" or "lru"
	MaxProcesses     int
	Quantum          int
	ClockInterval    int
	PrimaryWords     int
	PageSize         int
	SecondaryFactor  int
	PageTransferCost int
	DebugFile        string
	DebugMask        int
}

// Default returns the configuration constants unchanged from the
// original design: CLOCK_INTERVAL=50, QUANTUM_TOTAL=3, MAX_PROCESSES=64,
// PRIMARY_MEM_SIZE=200, PAGE_SIZE=10, SECONDARY_FACTOR=4,
// PAGE_TRANSFER_COST=30, REPLACEMENT=LRU.
func Default() *Config {
	return &Config{
		Scheduler:        "rr",
		Replacement:      "lru",
		MaxProcesses:     64,
		Quantum:          3,
		ClockInterval:    50,
		PrimaryWords:     200,
		PageSize:         10,
		SecondaryFactor:  4,
		PageTransferCost: 30,
	}
}

var lineNumber int

var fileHooks = map[string]func(fileName string, opts []Option) error{}

// RegisterFile registers a creator for a directive that names a file to
// open, mirroring the debug package's DEBUGFILE hook. Only the DEBUGFILE
// hook is ever consulted, by the "debug" key; other names have no effect.
func RegisterFile(name string, fn func(fileName string, opts []Option) error) {
	fileHooks[strings.ToUpper(name)] = fn
}

// Load reads a configuration file into cfg, starting from Default() and
// overriding whatever the file names. '#' starts a comment; each line is
// either "key value" or "key=value" with a single value; anything after
// the value other than a comment, including a comma-separated list, is
// rejected as trailing text.
func Load(name string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	lineNumber = 0
	reader := bufio.NewReader(file)
	for {
		var err error

		ln := optionLine{}
		ln.line, err = reader.ReadString('\n')
		lineNumber++
		if len(ln.line) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if perr := ln.apply(cfg); perr != nil {
			return nil, perr
		}
	}
	return cfg, nil
}

type optionLine struct {
	line string
	pos  int
}

func (l *optionLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

func (l *optionLine) isEOL() bool {
	return l.pos >= len(l.line) || l.line[l.pos] == '#'
}

func (l *optionLine) getName() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.line) {
		by := l.line[l.pos]
		if unicode.IsLetter(rune(by)) || unicode.IsNumber(rune(by)) {
			l.pos++
			continue
		}
		break
	}
	return strings.ToLower(l.line[start:l.pos])
}

func (l *optionLine) getValue() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.line) {
		by := l.line[l.pos]
		if unicode.IsSpace(rune(by)) || by == '#' || by == ',' {
			break
		}
		l.pos++
	}
	return l.line[start:l.pos]
}

// apply parses one line and merges it into cfg.
func (l *optionLine) apply(cfg *Config) error {
	key := l.getName()
	if key == "" {
		return nil
	}

	l.skipSpace()
	if !l.isEOL() && l.pos < len(l.line) && l.line[l.pos] == '=' {
		l.pos++
	}

	value := l.getValue()
	if !l.isEOL() {
		return fmt.Errorf("kernelconfig: unexpected trailing text, line %d", lineNumber)
	}

	switch key {
	case "scheduler":
		cfg.Scheduler = strings.ToLower(value)
	case "replacement":
		cfg.Replacement = strings.ToLower(value)
	case "maxprocesses":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("kernelconfig: maxprocesses: %w, line %d", err, lineNumber)
		}
		cfg.MaxProcesses = n
	case "quantum":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("kernelconfig: quantum: %w, line %d", err, lineNumber)
		}
		cfg.Quantum = n
	case "clockinterval":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("kernelconfig: clockinterval: %w, line %d", err, lineNumber)
		}
		cfg.ClockInterval = n
	case "pagesize":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("kernelconfig: pagesize: %w, line %d", err, lineNumber)
		}
		cfg.PageSize = n
	case "primarywords":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("kernelconfig: primarywords: %w, line %d", err, lineNumber)
		}
		cfg.PrimaryWords = n
	case "secondaryfactor":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("kernelconfig: secondaryfactor: %w, line %d", err, lineNumber)
		}
		cfg.SecondaryFactor = n
	case "debug":
		cfg.DebugFile = value
		if fn, ok := fileHooks["DEBUGFILE"]; ok {
			if err := fn(value, nil); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("kernelconfig: unknown option %q, line %d", key, lineNumber)
	}
	return nil
}
