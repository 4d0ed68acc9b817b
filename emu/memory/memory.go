package memory

/*
 * S370  - Low level memory
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

import (
	dev "github.com/r3nner/TrabalhoSO/emu/device"
)

// Primary is the simulated word-addressable primary memory array that
// backs both the CPU register cells and user process pages. Unlike the
// 370 simulator's package-level singleton, each run owns its own Primary
// so that the seed scenarios of spec.md section 8 can stand up independent
// kernels in the same test binary.
type Primary struct {
	words []uint32
	size  int
}

// NewPrimary allocates a primary memory of the given size in words.
func NewPrimary(size int) *Primary {
	return &Primary{words: make([]uint32, size), size: size}
}

// Size returns the memory size in words.
func (m *Primary) Size() int {
	return m.size
}

// CheckAddr reports whether addr is a valid word address.
func (m *Primary) CheckAddr(addr int) bool {
	return addr >= 0 && addr < m.size
}

// GetWord implements device.Memory.
func (m *Primary) GetWord(addr int) (uint32, error) {
	if !m.CheckAddr(addr) {
		return 0, dev.ErrOutOfRange
	}
	return m.words[addr], nil
}

// PutWord implements device.Memory.
func (m *Primary) PutWord(addr int, value uint32) error {
	if !m.CheckAddr(addr) {
		return dev.ErrOutOfRange
	}
	m.words[addr] = value
	return nil
}

// Secondary is the simulated secondary storage word array pages are
// evicted to. Its size is SECONDARY_FACTOR times primary, per
// kernelconfig.Config.
type Secondary struct {
	words []uint32
	size  int
}

// NewSecondary allocates a secondary store of the given size in words.
func NewSecondary(size int) *Secondary {
	return &Secondary{words: make([]uint32, size), size: size}
}

// Size returns the secondary store size in words.
func (s *Secondary) Size() int {
	return s.size
}

// CheckAddr reports whether addr is a valid secondary word address.
func (s *Secondary) CheckAddr(addr int) bool {
	return addr >= 0 && addr < s.size
}

// GetWord implements device.Memory for secondary storage.
func (s *Secondary) GetWord(addr int) (uint32, error) {
	if !s.CheckAddr(addr) {
		return 0, dev.ErrOutOfRange
	}
	return s.words[addr], nil
}

// PutWord implements device.Memory for secondary storage.
func (s *Secondary) PutWord(addr int, value uint32) error {
	if !s.CheckAddr(addr) {
		return dev.ErrOutOfRange
	}
	s.words[addr] = value
	return nil
}
