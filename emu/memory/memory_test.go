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

package memory

import (
	"testing"

	dev "github.com/r3nner/TrabalhoSO/emu/device"
)

func TestPrimarySize(t *testing.T) {
	m := NewPrimary(128)
	if m.Size() != 128 {
		t.Errorf("Size() = %d, want 128", m.Size())
	}
}

func TestPrimaryCheckAddr(t *testing.T) {
	m := NewPrimary(4)
	cases := []struct {
		addr int
		want bool
	}{
		{0, true},
		{3, true},
		{4, false},
		{-1, false},
	}
	for _, c := range cases {
		if got := m.CheckAddr(c.addr); got != c.want {
			t.Errorf("CheckAddr(%d) = %v, want %v", c.addr, got, c.want)
		}
	}
}

func TestPrimaryPutGetWord(t *testing.T) {
	m := NewPrimary(4)
	if err := m.PutWord(2, 0xdeadbeef); err != nil {
		t.Fatalf("PutWord: %v", err)
	}
	got, err := m.GetWord(2)
	if err != nil {
		t.Fatalf("GetWord: %v", err)
	}
	if got != 0xdeadbeef {
		t.Errorf("GetWord(2) = %#x, want %#x", got, 0xdeadbeef)
	}
}

func TestPrimaryOutOfRange(t *testing.T) {
	m := NewPrimary(4)
	if _, err := m.GetWord(4); err != dev.ErrOutOfRange {
		t.Errorf("GetWord(4) err = %v, want ErrOutOfRange", err)
	}
	if _, err := m.GetWord(-1); err != dev.ErrOutOfRange {
		t.Errorf("GetWord(-1) err = %v, want ErrOutOfRange", err)
	}
	if err := m.PutWord(4, 1); err != dev.ErrOutOfRange {
		t.Errorf("PutWord(4, 1) err = %v, want ErrOutOfRange", err)
	}
}

func TestPrimaryWordsAreIndependent(t *testing.T) {
	m := NewPrimary(4)
	for i := 0; i < 4; i++ {
		if err := m.PutWord(i, uint32(i*10)); err != nil {
			t.Fatalf("PutWord(%d): %v", i, err)
		}
	}
	for i := 0; i < 4; i++ {
		got, err := m.GetWord(i)
		if err != nil {
			t.Fatalf("GetWord(%d): %v", i, err)
		}
		if got != uint32(i*10) {
			t.Errorf("GetWord(%d) = %d, want %d", i, got, i*10)
		}
	}
}

func TestSecondarySize(t *testing.T) {
	s := NewSecondary(64)
	if s.Size() != 64 {
		t.Errorf("Size() = %d, want 64", s.Size())
	}
}

func TestSecondaryCheckAddr(t *testing.T) {
	s := NewSecondary(4)
	cases := []struct {
		addr int
		want bool
	}{
		{0, true},
		{3, true},
		{4, false},
		{-1, false},
	}
	for _, c := range cases {
		if got := s.CheckAddr(c.addr); got != c.want {
			t.Errorf("CheckAddr(%d) = %v, want %v", c.addr, got, c.want)
		}
	}
}

func TestSecondaryPutGetWord(t *testing.T) {
	s := NewSecondary(4)
	if err := s.PutWord(1, 42); err != nil {
		t.Fatalf("PutWord: %v", err)
	}
	got, err := s.GetWord(1)
	if err != nil {
		t.Fatalf("GetWord: %v", err)
	}
	if got != 42 {
		t.Errorf("GetWord(1) = %d, want 42", got)
	}
}

func TestSecondaryOutOfRange(t *testing.T) {
	s := NewSecondary(4)
	if _, err := s.GetWord(4); err != dev.ErrOutOfRange {
		t.Errorf("GetWord(4) err = %v, want ErrOutOfRange", err)
	}
	if err := s.PutWord(-1, 1); err != dev.ErrOutOfRange {
		t.Errorf("PutWord(-1, 1) err = %v, want ErrOutOfRange", err)
	}
}

func TestPrimaryAndSecondaryAreIndependentStores(t *testing.T) {
	primary := NewPrimary(4)
	secondary := NewSecondary(4)

	if err := primary.PutWord(0, 1); err != nil {
		t.Fatalf("primary.PutWord: %v", err)
	}
	if err := secondary.PutWord(0, 2); err != nil {
		t.Fatalf("secondary.PutWord: %v", err)
	}

	got, _ := primary.GetWord(0)
	if got != 1 {
		t.Errorf("primary.GetWord(0) = %d, want 1, secondary write leaked across", got)
	}
	got, _ = secondary.GetWord(0)
	if got != 2 {
		t.Errorf("secondary.GetWord(0) = %d, want 2, primary write leaked across", got)
	}
}
