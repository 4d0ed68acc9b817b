package mmu

import (
	"testing"

	"github.com/r3nner/TrabalhoSO/emu/memory"
)

type fakeTables struct {
	tables map[int]*PageTable
}

func newFakeTables() *fakeTables {
	return &fakeTables{tables: map[int]*PageTable{}}
}

func (f *fakeTables) Get(pid int) (*PageTable, bool) {
	pt, ok := f.tables[pid]
	return pt, ok
}

func (f *fakeTables) add(pid int, numPages int) *PageTable {
	pt := NewPageTable(numPages)
	f.tables[pid] = pt
	return pt
}

func newHandler(frames, pageSize int) (*FaultHandler, *memory.Primary, *memory.Secondary) {
	fm := NewFrameManager(frames)
	disk := NewSecondaryAllocator(frames * pageSize * 4)
	primary := memory.NewPrimary(frames * pageSize)
	secondary := memory.NewSecondary(frames * pageSize * 4)
	fh := NewFaultHandler(fm, disk, primary, secondary, pageSize, 30, "lru")
	return fh, primary, secondary
}

func TestFaultHandlerZeroFillsNewPage(t *testing.T) {
	fh, _, _ := newHandler(2, 4)
	tables := newFakeTables()
	tables.add(1, 1)

	cost, err := fh.Service(tables, 1, 0, 100)
	if err != nil {
		t.Fatalf("Service: %v", err)
	}
	if cost != 0 {
		t.Fatalf("cost = %d, want 0 for a zero-fill fault", cost)
	}
	pt, _ := tables.Get(1)
	e, _ := pt.Peek(0)
	if !e.Valid || e.Frame == NoFrame {
		t.Fatalf("page 0 not mapped after fault: %+v", e)
	}
}

func TestFaultHandlerEvictsAndRoundTrips(t *testing.T) {
	fh, primary, _ := newHandler(1, 4)
	tables := newFakeTables()
	tables.add(1, 2)

	if _, err := fh.Service(tables, 1, 0, 1); err != nil {
		t.Fatalf("first fault: %v", err)
	}
	pt, _ := tables.Get(1)
	e0, _ := pt.Peek(0)
	base := e0.Frame * fh.PageSize
	primary.PutWord(base, 0xCAFE)

	cost, err := fh.Service(tables, 1, 1, 2)
	if err != nil {
		t.Fatalf("second fault evicting page 0: %v", err)
	}
	if cost != fh.TransferCost {
		t.Fatalf("cost = %d, want %d (one eviction transfer, second page zero-filled)", cost, fh.TransferCost)
	}
	e0, _ = pt.Peek(0)
	if e0.Valid {
		t.Fatalf("page 0 should have been evicted")
	}

	// Re-fault page 0: must come back from disk with the same contents.
	if _, err := fh.Service(tables, 1, 0, 3); err != nil {
		t.Fatalf("refault: %v", err)
	}
	e0, _ = pt.Peek(0)
	v, _ := primary.GetWord(e0.Frame * fh.PageSize)
	if v != 0xCAFE {
		t.Fatalf("round-tripped word = %#x, want 0xcafe", v)
	}
}

func TestFaultHandlerNoDiskSpaceIsProcessFatal(t *testing.T) {
	fm := NewFrameManager(1)
	disk := NewSecondaryAllocator(1) // too small to hold one page
	primary := memory.NewPrimary(4)
	secondary := memory.NewSecondary(4)
	fh := NewFaultHandler(fm, disk, primary, secondary, 4, 30, "fifo")

	tables := newFakeTables()
	tables.add(1, 2)
	if _, err := fh.Service(tables, 1, 0, 1); err != nil {
		t.Fatalf("first fault: %v", err)
	}
	_, err := fh.Service(tables, 1, 1, 2)
	if err != ErrNoDiskSpace {
		t.Fatalf("Service() err = %v, want ErrNoDiskSpace", err)
	}
}
