package mmu

import (
	"errors"

	"github.com/r3nner/TrabalhoSO/emu/device"
)

// ErrNoDiskSpace is the OOM-equivalent failure: the victim frame's
// contents cannot be evicted because secondary storage has no free run
// of the required size. The caller terminates the faulting process.
var ErrNoDiskSpace = errors.New("mmu: secondary storage exhausted")

// copyPage moves a page-sized run of words from src at srcBase to dst at
// dstBase, used for both eviction (frame -> disk) and page-in (disk ->
// frame); both sides are reached only through device.Memory, so a test
// fake substitutes freely for the real primary/secondary arrays.
func copyPage(dst device.Memory, dstBase int, src device.Memory, srcBase int, pageSize int) error {
	for i := 0; i < pageSize; i++ {
		v, err := src.GetWord(srcBase + i)
		if err != nil {
			return err
		}
		if err := dst.PutWord(dstBase+i, v); err != nil {
			return err
		}
	}
	return nil
}

// zeroPage fills a page-sized run of words with zero, used when a
// faulting page has no backing disk block yet.
func zeroPage(mem device.Memory, base int, pageSize int) error {
	for i := 0; i < pageSize; i++ {
		if err := mem.PutWord(base+i, 0); err != nil {
			return err
		}
	}
	return nil
}

// PageTables looks up a process's page table by pid. The fault handler
// needs this to reach a victim frame's owning process, which may not be
// the faulting process; keeping it as a narrow interface here (instead of
// importing the process package directly) avoids a package cycle, since
// process.Table embeds a *PageTable per PCB.
type PageTables interface {
	Get(pid int) (*PageTable, bool)
}

// FaultHandler resolves page faults: find or make a frame, evict a victim
// if needed (its contents are always written back; the PTE dirty bit is
// not consulted), transfer the faulting page in, and update both page
// tables. Grounded on quadros.c's fault service loop and sec_alloc.c's
// allocation discipline.
type FaultHandler struct {
	Frames       *FrameManager
	Disk         *SecondaryAllocator
	Primary      device.Memory
	Secondary    device.Memory
	PageSize     int
	Replacement  string // "fifo" or "lru"
	TransferCost int    // PAGE_TRANSFER_COST
}

// NewFaultHandler wires a fault handler over the given frame manager,
// secondary allocator and memory collaborators (primary and secondary
// storage, each reached only through device.Memory).
func NewFaultHandler(frames *FrameManager, disk *SecondaryAllocator, primary, secondary device.Memory, pageSize, transferCost int, replacement string) *FaultHandler {
	return &FaultHandler{
		Frames:       frames,
		Disk:         disk,
		Primary:      primary,
		Secondary:    secondary,
		PageSize:     pageSize,
		Replacement:  replacement,
		TransferCost: transferCost,
	}
}

// Service resolves a fault for (pid, page) at simulated tick now. On
// success it returns the simulated instruction cost of whatever transfers
// took place; the caller charges this to the faulting process's
// accumulator, deferred to the next clock-timer reload, and resumes the
// same PC.
func (fh *FaultHandler) Service(tables PageTables, pid, page, now int) (cost int, err error) {
	pt, ok := tables.Get(pid)
	if !ok {
		return 0, errors.New("mmu: unknown pid")
	}

	frame, free := fh.Frames.FindFree()
	if !free {
		var selOK bool
		if fh.Replacement == "fifo" {
			frame, selOK = fh.Frames.SelectVictimFIFO()
		} else {
			frame, selOK = fh.Frames.SelectVictimLRU(fh.ageOf(tables))
		}
		if !selOK {
			return 0, errors.New("mmu: no frame available")
		}

		victimPID, victimPage, occupied := fh.Frames.Owner(frame)
		if occupied {
			vpt, ok := tables.Get(victimPID)
			if !ok {
				return 0, errors.New("mmu: victim owner has no page table")
			}
			ve := vpt.At(victimPage)
			if ve.DiskBlock == NoBlock {
				block := fh.Disk.Alloc(fh.PageSize)
				if block == -1 {
					return 0, ErrNoDiskSpace
				}
				ve.DiskBlock = block
			}
			if err := copyPage(fh.Secondary, ve.DiskBlock, fh.Primary, frame*fh.PageSize, fh.PageSize); err != nil {
				return 0, err
			}
			cost += fh.TransferCost
			ve.Valid = false
			ve.Frame = NoFrame
			fh.Frames.Evict(frame)
		}
	}

	fe := pt.At(page)
	if fe.DiskBlock != NoBlock {
		if err := copyPage(fh.Primary, frame*fh.PageSize, fh.Secondary, fe.DiskBlock, fh.PageSize); err != nil {
			return cost, err
		}
		cost += fh.TransferCost
	} else {
		if err := zeroPage(fh.Primary, frame*fh.PageSize, fh.PageSize); err != nil {
			return cost, err
		}
	}
	fe.Valid = true
	fe.Frame = frame
	fe.LastUse = now

	fh.Frames.Assign(frame, pid, page)
	return cost, nil
}

func (fh *FaultHandler) ageOf(tables PageTables) func(pid, page int) (int, bool) {
	return func(pid, page int) (int, bool) {
		pt, ok := tables.Get(pid)
		if !ok {
			return 0, false
		}
		e, ok := pt.Peek(page)
		if !ok || !e.Valid {
			return 0, false
		}
		return e.LastUse, true
	}
}
