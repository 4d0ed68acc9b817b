// Package mmu implements the demand-paged virtual memory subsystem: a
// per-process page table, a frame manager with FIFO and LRU replacement,
// a secondary-storage bitmap allocator, and the fault handler that ties
// them together.
//
// Grounded on the original project's quadros.{h,c} (frame manager) and
// sec_alloc.{h,c} (bitmap allocator), reworked into the teacher's
// package-per-concern, small-interface Go idiom.
package mmu

// NoFrame and NoBlock are the PTE's ⊥ sentinels for "not resident" and
// "no backing storage" respectively.
const (
	NoFrame = -1
	NoBlock = -1
)

// PTE is one page table entry: {valid, frame, disk_block, last_use, dirty}.
type PTE struct {
	Valid     bool
	Frame     int
	DiskBlock int
	LastUse   int
	Dirty     bool
}

// PageTable is a per-process mapping from virtual page number to PTE. It
// grows on demand: a fault on a page beyond the current table simply
// extends it, since a process may touch pages (stack/heap growth) beyond
// what SPAWN initially mapped.
type PageTable struct {
	entries []PTE
}

// NewPageTable returns a page table with numPages entries, all invalid
// and unbacked.
func NewPageTable(numPages int) *PageTable {
	pt := &PageTable{}
	pt.Ensure(numPages)
	return pt
}

// Ensure grows the table so that page indices up to numPages-1 are valid
// to address, leaving any newly added entries invalid and unbacked.
func (pt *PageTable) Ensure(numPages int) {
	for len(pt.entries) < numPages {
		pt.entries = append(pt.entries, PTE{Frame: NoFrame, DiskBlock: NoBlock})
	}
}

// NumPages reports the table's current size.
func (pt *PageTable) NumPages() int {
	return len(pt.entries)
}

// At returns a pointer to page's entry, growing the table first if page
// had not yet been touched.
func (pt *PageTable) At(page int) *PTE {
	pt.Ensure(page + 1)
	return &pt.entries[page]
}

// Peek returns page's entry without growing the table; ok is false if
// page has never been touched.
func (pt *PageTable) Peek(page int) (PTE, bool) {
	if page < 0 || page >= len(pt.entries) {
		return PTE{}, false
	}
	return pt.entries[page], true
}

// DiskBlocks returns every disk block this table still owns, for release
// on process teardown.
func (pt *PageTable) DiskBlocks() []int {
	var blocks []int
	for _, e := range pt.entries {
		if e.DiskBlock != NoBlock {
			blocks = append(blocks, e.DiskBlock)
		}
	}
	return blocks
}

// Frames returns every physical frame this table currently maps, for
// reconciliation against the frame manager on teardown.
func (pt *PageTable) Frames() []int {
	var frames []int
	for _, e := range pt.entries {
		if e.Valid && e.Frame != NoFrame {
			frames = append(frames, e.Frame)
		}
	}
	return frames
}
