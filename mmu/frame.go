package mmu

// frameOwner records which (pid, page) pair a physical frame belongs to.
// pid == -1 means the frame is free.
type frameOwner struct {
	pid  int
	page int
}

// FrameManager tracks residency of physical frames and selects
// replacement victims. The fifo slice holds non-free frame indices in
// insertion order, used directly for FIFO replacement and as the
// candidate set LRU scores by age.
type FrameManager struct {
	owners []frameOwner
	fifo   []int
}

// NewFrameManager returns a manager over numFrames frames, all free.
func NewFrameManager(numFrames int) *FrameManager {
	owners := make([]frameOwner, numFrames)
	for i := range owners {
		owners[i] = frameOwner{pid: -1, page: -1}
	}
	return &FrameManager{owners: owners}
}

// Capacity returns the total number of frames under management.
func (fm *FrameManager) Capacity() int {
	return len(fm.owners)
}

// Count returns the number of currently occupied (non-free) frames.
func (fm *FrameManager) Count() int {
	return len(fm.fifo)
}

// FindFree returns any free frame, if one exists.
func (fm *FrameManager) FindFree() (int, bool) {
	for i, o := range fm.owners {
		if o.pid == -1 {
			return i, true
		}
	}
	return 0, false
}

// SelectVictimFIFO returns the oldest occupied frame, the head of the
// insertion-ordered queue.
func (fm *FrameManager) SelectVictimFIFO() (int, bool) {
	if len(fm.fifo) == 0 {
		return 0, false
	}
	return fm.fifo[0], true
}

// SelectVictimLRU returns the occupied frame whose owning page has the
// smallest age, as reported by ageOf(pid, page). ageOf returning ok=false
// excludes that frame from consideration; if every candidate is excluded,
// SelectVictimLRU falls back to FIFO.
func (fm *FrameManager) SelectVictimLRU(ageOf func(pid, page int) (int, bool)) (int, bool) {
	best := -1
	bestAge := 0
	found := false
	for _, frame := range fm.fifo {
		o := fm.owners[frame]
		age, ok := ageOf(o.pid, o.page)
		if !ok {
			continue
		}
		if !found || age < bestAge {
			best, bestAge, found = frame, age, true
		}
	}
	if !found {
		return fm.SelectVictimFIFO()
	}
	return best, true
}

// Owner reports the (pid, page) pair owning frame, if it is occupied.
func (fm *FrameManager) Owner(frame int) (pid, page int, ok bool) {
	o := fm.owners[frame]
	if o.pid == -1 {
		return 0, 0, false
	}
	return o.pid, o.page, true
}

// Assign records that frame now belongs to (pid, page), appending it to
// the FIFO queue if it was free (reassigning a still-occupied frame keeps
// its existing queue entry rather than adding a second one; an evicted
// frame is free again and goes to the tail).
func (fm *FrameManager) Assign(frame, pid, page int) {
	wasFree := fm.owners[frame].pid == -1
	fm.owners[frame] = frameOwner{pid: pid, page: page}
	if wasFree {
		fm.fifo = append(fm.fifo, frame)
	}
}

// Evict marks frame free and removes it from the FIFO queue.
func (fm *FrameManager) Evict(frame int) {
	fm.removeFIFO(frame)
	fm.owners[frame] = frameOwner{pid: -1, page: -1}
}

// ReleaseAll frees every frame owned by pid, rebuilding the FIFO queue in
// place and preserving the relative order of surviving entries.
func (fm *FrameManager) ReleaseAll(pid int) {
	kept := fm.fifo[:0:0]
	for _, f := range fm.fifo {
		if fm.owners[f].pid == pid {
			fm.owners[f] = frameOwner{pid: -1, page: -1}
			continue
		}
		kept = append(kept, f)
	}
	fm.fifo = kept
}

func (fm *FrameManager) removeFIFO(frame int) {
	for i, f := range fm.fifo {
		if f == frame {
			fm.fifo = append(fm.fifo[:i], fm.fifo[i+1:]...)
			return
		}
	}
}
