package metrics

import (
	"fmt"

	"github.com/fogleman/gg"
)

// colors, one per process.State ordinal (FREE is never drawn).
var stateColor = [NumStatesUsed][3]float64{
	{0.85, 0.85, 0.2},  // READY
	{0.2, 0.75, 0.3},   // RUNNING
	{0.8, 0.3, 0.3},    // BLOCKED
	{0.45, 0.45, 0.45}, // TERMINATED
}

// NumStatesUsed is the number of non-FREE states drawn in the chart:
// process.NumStates minus FREE.
const NumStatesUsed = 4

const (
	barHeight  = 28
	barGap     = 10
	leftMargin = 110
	rightPad   = 40
	topMargin  = 30
)

// RenderStateChart draws a stacked horizontal bar per process, one
// segment per non-FREE state sized proportional to its tick count, and
// saves it as a PNG at path. Grounded on the gg.Context draw-rectangle /
// save-PNG idiom used for the mazboot framebuffer demos.
func RenderStateChart(r Report, width int, path string) error {
	height := topMargin + len(r.Processes)*(barHeight+barGap) + barGap
	if height < topMargin+barHeight+barGap {
		height = topMargin + barHeight + barGap
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawString(fmt.Sprintf("processes=%d idle=%d preemptions=%d", r.NumProcessesCreated, r.IdleTime, r.PreemptionsTotal), 10, 16)

	barWidth := float64(width - leftMargin - rightPad)

	for i, p := range r.Processes {
		y := float64(topMargin + i*(barHeight+barGap))

		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawString(fmt.Sprintf("pid %d", p.PID), 10, y+barHeight/2+4)

		total := 0
		for s := 1; s <= NumStatesUsed; s++ {
			total += p.StateTicks[s]
		}
		if total == 0 {
			continue
		}

		x := float64(leftMargin)
		for s := 1; s <= NumStatesUsed; s++ {
			ticks := p.StateTicks[s]
			if ticks == 0 {
				continue
			}
			w := barWidth * float64(ticks) / float64(total)
			c := stateColor[s-1]
			dc.SetRGB(c[0], c[1], c[2])
			dc.DrawRectangle(x, y, w, barHeight)
			dc.Fill()
			x += w
		}
	}

	return dc.SavePNG(path)
}
