package backdrop

import (
	"time"

	"go.uber.org/zap"
)

// debugLogInterval is how many frames are aggregated per debug log line.
const debugLogInterval = 120

// frameStats accumulates per-frame timing. Only populated in debug mode.
type frameStats struct {
	updateTime time.Duration
	drawTime   time.Duration
	frames     int
}

// timedFrame runs one frame while measuring update and draw time, logging
// averages every debugLogInterval frames.
func (l *Layer) timedFrame(f Frame) {
	t0 := time.Now()
	l.effect.Update(f)
	t1 := time.Now()
	l.effect.Draw(l.surface)
	l.stats.updateTime += t1.Sub(t0)
	l.stats.drawTime += time.Since(t1)
	l.stats.frames++

	if l.stats.frames < debugLogInterval {
		return
	}
	n := time.Duration(l.stats.frames)
	l.log.Debug("frame stats",
		zap.String("effect", l.effect.Name()),
		zap.Uint64("tick", f.Tick),
		zap.Duration("update_avg", l.stats.updateTime/n),
		zap.Duration("draw_avg", l.stats.drawTime/n),
	)
	if rs, ok := l.surface.(*RecordSurface); ok {
		st := rs.Stats()
		l.log.Debug("surface ops",
			zap.Int("lines", st.Lines), zap.Int("circles", st.Circles),
			zap.Int("polygons", st.Polygons), zap.Int("rects", st.Rects))
	}
	l.stats = frameStats{}
}
