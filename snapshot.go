package backdrop

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ParticleRecord is one CSV row of a particle snapshot.
type ParticleRecord struct {
	Index   int     `csv:"index"`
	X       float64 `csv:"x"`
	Y       float64 `csv:"y"`
	VX      float64 `csv:"vx"`
	VY      float64 `csv:"vy"`
	Age     int     `csv:"age"`
	MaxLife int     `csv:"max_life"`
	Trail   int     `csv:"trail"`
}

// Records converts particles to snapshot rows.
func Records(particles []Particle) []ParticleRecord {
	out := make([]ParticleRecord, len(particles))
	for i := range particles {
		p := &particles[i]
		out[i] = ParticleRecord{
			Index:   i,
			X:       p.Pos.X,
			Y:       p.Pos.Y,
			VX:      p.Vel.X,
			VY:      p.Vel.Y,
			Age:     p.Age,
			MaxLife: p.MaxLife,
			Trail:   p.Trail.Len(),
		}
	}
	return out
}

// WriteSnapshotCSV writes particles as CSV with a header row.
func WriteSnapshotCSV(w io.Writer, particles []Particle) error {
	records := Records(particles)
	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// ReadSnapshotCSV parses a snapshot written by WriteSnapshotCSV.
func ReadSnapshotCSV(r io.Reader) ([]ParticleRecord, error) {
	var records []ParticleRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return records, nil
}

// Summary holds aggregate statistics of a particle set.
type Summary struct {
	Count     int
	MeanSpeed float64
	StdSpeed  float64
	MaxSpeed  float64
	MeanAge   float64
	Outside   int // particles outside the bounds passed to Summarize
}

// Summarize computes speed and age statistics over particles.
func Summarize(particles []Particle, bounds Rect) Summary {
	s := Summary{Count: len(particles)}
	if len(particles) == 0 {
		return s
	}
	speeds := make([]float64, len(particles))
	ages := make([]float64, len(particles))
	for i := range particles {
		p := &particles[i]
		speeds[i] = p.Speed()
		ages[i] = float64(p.Age)
		if !bounds.Contains(p.Pos.X, p.Pos.Y) {
			s.Outside++
		}
	}
	s.MeanSpeed, s.StdSpeed = stat.MeanStdDev(speeds, nil)
	s.MaxSpeed = floats.Max(speeds)
	s.MeanAge = stat.Mean(ages, nil)
	return s
}

// String formats the summary for terminal output.
func (s Summary) String() string {
	return fmt.Sprintf("particles=%d speed mean=%.3f sd=%.3f max=%.3f age mean=%.1f outside=%d",
		s.Count, s.MeanSpeed, s.StdSpeed, s.MaxSpeed, s.MeanAge, s.Outside)
}
