package storage

import "github.com/san-kum/matrixvis/internal/player"

// StatsRecorder collects per-frame statistics from a player.
type StatsRecorder struct {
	stats []FrameStat
}

func NewStatsRecorder() *StatsRecorder {
	return &StatsRecorder{stats: make([]FrameStat, 0)}
}

func (r *StatsRecorder) OnFrame(f player.Frame) {
	cov := 0.0
	if f.Buffer != nil && len(f.Buffer.Pix) > 0 {
		cov = float64(f.Buffer.Lit()) / float64(len(f.Buffer.Pix))
	}
	r.stats = append(r.stats, FrameStat{Frame: f.Index, Time: f.Time, Delta: f.Delta, Coverage: cov})
}

func (r *StatsRecorder) Stats() []FrameStat { return r.stats }
