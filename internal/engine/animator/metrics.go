package animator

// frameHistorySize is the rolling window used for the average FPS.
const frameHistorySize = 60

// Metrics is the per-frame performance record reported to the host.
type Metrics struct {
	FrameMS    float64
	SkeletalMS float64
	FacialMS   float64
	RenderMS   float64

	Bones        int
	ActiveShapes int

	history []float64
}

// record appends a frame time to the rolling history.
func (m *Metrics) record(frameMS float64) {
	m.history = append(m.history, frameMS)
	if len(m.history) > frameHistorySize {
		m.history = m.history[len(m.history)-frameHistorySize:]
	}
}

// FPS returns the instantaneous frame rate from the last frame time.
func (m Metrics) FPS() float64 {
	if m.FrameMS <= 0 {
		return 0
	}
	return 1000 / m.FrameMS
}

// AverageFPS returns the frame rate over the rolling history window.
func (m Metrics) AverageFPS() float64 {
	if len(m.history) == 0 {
		return 0
	}
	total := 0.0
	for _, ms := range m.history {
		total += ms
	}
	avg := total / float64(len(m.history))
	if avg <= 0 {
		return 0
	}
	return 1000 / avg
}

// HistoryLen returns how many frames the rolling window holds.
func (m Metrics) HistoryLen() int { return len(m.history) }
