package face

import (
	stdmath "math"
	"strings"
)

// VisemeEvent is one timed mouth shape in a lip sync sequence.
type VisemeEvent struct {
	Shape    ShapeID
	Start    float64
	Duration float64
}

// phonemeShapes maps characters to visemes. A crude leading-character
// approximation, not phoneme analysis.
var phonemeShapes = map[byte]ShapeID{
	'a': VisemeA,
	'e': VisemeE,
	'i': VisemeI,
	'o': VisemeO,
	'u': VisemeU,
	'm': VisemeM,
	'b': VisemeM,
	'p': VisemeM,
	'f': VisemeF,
	'v': VisemeF,
	's': VisemeS,
	'z': VisemeS,
	't': VisemeT,
	'd': VisemeT,
	'n': VisemeT,
	'l': VisemeT,
	'r': VisemeR,
}

const (
	phonemeDuration = 0.15
	wordPause       = 0.1
)

// TokenizeText converts text into a timed viseme sequence. Each mapped
// character contributes one event; words are separated by a short
// pause. speed scales playback: 2 speaks twice as fast.
func TokenizeText(text string, speed float64) []VisemeEvent {
	if speed <= 0 {
		speed = 1
	}

	var seq []VisemeEvent
	now := 0.0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		for i := 0; i < len(word); i++ {
			shape, ok := phonemeShapes[word[i]]
			if !ok {
				continue
			}
			d := phonemeDuration / speed
			seq = append(seq, VisemeEvent{Shape: shape, Start: now, Duration: d})
			now += d
		}
		now += wordPause / speed
	}
	return seq
}

// UpdateVisemes computes the viseme weights active at elapsed seconds
// into the sequence. Every viseme is reset to zero each call; an
// active event contributes sin(progress*pi)*0.8 + 0.2, and overlapping
// events for the same viseme keep the maximum.
func UpdateVisemes(seq []VisemeEvent, elapsed float64) map[ShapeID]float64 {
	weights := make(map[ShapeID]float64, VisemeR-VisemeA+1)
	for id := VisemeA; id <= VisemeR; id++ {
		weights[id] = 0
	}

	for _, ev := range seq {
		if elapsed < ev.Start || elapsed > ev.Start+ev.Duration || ev.Duration <= 0 {
			continue
		}
		progress := (elapsed - ev.Start) / ev.Duration
		w := stdmath.Sin(progress*stdmath.Pi)*0.8 + 0.2
		if w > weights[ev.Shape] {
			weights[ev.Shape] = w
		}
	}
	return weights
}

func sequenceEnd(seq []VisemeEvent) float64 {
	end := 0.0
	for _, ev := range seq {
		if e := ev.Start + ev.Duration; e > end {
			end = e
		}
	}
	return end
}

// Speak starts lip sync for the given text at the given speaking
// speed. An empty sequence (no mappable characters) is a no-op.
func (a *Animator) Speak(text string, speed float64) {
	seq := TokenizeText(text, speed)
	if len(seq) == 0 {
		return
	}
	a.speaking = true
	a.speechStart = a.time
	a.sequence = seq
}

// StopSpeaking ends lip sync and relaxes every viseme.
func (a *Animator) StopSpeaking() {
	a.speaking = false
	a.sequence = nil
	for id := VisemeA; id <= VisemeR; id++ {
		a.shapes[id].TargetWeight = 0
	}
}

// Speaking reports whether a lip sync sequence is running.
func (a *Animator) Speaking() bool { return a.speaking }
