package audio

import (
	"math"

	"github.com/gopxl/beep/v2"
)

// Blast synthesizes an explosion: decaying noise over a falling rumble.
type Blast struct {
	sr       beep.SampleRate
	strength float64
	pos      int
	seed     uint32
}

// NewBlast returns a blast generator. Strength scales loudness and length.
func NewBlast(sr beep.SampleRate, strength float64) *Blast {
	return &Blast{sr: sr, strength: strength, seed: 0x2545f491}
}

func (b *Blast) Stream(samples [][2]float64) (int, bool) {
	decay := 12 - 6*b.strength
	for i := range samples {
		t := float64(b.pos) / float64(b.sr)
		env := math.Exp(-t * decay)

		b.seed ^= b.seed << 13
		b.seed ^= b.seed >> 17
		b.seed ^= b.seed << 5
		noise := float64(b.seed)/float64(math.MaxUint32)*2 - 1

		freq := 90 - 50*math.Min(t*4, 1)
		rumble := math.Sin(2 * math.Pi * freq * t)

		s := b.strength * env * (0.35*noise + 0.4*rumble)
		samples[i][0] = s
		samples[i][1] = s
		b.pos++
	}
	return len(samples), true
}

func (b *Blast) Err() error { return nil }
