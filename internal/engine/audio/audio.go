// Package audio plays the background music loop and impact effects.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"
)

// DefaultSampleRate is the playback sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned when playing before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// Manager owns the speaker, the music stream and the effects mixer.
type Manager struct {
	mu  sync.RWMutex
	log *zap.Logger

	initialized bool
	sampleRate  beep.SampleRate

	musicEnabled  bool
	soundsEnabled bool

	music       beep.StreamSeekCloser
	musicCtrl   *beep.Ctrl
	musicVolume *effects.Volume
	musicName   string
	playing     bool

	masterVolume float64
	musicLevel   float64
	sfxLevel     float64

	impact   []byte
	sfxMixer *beep.Mixer
}

// New creates a manager with music and sounds enabled.
func New(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		log:           log,
		musicEnabled:  true,
		soundsEnabled: true,
		masterVolume:  1.0,
		musicLevel:    0.7,
		sfxLevel:      1.0,
		sfxMixer:      &beep.Mixer{},
	}
}

// Init opens the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	m.sampleRate = DefaultSampleRate
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.sfxMixer)
	m.initialized = true
	return nil
}

// Close stops playback and releases the speaker.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	m.stopMusic()
	speaker.Clear()
	speaker.Close()
	m.initialized = false
}

// SetMusicEnabled turns the music on or off. Turning it off stops the
// current track.
func (m *Manager) SetMusicEnabled(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.musicEnabled = on
	if !on && m.initialized {
		m.stopMusic()
	}
}

// SetSoundsEnabled turns impact effects on or off.
func (m *Manager) SetSoundsEnabled(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.soundsEnabled = on
}

// MusicEnabled reports whether music may play.
func (m *Manager) MusicEnabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.musicEnabled
}

// SoundsEnabled reports whether effects may play.
func (m *Manager) SoundsEnabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.soundsEnabled
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
	m.updateMusicVolume()
}

// SetMusicVolume sets the music volume (0.0 to 1.0).
func (m *Manager) SetMusicVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.musicLevel = clamp(vol, 0, 1)
	m.updateMusicVolume()
}

// SetSFXVolume sets the effects volume (0.0 to 1.0).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxLevel = clamp(vol, 0, 1)
}

// MasterVolume returns the master volume.
func (m *Manager) MasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// MusicVolume returns the music volume.
func (m *Manager) MusicVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.musicLevel
}

// SFXVolume returns the effects volume.
func (m *Manager) SFXVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sfxLevel
}

func (m *Manager) updateMusicVolume() {
	if m.musicVolume == nil {
		return
	}
	vol := m.masterVolume * m.musicLevel
	m.musicVolume.Silent = vol <= 0
	m.musicVolume.Volume = volumeToDb(vol)
}

// volumeToDb maps a linear 0-1 volume onto the base-2 exponent used by
// effects.Volume: 1 is 0, 0.5 is -1.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return math.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PlayMusicFile loops a WAV file as background music.
func (m *Manager) PlayMusicFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading music: %w", err)
	}
	return m.PlayMusic(data, path)
}

// PlayMusic loops WAV data as background music, replacing the current track.
func (m *Manager) PlayMusic(data []byte, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ErrNotInitialized
	}
	if !m.musicEnabled {
		return nil
	}
	m.stopMusic()

	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}

	m.musicCtrl = &beep.Ctrl{Streamer: &loopStreamer{
		streamer:  streamer,
		resampled: m.resample(format.SampleRate, streamer),
	}}
	m.musicVolume = &effects.Volume{Streamer: m.musicCtrl, Base: 2}
	m.updateMusicVolume()

	m.music = streamer
	m.musicName = name
	m.playing = true
	speaker.Play(m.musicVolume)

	m.log.Info("music started", zap.String("track", name))
	return nil
}

func (m *Manager) resample(from beep.SampleRate, s beep.Streamer) beep.Streamer {
	if from == m.sampleRate {
		return s
	}
	return beep.Resample(4, from, m.sampleRate, s)
}

// StopMusic stops the current track.
func (m *Manager) StopMusic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopMusic()
}

func (m *Manager) stopMusic() {
	if m.musicCtrl == nil {
		return
	}
	speaker.Lock()
	m.musicCtrl.Paused = true
	speaker.Unlock()
	speaker.Clear()
	if m.initialized {
		speaker.Play(m.sfxMixer)
	}
	if m.music != nil {
		m.music.Close()
		m.music = nil
	}
	m.musicCtrl = nil
	m.musicVolume = nil
	m.musicName = ""
	m.playing = false
}

// PauseMusic pauses the current track.
func (m *Manager) PauseMusic() {
	m.setPaused(true)
}

// ResumeMusic resumes a paused track.
func (m *Manager) ResumeMusic() {
	m.setPaused(false)
}

func (m *Manager) setPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.musicCtrl == nil {
		return
	}
	speaker.Lock()
	m.musicCtrl.Paused = paused
	speaker.Unlock()
	m.playing = !paused
}

// MusicPlaying reports whether a track is playing.
func (m *Manager) MusicPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.playing
}

// MusicName returns the name of the current track.
func (m *Manager) MusicName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.musicName
}

// LoadImpactFile sets the WAV played by PlayImpact. Without one a
// synthesized blast is used.
func (m *Manager) LoadImpactFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading impact sound: %w", err)
	}
	m.mu.Lock()
	m.impact = data
	m.mu.Unlock()
	return nil
}

// PlayImpact plays the impact effect scaled by strength in [0, 1].
func (m *Manager) PlayImpact(strength float64) error {
	m.mu.RLock()
	data := m.impact
	sr := m.sampleRate
	m.mu.RUnlock()

	if data != nil {
		return m.PlaySFX(data)
	}
	blast := beep.Take(sr.N(400*time.Millisecond), NewBlast(sr, clamp(strength, 0.1, 1)))
	return m.play(blast)
}

// PlaySFX plays WAV data on the effects mixer.
func (m *Manager) PlaySFX(data []byte) error {
	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}
	return m.play(m.resample(format.SampleRate, streamer))
}

func (m *Manager) play(s beep.Streamer) error {
	m.mu.RLock()
	initialized, enabled := m.initialized, m.soundsEnabled
	vol := m.masterVolume * m.sfxLevel
	m.mu.RUnlock()

	if !initialized {
		return ErrNotInitialized
	}
	if !enabled {
		return nil
	}
	speaker.Lock()
	m.sfxMixer.Add(&effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   volumeToDb(vol),
		Silent:   vol <= 0,
	})
	speaker.Unlock()
	return nil
}

// loopStreamer restarts the source whenever it runs dry.
type loopStreamer struct {
	streamer  beep.StreamSeekCloser
	resampled beep.Streamer
}

func (l *loopStreamer) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		n, ok := l.resampled.Stream(samples[filled:])
		filled += n
		if ok {
			continue
		}
		if l.streamer.Len() == 0 {
			return filled, filled > 0
		}
		if err := l.streamer.Seek(0); err != nil {
			return filled, filled > 0
		}
	}
	return filled, true
}

func (l *loopStreamer) Err() error {
	return l.streamer.Err()
}
