// Package settings holds the user-adjustable knobs and persists them as a
// five byte image, one byte per field at a fixed offset.
package settings

import (
	"bytes"
	"os"
	"sync"

	"github.com/pkg/errors"
)

const (
	MaxGain    = 30
	MaxSquelch = 30

	// Size is the length of the persisted image.
	Size = 5
)

// Byte offsets within the persisted image.
const (
	offBrightness = iota
	offGain
	offSquelch
	offPattern
	offDisplayTime
)

// Settings are the knobs read at startup and written back periodically.
type Settings struct {
	Brightness uint8 `json:"brightness"`
	Gain       uint8 `json:"gain"`
	Squelch    uint8 `json:"squelch"`
	Pattern    uint8 `json:"pattern"`
	// DisplayTime is the auto-advance interval in seconds, 0 to disable.
	DisplayTime uint8 `json:"displayTime"`
}

// Default is what a blank store loads as.
func Default() Settings {
	return Settings{Brightness: 128, Gain: 10, Squelch: 3}
}

// Normalize clamps gain and squelch and wraps the pattern into [0,numPatterns).
func (s Settings) Normalize(numPatterns int) Settings {
	s.Gain = min(s.Gain, MaxGain)
	s.Squelch = min(s.Squelch, MaxSquelch)
	if numPatterns > 0 {
		s.Pattern = uint8(int(s.Pattern) % numPatterns)
	}
	return s
}

// MarshalBinary encodes the fixed-offset image.
func (s Settings) MarshalBinary() ([]byte, error) {
	b := make([]byte, Size)
	b[offBrightness] = s.Brightness
	b[offGain] = s.Gain
	b[offSquelch] = s.Squelch
	b[offPattern] = s.Pattern
	b[offDisplayTime] = s.DisplayTime
	return b, nil
}

// UnmarshalBinary decodes the fixed-offset image.
func (s *Settings) UnmarshalBinary(b []byte) error {
	if len(b) < Size {
		return errors.Errorf("settings image is %d bytes, want %d", len(b), Size)
	}
	*s = Settings{
		Brightness:  b[offBrightness],
		Gain:        b[offGain],
		Squelch:     b[offSquelch],
		Pattern:     b[offPattern],
		DisplayTime: b[offDisplayTime],
	}
	return nil
}

// Store persists settings.
type Store interface {
	Load() (Settings, error)
	Save(Settings) error
}

// FileStore keeps the image in a file. Save leaves the file alone when the
// image is unchanged so a periodic full save costs nothing at rest.
type FileStore struct {
	Path string

	mu     sync.Mutex
	writes int
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the image. A missing file yields Default.
func (f *FileStore) Load() (Settings, error) {
	b, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Default(), errors.Wrap(err, "read settings")
	}
	var s Settings
	if err := s.UnmarshalBinary(b); err != nil {
		return Default(), errors.Wrapf(err, "decode %s", f.Path)
	}
	return s, nil
}

// Save writes the image unless the file already holds it.
func (f *FileStore) Save(s Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, _ := s.MarshalBinary()
	if old, err := os.ReadFile(f.Path); err == nil && bytes.Equal(old, b) {
		return nil
	}
	if err := os.WriteFile(f.Path, b, 0o644); err != nil {
		return errors.Wrap(err, "write settings")
	}
	f.writes++
	return nil
}

// Writes counts the saves that reached the file.
func (f *FileStore) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

// MemStore is an in-memory Store with the same skip-identical behaviour.
type MemStore struct {
	mu     sync.Mutex
	image  []byte
	writes int
}

// NewMemStore returns a store preloaded with s.
func NewMemStore(s Settings) *MemStore {
	b, _ := s.MarshalBinary()
	return &MemStore{image: b}
}

func (m *MemStore) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s Settings
	err := s.UnmarshalBinary(m.image)
	return s, err
}

func (m *MemStore) Save(s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, _ := s.MarshalBinary()
	if bytes.Equal(m.image, b) {
		return nil
	}
	m.image = b
	m.writes++
	return nil
}

// Writes counts the saves that changed the image.
func (m *MemStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
