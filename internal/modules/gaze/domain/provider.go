package domain

import (
	"errors"
	"fmt"
	"regexp"
)

type Capability string

const CapabilityGaze Capability = "gaze"

// MinConfidence is the lowest provider confidence that still counts as a
// focused sample.
const MinConfidence = 0.5

var (
	ErrPluginDisabled    = errors.New("plugin is disabled")
	ErrPluginNotFound    = errors.New("plugin not found")
	ErrChecksumMismatch  = errors.New("plugin checksum mismatch")
	ErrCapabilityMissing = errors.New("plugin capability missing")
	ErrPluginTimeout     = errors.New("plugin timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

type Manifest struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Binary       string       `json:"binary"`
	SHA256       string       `json:"sha256"`
	Enabled      bool         `json:"enabled"`
	Capabilities []Capability `json:"capabilities"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("plugin binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("plugin sha256 must be lowercase 64-char hex")
	}
	if len(m.Capabilities) == 0 {
		return fmt.Errorf("plugin capabilities are required")
	}
	seen := map[Capability]struct{}{}
	for _, capability := range m.Capabilities {
		if err := capability.Validate(); err != nil {
			return err
		}
		if _, ok := seen[capability]; ok {
			return fmt.Errorf("duplicate capability: %s", capability)
		}
		seen[capability] = struct{}{}
	}
	return nil
}

func (c Capability) Validate() error {
	switch c {
	case CapabilityGaze:
		return nil
	default:
		return fmt.Errorf("unknown capability: %s", c)
	}
}

func (m Manifest) HasCapability(capability Capability) bool {
	for _, c := range m.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name         string
	Version      string
	Capabilities []Capability
}

// Sample is one gaze estimate. X and Y are normalized to [0,1] within the
// tracked surface.
type Sample struct {
	Frame      int
	Focused    bool
	X          float64
	Y          float64
	Confidence float64
}

func (s Sample) Validate() error {
	if s.Confidence < 0 || s.Confidence > 1 {
		return fmt.Errorf("sample confidence out of range: %v", s.Confidence)
	}
	if s.X < 0 || s.X > 1 || s.Y < 0 || s.Y > 1 {
		return fmt.Errorf("sample position out of range: %v,%v", s.X, s.Y)
	}
	return nil
}

// OnTarget reports whether the provider is confident the player is looking
// at the target.
func (s Sample) OnTarget() bool {
	return s.Focused && s.Confidence >= MinConfidence
}
