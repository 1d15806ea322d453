// epak-go: EP-133 K.O. II project pak suite
// Copyright (C) 2024  Yishen Miao
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package epak

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest describes a whole project build in one YAML document: the
// device, the slot, an optional backup to template from, an optional sound
// directory, pad assignments, and the pattern contents.
type Manifest struct {
	DeviceSKU string `yaml:"device_sku"`
	Slot      int    `yaml:"slot"`
	Template  string `yaml:"template,omitempty"`
	Sounds    string `yaml:"sounds,omitempty"`

	Assignments []Assignment               `yaml:"assignments,omitempty"`
	Patterns    map[string]PatternManifest `yaml:"patterns,omitempty"`

	dir string
}

// Assignment maps one pad to a sample number.
type Assignment struct {
	Group  string `yaml:"group"`
	Pad    int    `yaml:"pad"`
	Sample uint16 `yaml:"sample"`
}

// PatternManifest is the per-pattern section of a manifest. Its parts are
// applied in a fixed order: the basic beat shorthand, then the explicit
// events, then a MIDI file import.
type PatternManifest struct {
	Events    []ManifestEvent `yaml:"events,omitempty"`
	BasicBeat *BasicBeat      `yaml:"basicbeat,omitempty"`
	MIDI      string          `yaml:"midi,omitempty"`
}

// ManifestEvent is one explicit trigger.
type ManifestEvent struct {
	Time     int `yaml:"time"`
	Pad      int `yaml:"pad"`
	Velocity int `yaml:"velocity"`
}

// BasicBeat names the pads for the shorthand 4/4 beat.
type BasicBeat struct {
	Kick  int `yaml:"kick"`
	Snare int `yaml:"snare"`
	Hihat int `yaml:"hihat"`
}

// ReadManifest loads a manifest. Relative template, sounds, and MIDI paths
// resolve against the manifest's own directory.
func ReadManifest(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest

	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}

	m.dir = filepath.Dir(path)

	return &m, nil
}

func (m *Manifest) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(m.dir, p)
}

// SoundsDir returns the resolved sound directory, or "" when the manifest
// names none.
func (m *Manifest) SoundsDir() string {
	return m.resolve(m.Sounds)
}

// Project builds the in-memory project the manifest describes.
func (m *Manifest) Project() (*Project, error) {
	p, err := NewProject(m.DeviceSKU, m.Slot)
	if err != nil {
		return nil, err
	}

	for name := range m.Patterns {
		if _, ok := p.patterns[name]; !ok {
			return nil, fmt.Errorf(
				"invalid pattern: %q, must be a01, b01, c01, or d01",
				name,
			)
		}
	}

	if m.Template != "" {
		if err := p.LoadTemplate(m.resolve(m.Template)); err != nil {
			return nil, err
		}
	}

	for _, a := range m.Assignments {
		if err := p.AssignSample(a.Group, a.Pad, a.Sample); err != nil {
			return nil, err
		}
	}

	for _, name := range PatternNames {
		pm, ok := m.Patterns[name]
		if !ok {
			continue
		}

		if pm.BasicBeat != nil {
			err := p.AddBasicBeat(
				name,
				pm.BasicBeat.Kick,
				pm.BasicBeat.Snare,
				pm.BasicBeat.Hihat,
			)
			if err != nil {
				return nil, err
			}
		}

		for _, e := range pm.Events {
			if err := p.AddEvent(name, e.Time, e.Pad, e.Velocity); err != nil {
				return nil, err
			}
		}

		if pm.MIDI != "" {
			if err := p.ImportSMF(name, m.resolve(pm.MIDI), nil); err != nil {
				return nil, err
			}
		}
	}

	return p, nil
}
