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

import "fmt"

// Groups are the four pad banks on the device.
var Groups = []string{"a", "b", "c", "d"}

// PatternNames are the four pattern slots the builder writes.
var PatternNames = []string{"a01", "b01", "c01", "d01"}

const (
	// NumPads is the number of pads in one group.
	NumPads = 12
	// MinSlot and MaxSlot bound the project slot number.
	MinSlot = 1
	MaxSlot = 9
)

// Conventional pads and velocities for the usual drum roles.
const (
	KickPad  = 10
	SnarePad = 7
	HihatPad = 5

	KickVelocity  = 127
	SnareVelocity = 120
	HihatVelocity = 90
)

// Project is an in-memory EP-133 project: pad to sample assignments, the
// per-pattern event lists, and optional template bytes captured from a
// backup. A Project is not safe for concurrent mutation. Save does not
// modify the Project, so one Project may be saved more than once.
type Project struct {
	DeviceSKU string
	Slot      int

	assignments map[string]map[int]uint16
	patterns    map[string][]Event

	templatePads     map[string]map[int][]byte
	templateSettings []byte
}

// NewProject returns an empty project for the given device serial number
// and project slot.
func NewProject(sku string, slot int) (*Project, error) {
	if slot < MinSlot || slot > MaxSlot {
		return nil, fmt.Errorf(
			"invalid slot: %d, must be %d-%d", slot, MinSlot, MaxSlot,
		)
	}

	p := &Project{
		DeviceSKU:   sku,
		Slot:        slot,
		assignments: make(map[string]map[int]uint16),
		patterns:    make(map[string][]Event),
	}

	for _, g := range Groups {
		p.assignments[g] = make(map[int]uint16)
	}

	for _, n := range PatternNames {
		p.patterns[n] = nil
	}

	return p, nil
}

func validGroup(group string) bool {
	for _, g := range Groups {
		if g == group {
			return true
		}
	}

	return false
}

// AssignSample maps a pad in a group to a sample number. The sample number
// matches the sound file name prefix on the device. Assigning the same pad
// again overwrites the previous assignment.
func (p *Project) AssignSample(group string, pad int, sample uint16) error {
	if !validGroup(group) {
		return fmt.Errorf(
			"invalid group: %q, must be 'a', 'b', 'c', or 'd'", group,
		)
	}

	if pad < 1 || pad > NumPads {
		return fmt.Errorf("invalid pad: %d, must be 1-%d", pad, NumPads)
	}

	p.assignments[group][pad] = sample

	return nil
}

// Sample returns the sample number assigned to a pad, or 0 when the pad is
// unassigned or the group or pad is out of range.
func (p *Project) Sample(group string, pad int) uint16 {
	return p.assignments[group][pad]
}

// AddEvent appends a trigger to a pattern. Time is in ticks from the start
// of the bar. The event count limit is not checked here; a pattern holding
// more than MaxEvents events fails at save time.
func (p *Project) AddEvent(pattern string, time, pad, velocity int) error {
	if _, ok := p.patterns[pattern]; !ok {
		return fmt.Errorf(
			"invalid pattern: %q, must be a01, b01, c01, or d01", pattern,
		)
	}

	if time < 0 || time >= TicksPerBar {
		return fmt.Errorf(
			"invalid time: %d, must be 0-%d", time, TicksPerBar-1,
		)
	}

	if pad < 1 || pad > NumPads {
		return fmt.Errorf("invalid pad: %d, must be 1-%d", pad, NumPads)
	}

	if velocity < 0 || velocity > 127 {
		return fmt.Errorf("invalid velocity: %d, must be 0-127", velocity)
	}

	p.patterns[pattern] = append(
		p.patterns[pattern],
		Event{Time: time, Pad: pad, Velocity: velocity},
	)

	return nil
}

// Events returns a copy of a pattern's event list in insertion order.
func (p *Project) Events(pattern string) []Event {
	events := make([]Event, len(p.patterns[pattern]))
	copy(events, p.patterns[pattern])

	return events
}

// AddKick adds a hit on the conventional kick pad at full velocity.
func (p *Project) AddKick(pattern string, time int) error {
	return p.AddEvent(pattern, time, KickPad, KickVelocity)
}

// AddSnare adds a hit on the conventional snare pad.
func (p *Project) AddSnare(pattern string, time int) error {
	return p.AddEvent(pattern, time, SnarePad, SnareVelocity)
}

// AddHihat adds a hit on the conventional hi-hat pad.
func (p *Project) AddHihat(pattern string, time int) error {
	return p.AddEvent(pattern, time, HihatPad, HihatVelocity)
}

// AddBasicBeat writes a standard 4/4 bar into a pattern: kicks on beats 1
// and 3, snares on 2 and 4, and eighth note hi-hats with every other hit
// accented.
func (p *Project) AddBasicBeat(pattern string, kickPad, snarePad, hihatPad int) error {
	for _, t := range []int{0, 2 * TicksPerBeat} {
		if err := p.AddEvent(pattern, t, kickPad, KickVelocity); err != nil {
			return err
		}
	}

	for _, t := range []int{TicksPerBeat, 3 * TicksPerBeat} {
		if err := p.AddEvent(pattern, t, snarePad, SnareVelocity); err != nil {
			return err
		}
	}

	for i := 0; i < 8; i++ {
		vel := HihatVelocity
		if i%2 == 1 {
			vel = 70
		}

		if err := p.AddEvent(pattern, i*TicksPer8th, hihatPad, vel); err != nil {
			return err
		}
	}

	return nil
}
