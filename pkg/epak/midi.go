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

	"gitlab.com/gomidi/midi/v2/smf"
)

// GMPadMap maps the General MIDI drum notes for kick, snare, and closed
// hi-hat to the pads those roles conventionally live on.
var GMPadMap = map[uint8]int{
	36: KickPad,
	38: SnarePad,
	42: HihatPad,
}

// ImportSMF reads a Standard MIDI File and appends its note-on events to a
// pattern. noteMap selects which notes are taken and the pad each one
// lands on; nil means GMPadMap. Times are rescaled from the file's
// resolution to the 96 ticks per beat grid. Notes past the end of the bar
// and notes absent from the map are dropped; velocities carry through
// unchanged.
func (p *Project) ImportSMF(pattern, path string, noteMap map[uint8]int) error {
	if _, ok := p.patterns[pattern]; !ok {
		return fmt.Errorf(
			"invalid pattern: %q, must be a01, b01, c01, or d01", pattern,
		)
	}

	if noteMap == nil {
		noteMap = GMPadMap
	}

	s, err := smf.ReadFile(path)
	if err != nil {
		return err
	}

	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return fmt.Errorf("unsupported SMF time format: %s", s.TimeFormat)
	}

	res := int64(ticks.Ticks4th())

	for _, track := range s.Tracks {
		var abs int64

		for _, ev := range track {
			abs += int64(ev.Delta)

			var ch, key, vel uint8
			if !ev.Message.GetNoteStart(&ch, &key, &vel) {
				continue
			}

			pad, ok := noteMap[key]
			if !ok {
				continue
			}

			t := int(abs * TicksPerBeat / res)
			if t >= TicksPerBar {
				continue
			}

			if err := p.AddEvent(pattern, t, pad, int(vel)); err != nil {
				return err
			}
		}
	}

	return nil
}
