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

package epak_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mys721tx/epak-go/pkg/epak"
)

func TestEncodePadDefault(t *testing.T) {
	tests := []struct {
		name   string
		sample uint16
	}{
		{"unassigned", 0},
		{"first sample", 1},
		{"max sample", 65535},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := epak.EncodePad(nil, tt.sample)

			assert.Len(t, b, epak.PadRecordSize)
			assert.Equal(t, tt.sample, binary.LittleEndian.Uint16(b[1:3]))

			// every byte outside the sample number stays zero
			assert.Equal(t, byte(0), b[0])
			assert.Equal(t, make([]byte, epak.PadRecordSize-3), b[3:])
		})
	}
}

func TestEncodePadTemplate(t *testing.T) {
	tmpl := make([]byte, epak.PadRecordSize)
	for i := range tmpl {
		tmpl[i] = byte(i + 1)
	}

	orig := append([]byte(nil), tmpl...)

	b := epak.EncodePad(tmpl, 0x1234)

	assert.Equal(t, orig, tmpl, "template must not be modified")
	assert.Equal(t, uint16(0x1234), binary.LittleEndian.Uint16(b[1:3]))
	assert.Equal(t, orig[0], b[0])
	assert.Equal(t, orig[3:], b[3:])
}

func TestEncodePadShortTemplate(t *testing.T) {
	b := epak.EncodePad([]byte{0x7f}, 42)

	assert.Len(t, b, epak.PadRecordSize)
	assert.Equal(t, byte(0x7f), b[0])
	assert.Equal(t, uint16(42), binary.LittleEndian.Uint16(b[1:3]))
}

func TestEncodePatternEmpty(t *testing.T) {
	b, err := epak.EncodePattern(nil)

	assert.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01, 0x00, 0x00}, b)
}

func TestEncodePattern(t *testing.T) {
	events := []epak.Event{
		{Time: 96, Pad: 7, Velocity: 120},
		{Time: 0, Pad: 10, Velocity: 127},
		{Time: 383, Pad: 1, Velocity: 1},
	}

	b, err := epak.EncodePattern(events)

	assert.NoError(t, err)
	assert.Len(t, b, 4+3*8)
	assert.Equal(t, []byte{0x00, 0x01, 0x03, 0x00}, b[:4])

	rec := b[4:12]
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(rec[0:2]))
	assert.Equal(t, byte(9*8), rec[2])
	assert.Equal(t, byte(0x3c), rec[3])
	assert.Equal(t, byte(127), rec[4])
	assert.Equal(t, byte(0x10), rec[5])
	assert.Equal(t, []byte{0x00, 0x00}, rec[6:8])

	rec = b[12:20]
	assert.Equal(t, uint16(96), binary.LittleEndian.Uint16(rec[0:2]))
	assert.Equal(t, byte(6*8), rec[2])
	assert.Equal(t, byte(120), rec[4])

	rec = b[20:28]
	assert.Equal(t, uint16(383), binary.LittleEndian.Uint16(rec[0:2]))
	assert.Equal(t, byte(0), rec[2])
	assert.Equal(t, byte(1), rec[4])
}

func TestEncodePatternStableTies(t *testing.T) {
	events := []epak.Event{
		{Time: 48, Pad: 1, Velocity: 10},
		{Time: 0, Pad: 2, Velocity: 20},
		{Time: 48, Pad: 3, Velocity: 30},
		{Time: 48, Pad: 4, Velocity: 40},
	}

	b, err := epak.EncodePattern(events)

	assert.NoError(t, err)
	assert.Equal(t, byte(4), b[2])

	// pad 2 sorts first, then pads 1, 3, 4 keep their insertion order
	var pads []byte
	for i := 4; i < len(b); i += 8 {
		pads = append(pads, b[i+2]/8+1)
	}

	assert.Equal(t, []byte{2, 1, 3, 4}, pads)
}

func TestEncodePatternMaxEvents(t *testing.T) {
	events := make([]epak.Event, epak.MaxEvents)
	for i := range events {
		events[i] = epak.Event{
			Time: i % epak.TicksPerBar, Pad: 1, Velocity: 100,
		}
	}

	b, err := epak.EncodePattern(events)

	assert.NoError(t, err)
	assert.Equal(t, byte(epak.MaxEvents), b[2])
	assert.Len(t, b, 4+epak.MaxEvents*8)
}

func TestEncodePatternTooManyEvents(t *testing.T) {
	events := make([]epak.Event, epak.MaxEvents+1)
	for i := range events {
		events[i] = epak.Event{
			Time: i % epak.TicksPerBar, Pad: 1, Velocity: 100,
		}
	}

	b, err := epak.EncodePattern(events)

	assert.Nil(t, b)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "too many events")
}

func TestEncodePatternDoesNotReorderInput(t *testing.T) {
	events := []epak.Event{
		{Time: 96, Pad: 1, Velocity: 1},
		{Time: 0, Pad: 2, Velocity: 2},
	}

	_, err := epak.EncodePattern(events)

	assert.NoError(t, err)
	assert.Equal(t, 96, events[0].Time)
}

func TestBeatToTicks(t *testing.T) {
	tests := []struct {
		beat float64
		want int
	}{
		{1, 0},
		{2, 96},
		{3, 192},
		{4, 288},
		{1.5, 48},
		{2.25, 120},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, epak.BeatToTicks(tt.beat))
	}
}
