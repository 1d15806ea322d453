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
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
)

const (
	// PadRecordSize is the size of a minimal pad record.
	PadRecordSize = 27
	// SettingsSize is the size of a minimal settings blob.
	SettingsSize = 222
	// MaxEvents is the most events a single pattern record can hold;
	// the count field in the record header is one byte.
	MaxEvents = 255

	// TicksPerBar is the length of one 4/4 bar in sequencer ticks.
	TicksPerBar = 384
	// TicksPerBeat is the length of one quarter note in sequencer ticks.
	TicksPerBeat = 96
	// TicksPer8th is the length of one eighth note in sequencer ticks.
	TicksPer8th = 48
	// TicksPer16th is the length of one sixteenth note in sequencer ticks.
	TicksPer16th = 24
	// TicksPer32nd is the length of one thirty-second note in sequencer
	// ticks.
	TicksPer32nd = 12

	// eventSize is the size of one encoded pattern event.
	eventSize = 8
	// colStandard is the column code for standard playback.
	colStandard = 0x3c
)

// Event is a single trigger in a pattern: a time in ticks within the bar, a
// pad number, and a velocity.
type Event struct {
	Time     int
	Pad      int
	Velocity int
}

// BeatToTicks converts a 1-indexed beat number to ticks. Beat 1 is tick 0.
func BeatToTicks(beat float64) int {
	return int((beat - 1) * TicksPerBeat)
}

// padFileName returns the file name for a pad record, p01 through p12.
func padFileName(pad int) string {
	return fmt.Sprintf("p%02d", pad)
}

// EncodePad renders a pad record: a copy of the template bytes, or a zeroed
// minimal record when template is nil, with the sample number patched in at
// bytes 1-2 as a little-endian uint16. Every other byte passes through
// untouched; the rest of the record is not documented and whatever the
// device wrote there must survive. The template itself is never modified.
func EncodePad(template []byte, sample uint16) []byte {
	b := make([]byte, len(template))
	copy(b, template)

	// Short or missing templates are grown to the minimal record.
	if len(b) < PadRecordSize {
		b = append(b, make([]byte, PadRecordSize-len(b))...)
	}

	binary.LittleEndian.PutUint16(b[1:3], sample)

	return b
}

// EncodePattern renders a pattern record. An empty event list encodes to a
// bare four byte header. Events are sorted by time before encoding; events
// sharing a time keep their relative input order. The input slice is not
// modified.
func EncodePattern(events []Event) ([]byte, error) {
	if len(events) == 0 {
		return []byte{0x00, 0x01, 0x00, 0x00}, nil
	}

	if len(events) > MaxEvents {
		return nil, fmt.Errorf(
			"too many events: %d, maximum is %d",
			len(events), MaxEvents,
		)
	}

	sorted := make([]Event, len(events))
	copy(sorted, events)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})

	var buf bytes.Buffer

	buf.Write([]byte{0x00, 0x01, byte(len(sorted)), 0x00})

	for _, e := range sorted {
		var rec [eventSize]byte

		binary.LittleEndian.PutUint16(rec[0:2], uint16(e.Time))
		rec[2] = byte((e.Pad - 1) * 8)
		rec[3] = colStandard
		rec[4] = byte(e.Velocity)
		rec[5] = 0x10

		buf.Write(rec[:])
	}

	return buf.Bytes(), nil
}
