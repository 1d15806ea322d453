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

/*
epak builds project pak files for the teenage engineering EP-133 K.O. II.

epak reads a YAML manifest describing a project: the device serial number,
the project slot, pad to sample assignments, and the pattern events, either
written out one by one, generated with the basic beat shorthand, or imported
from a Standard MIDI File. The manifest may also name an existing backup to
template from, which preserves the pad parameters and settings the device
wrote, and a directory of wav files to bundle into the pak.

When given one parameter, epak writes the pak next to the manifest, using
the file name of the manifest as prefix. When given two parameters, the
second is the output path.

Usage:
	epak <project.yaml>
	epak <project.yaml> <out.ppak>

*/
package main
