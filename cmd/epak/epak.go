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

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mys721tx/epak-go/pkg/epak"
)

var (
	usg = `Usage: %[1]s	[project.yaml]
Or:	%[1]s [project.yaml] [out.ppak]
`
)

// split splits a file name into base and extension. Modified from path.Ext().
func split(fn string) string {
	for i := len(fn) - 1; i >= 0; i-- {
		if fn[i] == '.' {
			if fn[i:] == ".yaml" || fn[i:] == ".yml" {
				return fn[:i]
			}
			break
		}
	}
	return fn
}

// build reads a manifest and writes the container.
func build(fn, out string) {
	m, err := epak.ReadManifest(fn)
	if err != nil {
		log.Panicf("Unable to read manifest %s: %s", fn, err)
	}

	p, err := m.Project()
	if err != nil {
		log.Panicf("Unable to build project: %s", err)
	}

	if err := p.Save(out, m.SoundsDir()); err != nil {
		log.Panicf("Unable to save %s: %s", out, err)
	}

	fmt.Printf("Created %s\n", out)
}

func main() {

	switch len(os.Args) {
	case 2:
		// derive the output name from the manifest name
		build(os.Args[1], split(os.Args[1])+".ppak")
	case 3:
		build(os.Args[1], os.Args[2])
	default:
		// print usage in other case
		fmt.Printf(usg, os.Args[0])
	}
}
