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
	"archive/tar"
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Constants baked into every generated container.
const (
	metaInfo       = "teenage engineering - pak file"
	metaPakVersion = 1
	metaPakType    = "user"
	metaPakRelease = "1.2.0"
	metaDeviceName = "EP-133"
	metaDeviceVer  = "2.0.5"
	metaAuthor     = "epak-go"

	soundExt = ".wav"
)

// Meta is the meta.json descriptor at the root of a container.
type Meta struct {
	Info          string `json:"info"`
	PakVersion    int    `json:"pak_version"`
	PakType       string `json:"pak_type"`
	PakRelease    string `json:"pak_release"`
	DeviceName    string `json:"device_name"`
	DeviceSKU     string `json:"device_sku"`
	DeviceVersion string `json:"device_version"`
	GeneratedAt   string `json:"generated_at"`
	Author        string `json:"author"`
	BaseSKU       string `json:"base_sku"`
}

// NewMeta fills the descriptor for a device serial number. The timestamp
// is second resolution with a literal millisecond field, the way the
// device's own exports format it.
func NewMeta(sku string, now time.Time) Meta {
	return Meta{
		Info:          metaInfo,
		PakVersion:    metaPakVersion,
		PakType:       metaPakType,
		PakRelease:    metaPakRelease,
		DeviceName:    metaDeviceName,
		DeviceSKU:     sku,
		DeviceVersion: metaDeviceVer,
		GeneratedAt:   now.UTC().Format("2006-01-02T15:04:05") + ".000Z",
		Author:        metaAuthor,
		BaseSKU:       sku,
	}
}

// Save writes the project to a .ppak container. soundsDir may be empty;
// when set, every .wav file in it is copied into the container under
// /sounds. Save does not modify the project and may be called again.
func (p *Project) Save(outputPath, soundsDir string) error {
	work, err := os.MkdirTemp("", "epak-")
	if err != nil {
		return err
	}

	defer os.RemoveAll(work)

	if err := p.writeTree(work); err != nil {
		return err
	}

	var tarBuf bytes.Buffer

	if err := packTar(&tarBuf, work); err != nil {
		return err
	}

	meta, err := json.MarshalIndent(NewMeta(p.DeviceSKU, time.Now()), "", "  ")
	if err != nil {
		return err
	}

	var out bytes.Buffer

	zw := zip.NewWriter(&out)

	// The device's own reader wants member names with a leading slash;
	// archive/zip writes the name field verbatim, so the quirk survives.
	name := fmt.Sprintf("/projects/P%02d.tar", p.Slot)
	if err := writeZipMember(zw, name, tarBuf.Bytes()); err != nil {
		return err
	}

	if err := writeZipMember(zw, "/meta.json", meta); err != nil {
		return err
	}

	if soundsDir != "" {
		if err := writeSounds(zw, soundsDir); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return err
	}

	return os.WriteFile(outputPath, out.Bytes(), 0644)
}

// writeTree lays the project out as the device's directory convention:
// pads/<group>/pNN for all pads, patterns/<name> for all patterns, and the
// settings blob.
func (p *Project) writeTree(dir string) error {
	for _, g := range Groups {
		gdir := filepath.Join(dir, "pads", g)

		if err := os.MkdirAll(gdir, 0755); err != nil {
			return err
		}

		for pad := 1; pad <= NumPads; pad++ {
			var tmpl []byte
			if p.templatePads != nil {
				tmpl = p.templatePads[g][pad]
			}

			// An unassigned pad with a template keeps the sample
			// number the backup already had.
			sample, assigned := p.assignments[g][pad]

			var rec []byte
			if assigned || tmpl == nil {
				rec = EncodePad(tmpl, sample)
			} else {
				rec = append([]byte(nil), tmpl...)
			}

			err := os.WriteFile(
				filepath.Join(gdir, padFileName(pad)), rec, 0644,
			)
			if err != nil {
				return err
			}
		}
	}

	pdir := filepath.Join(dir, "patterns")

	if err := os.MkdirAll(pdir, 0755); err != nil {
		return err
	}

	for _, name := range PatternNames {
		rec, err := EncodePattern(p.patterns[name])
		if err != nil {
			return fmt.Errorf("pattern %s: %s", name, err)
		}

		if err := os.WriteFile(filepath.Join(pdir, name), rec, 0644); err != nil {
			return err
		}
	}

	settings := p.templateSettings
	if settings == nil {
		settings = make([]byte, SettingsSize)
	}

	return os.WriteFile(filepath.Join(dir, "settings"), settings, 0644)
}

// packTar bundles the project tree into an uncompressed tar with the three
// top level entries in the order the device writes them.
func packTar(w io.Writer, dir string) error {
	tw := tar.NewWriter(w)

	for _, name := range []string{"pads", "patterns", "settings"} {
		if err := addTarEntry(tw, dir, name); err != nil {
			return err
		}
	}

	return tw.Close()
}

// addTarEntry writes one entry, recursing into directories.
func addTarEntry(tw *tar.Writer, dir, name string) error {
	path := filepath.Join(dir, filepath.FromSlash(name))

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}

	hdr.Name = name
	if info.IsDir() {
		hdr.Name += "/"
	}

	// Fixed metadata keeps rebuilds of the same project byte identical.
	hdr.ModTime = time.Unix(0, 0)
	hdr.AccessTime = time.Time{}
	hdr.ChangeTime = time.Time{}
	hdr.Uid = 0
	hdr.Gid = 0
	hdr.Uname = ""
	hdr.Gname = ""
	hdr.Format = tar.FormatUSTAR

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}

		for _, e := range entries {
			if err := addTarEntry(tw, dir, name+"/"+e.Name()); err != nil {
				return err
			}
		}

		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	_, err = tw.Write(b)

	return err
}

func writeZipMember(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	})
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// writeSounds copies every sound file in dir into the container. Matching
// on the extension is case insensitive; os.ReadDir already sorts entries
// by file name.
func writeSounds(zw *zip.Writer, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), soundExt) {
			continue
		}

		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}

		if err := writeZipMember(zw, "/sounds/"+e.Name(), b); err != nil {
			return err
		}
	}

	return nil
}
