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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LoadTemplate captures pad and settings bytes from an existing backup so
// device fields the codec does not understand survive a rebuild. The path
// may name a .ppak or .pak container or an already extracted backup
// directory. Files missing from the backup are simply not captured.
func (p *Project) LoadTemplate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return p.loadTemplateDir(path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".ppak" && ext != ".pak" {
		return fmt.Errorf("not a pak container or directory: %s", path)
	}

	tmp, err := os.MkdirTemp("", "epak-template-")
	if err != nil {
		return err
	}

	defer os.RemoveAll(tmp)

	if err := extractContainer(path, tmp); err != nil {
		return err
	}

	return p.loadTemplateDir(tmp)
}

// extractContainer unpacks a container into dir and then unpacks the first
// project tar found among its members.
func extractContainer(path, dir string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return err
	}

	defer zr.Close()

	var tarPath string

	for _, f := range zr.File {
		// Member names carry a leading slash inside a container.
		name := strings.TrimPrefix(f.Name, "/")
		if name == "" || f.FileInfo().IsDir() {
			continue
		}

		dst := filepath.Join(dir, filepath.FromSlash(name))

		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}

		if err := extractZipMember(f, dst); err != nil {
			return err
		}

		if tarPath == "" && strings.HasSuffix(name, ".tar") {
			tarPath = dst
		}
	}

	if tarPath == "" {
		return fmt.Errorf("no project tar found in %s", path)
	}

	return extractTar(tarPath, dir)
}

func extractZipMember(f *zip.File, dst string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}

	defer rc.Close()

	w, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(w, rc); err != nil {
		w.Close()
		return err
	}

	return w.Close()
}

func extractTar(path, dir string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer f.Close()

	tr := tar.NewReader(f)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}

		if err != nil {
			return err
		}

		name := strings.Trim(hdr.Name, "/")
		dst := filepath.Join(dir, filepath.FromSlash(name))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dst, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
				return err
			}

			w, err := os.Create(dst)
			if err != nil {
				return err
			}

			if _, err := io.Copy(w, tr); err != nil {
				w.Close()
				return err
			}

			if err := w.Close(); err != nil {
				return err
			}
		}
	}
}

// loadTemplateDir reads every pad record and the settings blob present in
// an extracted backup tree.
func (p *Project) loadTemplateDir(dir string) error {
	pads := make(map[string]map[int][]byte)

	for _, g := range Groups {
		pads[g] = make(map[int][]byte)

		for pad := 1; pad <= NumPads; pad++ {
			b, err := os.ReadFile(
				filepath.Join(dir, "pads", g, padFileName(pad)),
			)
			if os.IsNotExist(err) {
				continue
			}

			if err != nil {
				return err
			}

			pads[g][pad] = b
		}
	}

	p.templatePads = pads

	b, err := os.ReadFile(filepath.Join(dir, "settings"))

	switch {
	case err == nil:
		p.templateSettings = b
	case !os.IsNotExist(err):
		return err
	}

	return nil
}
