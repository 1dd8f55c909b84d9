// seehuhn.de/go/loom - a hand-loom weaving preview
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
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

// Package store reads and writes draft snapshots.
//
// Three encodings are supported: YAML for hand editing, JSON as written
// by the browser version of the tool, and MessagePack as a compact
// binary form.  Load and Save pick the encoding from the file name.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/loom/draft"
)

// Format is a snapshot encoding.
type Format int

const (
	YAML Format = iota
	JSON
	MsgPack
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case JSON:
		return "json"
	case MsgPack:
		return "msgpack"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// MediaType returns the HTTP content type of the format.
func (f Format) MediaType() string {
	switch f {
	case JSON:
		return "application/json"
	case MsgPack:
		return "application/msgpack"
	default:
		return "application/yaml"
	}
}

// ErrUnknownFormat is returned for file names and format names which do
// not select a supported encoding.
var ErrUnknownFormat = errors.New("unknown snapshot format")

// ParseFormat converts a format name, such as "yaml", to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	case "msgpack", "mpk":
		return MsgPack, nil
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownFormat)
}

// FormatFor selects the encoding from the extension of a file name.
func FormatFor(fname string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(fname), ".")
	if ext == "" {
		return 0, fmt.Errorf("%s: no file extension: %w", fname, ErrUnknownFormat)
	}
	return ParseFormat(ext)
}

// Encode writes s to w.
func Encode(w io.Writer, f Format, s *draft.Snapshot) error {
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case MsgPack:
		return msgpack.NewEncoder(w).Encode(s)
	}
	return fmt.Errorf("%v: %w", f, ErrUnknownFormat)
}

// Decode reads a snapshot from r.
func Decode(r io.Reader, f Format) (*draft.Snapshot, error) {
	s := &draft.Snapshot{}
	var err error
	switch f {
	case YAML:
		err = yaml.NewDecoder(r).Decode(s)
	case JSON:
		err = json.NewDecoder(r).Decode(s)
	case MsgPack:
		err = msgpack.NewDecoder(r).Decode(s)
	default:
		return nil, fmt.Errorf("%v: %w", f, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %v snapshot: %w", f, err)
	}
	return s, nil
}

// Marshal returns the encoding of s.
func Marshal(f Format, s *draft.Snapshot) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := Encode(buf, f, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a snapshot.
func Unmarshal(data []byte, f Format) (*draft.Snapshot, error) {
	return Decode(bytes.NewReader(data), f)
}

// Load reads a snapshot file.
func Load(fname string) (*draft.Snapshot, error) {
	f, err := FormatFor(fname)
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	s, err := Decode(fd, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return s, nil
}

// Save writes a snapshot file.  The file is written to a temporary name
// first and renamed into place, so that an existing file is never left
// half written.
func Save(fname string, s *draft.Snapshot) (err error) {
	f, err := FormatFor(fname)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(fname), "."+filepath.Base(fname)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, f, s); err != nil {
		return fmt.Errorf("%s: %w", fname, err)
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fname)
}
