// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/songdedup/pkg/types"
)

// songFile is the document form of a song file: either a bare list of
// songs or a mapping with a songs key.
type songFile struct {
	Songs []types.Song `json:"songs" yaml:"songs"`
}

var errNotSongDocument = errors.New("expected a list of songs or a mapping with a songs key")

// Format selects the decoder for a song document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForPath returns FormatJSON for a .json extension and FormatYAML
// for anything else.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// LoadFile reads songs from a YAML or JSON file, picking the decoder from
// the file extension. The file may hold a list of songs or a mapping with
// a "songs" list.
func LoadFile(path string) ([]types.Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading song file %s: %w", path, err)
	}
	songs, err := ParseSongs(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("parsing song file %s: %w", path, err)
	}
	return songs, nil
}

// ParseSongs decodes a song document in the given format. Keys that are
// not song fields are rejected so a misspelled has_audio or created_at
// cannot silently change which song is kept.
func ParseSongs(data []byte, format Format) ([]types.Song, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []types.Song{}, nil
	}

	switch format {
	case FormatJSON:
		return parseJSON(trimmed)
	case FormatYAML, "":
		return parseYAML(trimmed)
	default:
		return nil, fmt.Errorf("unsupported song file format %q", format)
	}
}

func parseJSON(data []byte) ([]types.Song, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var songs []types.Song
	switch data[0] {
	case '[':
		if err := dec.Decode(&songs); err != nil {
			return nil, err
		}
	case '{':
		var doc songFile
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
		songs = doc.Songs
	default:
		return nil, errNotSongDocument
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after song document")
	}
	if songs == nil {
		songs = []types.Song{}
	}
	return songs, nil
}

func parseYAML(data []byte) ([]types.Song, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return []types.Song{}, nil
	}

	// Node.Decode ignores KnownFields, so decode again from the bytes once
	// the document shape is known.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var songs []types.Song
	switch node.Content[0].Kind {
	case yaml.SequenceNode:
		if err := dec.Decode(&songs); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var doc songFile
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
		songs = doc.Songs
	default:
		return nil, errNotSongDocument
	}
	if songs == nil {
		songs = []types.Song{}
	}
	return songs, nil
}

// Export writes every song in the library to path. The format follows
// the file extension: .json writes indented JSON, anything else YAML.
func (s *Store) Export(ctx context.Context, path string) (int, error) {
	songs, err := s.Songs(ctx)
	if err != nil {
		return 0, err
	}

	var data []byte
	switch FormatForPath(path) {
	case FormatJSON:
		data, err = json.MarshalIndent(songFile{Songs: songs}, "", "  ")
		if err != nil {
			return 0, fmt.Errorf("marshaling JSON: %w", err)
		}
	default:
		data, err = yaml.Marshal(songFile{Songs: songs})
		if err != nil {
			return 0, fmt.Errorf("marshaling YAML: %w", err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("creating export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("writing export: %w", err)
	}
	return len(songs), nil
}
