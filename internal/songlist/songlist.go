// Package songlist reads the plain song list file (one relative
// song-name path per line, empty lines ignored) and, for
// larger libraries, a JSON manifest of (name, path) records parsed
// with jsonparser/gjson to avoid a full encoding/json.Unmarshal
// allocation per entry. Any other fields in a record are ignored.
package songlist

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/tidwall/gjson"
)

// Entry is one song to enroll.
type Entry struct {
	Name string // song name / identifier, used as the enrolled song_id's display name
	Path string // path to its spectrogram or audio file
}

// Load reads the plain song-list format: one relative path per line,
// empty lines ignored. The song's Name defaults to its Path; callers
// that need a Name distinct from the Path should use LoadManifest
// instead.
func Load(r io.Reader) ([]Entry, error) {
	var out []Entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, Entry{Name: line, Path: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("songlist: reading list: %w", err)
	}
	return out, nil
}

// LoadManifest parses a JSON array of {"name":..., "path":...} objects
// without unmarshaling into intermediate structs, using gjson to
// validate the document and jsonparser for the top-level array walk
// and per-field extraction — the
// fast path a large library's manifest needs to avoid
// encoding/json's reflection overhead.
func LoadManifest(data []byte) ([]Entry, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("songlist: manifest is not valid JSON")
	}

	var out []Entry
	var parseErr error

	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
		if err != nil || parseErr != nil {
			return
		}
		name, nameErr := jsonparser.GetString(value, "name")
		path, pathErr := jsonparser.GetString(value, "path")
		if nameErr != nil || pathErr != nil {
			parseErr = fmt.Errorf("songlist: manifest entry missing name/path: %v / %v", nameErr, pathErr)
			return
		}
		out = append(out, Entry{Name: name, Path: path})
	})
	if err != nil {
		return nil, fmt.Errorf("songlist: walking manifest array: %w", err)
	}
	if parseErr != nil {
		return nil, parseErr
	}

	return out, nil
}
