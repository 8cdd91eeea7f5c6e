package util

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dendrascience/dendra-splitfs/version"
)

// Manifest records a table layout and, optionally, a content hash per
// entry. It is what `splitfs inspect --json` writes and `splitfs verify`
// checks against.
type Manifest struct {
	SplitFSVersion string          `json:"splitfs_version"`
	Mode           string          `json:"mode"`
	Fingerprint    string          `json:"fingerprint"`
	TotalSize      int64           `json:"total_size"`
	ChunkSize      int64           `json:"chunk_size,omitempty"`
	WholeFileName  string          `json:"whole_file_name,omitempty"`
	Created        time.Time       `json:"created"`
	HashAlgorithm  HashAlgorithm   `json:"hash_algorithm,omitempty"`
	Hash           string          `json:"hash,omitempty"` // whole file, join mode only
	Entries        []ManifestEntry `json:"entries"`
}

// ManifestEntry is one part: a chunk of the source in split mode, an
// input file in join mode.
type ManifestEntry struct {
	Name    string `json:"name"`
	Handle  Handle `json:"inode,omitempty"` // split mode only
	Ordinal int    `json:"ordinal"`
	Offset  int64  `json:"offset"`
	Length  int64  `json:"length"`
	Path    string `json:"path"`
	Hash    string `json:"hash,omitempty"`
}

// GenerateManifest describes the table's current layout. Hashes are left
// empty; verify fills them.
func (t *PartTable) GenerateManifest(chunkSize int64) Manifest {
	m := Manifest{
		SplitFSVersion: version.GetVersion(),
		Mode:           t.mode.String(),
		Fingerprint:    t.Fingerprint(),
		TotalSize:      t.TotalSize(),
		Created:        time.Now().UTC(),
	}
	if t.mode == ModeSplit {
		m.ChunkSize = chunkSize
	} else {
		m.WholeFileName = t.WholeFileName()
	}
	for p := range t.Iterate {
		e := ManifestEntry{
			Name:    p.Name,
			Ordinal: p.Ordinal,
			Offset:  t.Offset(p.Ordinal),
			Length:  p.Length,
			Path:    p.Path,
		}
		if t.mode == ModeSplit {
			e.Handle = PartHandle(p.Ordinal)
		}
		m.Entries = append(m.Entries, e)
	}
	return m
}

// WriteJSONFile writes any value as JSON to the specified file path.
// It creates the file and encodes the value using the standard JSON encoder.
func WriteJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ReadManifest loads a manifest written by WriteJSONFile.
func ReadManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, err
	}
	defer f.Close()
	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return m, nil
}
