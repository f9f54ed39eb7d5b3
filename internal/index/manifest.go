package index

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"

	"github.com/syedafeezu/DevScope/internal/version"
)

// Artifact records the size and xxhash-64 digest of one index artifact at
// write time. Digests let the stats command detect bit rot or partial
// writes without decoding the artifacts.
type Artifact struct {
	Size  int64  `json:"size"`
	XXH64 string `json:"xxh64"`
}

// Manifest summarizes a completed build. It is advisory metadata: search
// works from the binary artifacts alone and a missing or stale manifest
// never gates a query.
type Manifest struct {
	Version   string              `json:"version"`
	Documents int                 `json:"documents"`
	CodeDocs  int                 `json:"code_docs"`
	LogDocs   int                 `json:"log_docs"`
	Terms     int                 `json:"terms"`
	Postings  int                 `json:"postings"`
	Artifacts map[string]Artifact `json:"artifacts"`
}

// writeManifest persists the manifest beside the artifacts.
func writeManifest(dir string, m *Manifest) error {
	m.Version = version.Version
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// LoadManifest reads the manifest from an index directory.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}

// VerifyArtifacts re-hashes the artifacts on disk and returns the names of
// those whose size or digest no longer matches the manifest.
func VerifyArtifacts(dir string, m *Manifest) ([]string, error) {
	var mismatched []string
	for name, want := range m.Artifacts {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			mismatched = append(mismatched, name)
			continue
		}
		if info.Size() != want.Size {
			mismatched = append(mismatched, name)
			continue
		}
		digest, err := hashFile(path)
		if err != nil {
			return nil, err
		}
		if fmt.Sprintf("%016x", digest) != want.XXH64 {
			mismatched = append(mismatched, name)
		}
	}
	return mismatched, nil
}

// hashFile computes the xxhash-64 digest of a file's contents.
func hashFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return h.Sum64(), nil
}
