package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"floe/internal/diag"
	"floe/internal/source"
)

// cacheSchema versions the payload encoding. Bump it whenever the payload
// shape or the diagnostics it captures change; stale entries are ignored.
const cacheSchema uint16 = 1

// DiskCache stores per-file index summaries keyed by content digest. A hit
// means the file's bytes were indexed before; the summary and diagnostics
// are replayed without parsing.
type DiskCache struct {
	dir string
}

// OpenDiskCache creates the cache directory if needed.
func OpenDiskCache(dir string) (*DiskCache, error) {
	entries := filepath.Join(dir, "files")
	if err := os.MkdirAll(entries, 0o755); err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	return &DiskCache{dir: entries}, nil
}

func (c *DiskCache) pathFor(digest [32]byte) string {
	return filepath.Join(c.dir, hex.EncodeToString(digest[:])+".msgpack")
}

// Get loads the cached payload for a content digest, if present and current.
func (c *DiskCache) Get(digest [32]byte) (*cachePayload, bool) {
	data, err := os.ReadFile(c.pathFor(digest))
	if err != nil {
		return nil, false
	}
	var payload cachePayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, false
	}
	if payload.Schema != cacheSchema {
		return nil, false
	}
	return &payload, true
}

// Put writes a payload atomically: encode to a temp file in the cache
// directory, then rename over the final path.
func (c *DiskCache) Put(digest [32]byte, payload *cachePayload) error {
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	tmp, err := os.CreateTemp(c.dir, "entry-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, c.pathFor(digest)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Clear removes every cache entry.
func (c *DiskCache) Clear() error {
	err := os.RemoveAll(c.dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// cachePayload is the serialized form of a file's indexing outcome.
type cachePayload struct {
	Schema  uint16       `msgpack:"schema"`
	Path    string       `msgpack:"path"`
	Summary Summary      `msgpack:"summary"`
	Diags   []cachedDiag `msgpack:"diags"`
}

type cachedDiag struct {
	Severity uint8  `msgpack:"sev"`
	Code     uint16 `msgpack:"code"`
	Msg      string `msgpack:"msg"`
	Start    uint32 `msgpack:"start"`
	End      uint32 `msgpack:"end"`
}

func newPayload(path string, result *FileResult) *cachePayload {
	items := result.Bag.Items()
	diags := make([]cachedDiag, 0, len(items))
	for _, d := range items {
		diags = append(diags, cachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Msg:      d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		})
	}
	return &cachePayload{
		Schema:  cacheSchema,
		Path:    path,
		Summary: result.Summary,
		Diags:   diags,
	}
}

// restore replays a cached payload into a result. Spans are rebound to the
// current FileID since IDs are per-run.
func (p *cachePayload) restore(result *FileResult, fileID source.FileID) {
	result.Summary = p.Summary
	result.FromCache = true
	for _, d := range p.Diags {
		result.Bag.Add(diag.Diagnostic{
			Severity: diag.Severity(d.Severity),
			Code:     diag.Code(d.Code),
			Message:  d.Msg,
			Primary:  source.Span{File: fileID, Start: d.Start, End: d.End},
		})
	}
}
