package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"videogen/internal/domain"
)

// ErrExists is returned when an archive entry would be overwritten.
var ErrExists = errors.New("storage: entry already exists")

// Archive keeps every generated artifact as an immutable file under
// jobs/<jobID>/<seq>-<llm|fallback>.js on the local filesystem.
type Archive struct {
	basePath string
	mu       sync.Mutex
}

// Entry describes one archived artifact.
type Entry struct {
	Key          string `json:"key"`
	Seq          int    `json:"seq"`
	UsedFallback bool   `json:"usedFallback"`
}

// NewArchive initializes an Archive rooted at basePath.
func NewArchive(basePath string) (*Archive, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &Archive{basePath: basePath}, nil
}

// BasePath returns the configured root directory.
func (a *Archive) BasePath() string {
	if a == nil {
		return ""
	}
	return a.basePath
}

// SaveArtifact appends the artifact to its job's history and returns the key.
func (a *Archive) SaveArtifact(ctx context.Context, artifact domain.GeneratedCodeArtifact) (string, error) {
	if a == nil {
		return "", errors.New("storage: no archive configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir, err := jobDir(artifact.JobID)
	if err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	entries, err := a.list(dir)
	if err != nil {
		return "", err
	}
	seq := 1
	if n := len(entries); n > 0 {
		seq = entries[n-1].Seq + 1
	}
	kind := "llm"
	if artifact.UsedFallback {
		kind = "fallback"
	}
	key := path.Join(dir, fmt.Sprintf("%04d-%s.js", seq, kind))
	if err := a.create(key, []byte(artifact.Code)); err != nil {
		return "", err
	}
	return key, nil
}

// History lists a job's archived artifacts, oldest first.
func (a *Archive) History(ctx context.Context, jobID string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := jobDir(jobID)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.list(dir)
}

// Read returns the contents stored at key.
func (a *Archive) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(a.basePath, filepath.FromSlash(cleanKey)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	return data, err
}

func (a *Archive) create(key string, data []byte) error {
	fullPath := filepath.Join(a.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("storage: ensure directory: %w", err)
	}
	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: %s", ErrExists, key)
	}
	if err != nil {
		return fmt.Errorf("storage: create file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("storage: write file: %w", err)
	}
	return f.Close()
}

func (a *Archive) list(dir string) ([]Entry, error) {
	items, err := os.ReadDir(filepath.Join(a.basePath, filepath.FromSlash(dir)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: list %s: %w", dir, err)
	}
	var out []Entry
	for _, item := range items {
		name := item.Name()
		if item.IsDir() || !strings.HasSuffix(name, ".js") {
			continue
		}
		seqPart, kind, ok := strings.Cut(strings.TrimSuffix(name, ".js"), "-")
		if !ok {
			continue
		}
		seq, err := strconv.Atoi(seqPart)
		if err != nil {
			continue
		}
		out = append(out, Entry{Key: path.Join(dir, name), Seq: seq, UsedFallback: kind == "fallback"})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func jobDir(jobID string) (string, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" || strings.ContainsAny(jobID, `/\`) {
		return "", errors.New("storage: invalid job id")
	}
	return sanitizeKey(path.Join("jobs", jobID))
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
