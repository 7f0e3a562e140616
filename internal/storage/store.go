// Package storage keeps recorded clips on disk: one directory per clip
// holding metadata.json, per-frame statistics in frames.csv and the
// animation as clip.gif.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	gifFile      = "clip.gif"
)

var ErrClipNotFound = errors.New("storage: clip not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type ClipMetadata struct {
	ID            string             `json:"id"`
	Visualization string             `json:"visualization"`
	Timestamp     time.Time          `json:"timestamp"`
	Seed          int64              `json:"seed"`
	FPS           int                `json:"fps"`
	Frames        int                `json:"frames"`
	Width         int                `json:"width"`
	Height        int                `json:"height"`
	Preset        string             `json:"preset,omitempty"`
	Packing       string             `json:"packing"`
	HasGIF        bool               `json:"has_gif"`
	Metrics       map[string]float64 `json:"metrics"`
}

type FrameStat struct {
	Frame    int
	Time     float64
	Delta    float64
	Coverage float64
}

// Encoder writes an animation, e.g. *export.GIFRecorder.
type Encoder interface {
	Encode(w io.Writer) error
}

// Save writes a new clip and returns its id. anim may be nil.
func (s *Store) Save(meta ClipMetadata, stats []FrameStat, anim Encoder) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	clipID, clipDir, err := s.allocate(meta.Visualization, meta.Timestamp)
	if err != nil {
		return "", err
	}
	meta.ID = clipID
	meta.Frames = len(stats)
	meta.HasGIF = anim != nil

	if err := writeJSON(filepath.Join(clipDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeStats(filepath.Join(clipDir, framesFile), stats); err != nil {
		return "", err
	}
	if anim != nil {
		f, err := os.Create(filepath.Join(clipDir, gifFile))
		if err != nil {
			return "", err
		}
		defer f.Close()
		if err := anim.Encode(f); err != nil {
			return "", fmt.Errorf("storage: encode clip: %w", err)
		}
	}

	return clipID, nil
}

func (s *Store) allocate(name string, ts time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", name, ts.Unix())
	for n := 0; ; n++ {
		id := base
		if n > 0 {
			id = fmt.Sprintf("%s-%d", base, n)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStats(path string, stats []FrameStat) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"frame", "time", "delta", "coverage"}); err != nil {
		return err
	}
	for _, st := range stats {
		row := []string{
			strconv.Itoa(st.Frame),
			strconv.FormatFloat(st.Time, 'f', 6, 64),
			strconv.FormatFloat(st.Delta, 'f', 6, 64),
			strconv.FormatFloat(st.Coverage, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable clip, newest first.
func (s *Store) List() ([]ClipMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ClipMetadata{}, nil
		}
		return nil, err
	}

	clips := make([]ClipMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		clips = append(clips, *meta)
	}

	sort.Slice(clips, func(i, j int) bool {
		return clips[i].Timestamp.After(clips[j].Timestamp)
	})
	return clips, nil
}

func (s *Store) Load(clipID string) (*ClipMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, clipID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrClipNotFound, clipID)
		}
		return nil, err
	}

	var meta ClipMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadStats reads frames.csv, skipping malformed rows.
func (s *Store) LoadStats(clipID string) ([]FrameStat, error) {
	file, err := os.Open(filepath.Join(s.baseDir, clipID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrClipNotFound, clipID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []FrameStat{}, nil
	}

	stats := make([]FrameStat, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 4 {
			continue
		}
		frame, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		vals := make([]float64, 3)
		ok := true
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(record[j+1], 64); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		stats = append(stats, FrameStat{Frame: frame, Time: vals[0], Delta: vals[1], Coverage: vals[2]})
	}
	return stats, nil
}

// GIFPath is where the clip animation lives, if it was recorded.
func (s *Store) GIFPath(clipID string) string {
	return filepath.Join(s.baseDir, clipID, gifFile)
}

// Delete removes a clip directory.
func (s *Store) Delete(clipID string) error {
	dir := filepath.Join(s.baseDir, clipID)
	if _, err := os.Stat(filepath.Join(dir, metadataFile)); err != nil {
		return fmt.Errorf("%w: %s", ErrClipNotFound, clipID)
	}
	return os.RemoveAll(dir)
}
