package storage

import (
	"encoding/json"
	"os"
)

type ExportData struct {
	ClipMetadata
	Times    []float64 `json:"times"`
	Deltas   []float64 `json:"deltas"`
	Coverage []float64 `json:"coverage"`
}

// ExportJSON writes a clip's metadata and frame statistics as one document.
func (s *Store) ExportJSON(path, clipID string) error {
	meta, err := s.Load(clipID)
	if err != nil {
		return err
	}
	stats, err := s.LoadStats(clipID)
	if err != nil {
		return err
	}

	data := ExportData{
		ClipMetadata: *meta,
		Times:        make([]float64, len(stats)),
		Deltas:       make([]float64, len(stats)),
		Coverage:     make([]float64, len(stats)),
	}
	for i, st := range stats {
		data.Times[i] = st.Time
		data.Deltas[i] = st.Delta
		data.Coverage[i] = st.Coverage
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
