package ingest

import (
	"encoding/json"
	"fmt"
	"os"
)

// Input is one scrape output document: a film record plus its episode
// structure.
type Input struct {
	Film     Film      `json:"film"`
	Episodes *Episodes `json:"episodes"`
}

// ReadInput loads and validates a scrape output file.
func ReadInput(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parsing input %s: %w", path, err)
	}

	if in.Film.Slug == "" {
		return nil, fmt.Errorf("input %s: film slug is required", path)
	}
	if in.Film.Title == "" {
		return nil, fmt.Errorf("input %s: film title is required", path)
	}
	switch in.Film.Type {
	case "", FilmTypeMovie, FilmTypeSeries:
	default:
		return nil, fmt.Errorf("input %s: unknown film type %q", path, in.Film.Type)
	}

	return &in, nil
}
