package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bellapacxx/sandbox-backend/models"
	"github.com/bellapacxx/sandbox-backend/utils/logger"
)

// LoadDeckTemplates reads a JSON array of deck templates from path.
func LoadDeckTemplates(path string) ([]models.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var grids []models.Grid
	if err := json.Unmarshal(data, &grids); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return grids, nil
}

// SeedDecks stores every template from path that is not stored yet.
func (s *RoomService) SeedDecks(ctx context.Context, path string) (int, error) {
	grids, err := LoadDeckTemplates(path)
	if err != nil {
		return 0, err
	}

	ids := make([]string, 0, len(grids))
	for _, g := range grids {
		if g.ID != "" {
			ids = append(ids, g.ID)
		}
	}
	existing, err := s.store.FindGrids(ctx, ids)
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, g := range existing {
		have[g.ID] = true
	}

	added := 0
	for i := range grids {
		if have[grids[i].ID] {
			continue
		}
		if _, err := s.AddDeck(ctx, &grids[i]); err != nil {
			return added, err
		}
		added++
	}
	logger.Infof("Loaded %d deck templates from %s (%d new)", len(grids), path, added)
	return added, nil
}
