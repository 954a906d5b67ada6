// internal/game/utils.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/majlis/internal/models"
)

// leader returns the id of the highest scorer, or nil when the top score is shared.
func leader(players []*models.Player) *uuid.UUID {
	var best *models.Player
	tied := false
	for _, p := range players {
		switch {
		case best == nil || p.Score > best.Score:
			best = p
			tied = false
		case p.Score == best.Score:
			tied = true
		}
	}
	if best == nil || tied {
		return nil
	}
	id := best.ID
	return &id
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
