package services

import (
	"fmt"
	"strings"

	"github.com/Dosada05/bracket-live/models"
)

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func cloneNames(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

func normalizePlayerName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrPlayerNameRequired
	}
	if trimmed == models.Bye {
		return "", fmt.Errorf("%w: %q", ErrPlayerNameReserved, trimmed)
	}
	return trimmed, nil
}

// normalizeRoster trims every name and rejects blanks, reserved names,
// duplicates and rosters over maxPlayers.
func normalizeRoster(names []string, maxPlayers int) ([]string, error) {
	if len(names) > maxPlayers {
		return nil, fmt.Errorf("%w: %d players, limit is %d", ErrTooManyPlayers, len(names), maxPlayers)
	}
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		trimmed, err := normalizePlayerName(name)
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", i+1, err)
		}
		if _, dup := seen[trimmed]; dup {
			return nil, fmt.Errorf("%w: %q", ErrPlayerNameConflict, trimmed)
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out, nil
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
