// Package suggestions ranks users a member is not yet connected with by how
// much their profiles overlap.
package suggestions

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"skilllink/backend/models"
	"skilllink/backend/store"
)

const (
	skillsWeight     = 0.5
	universityWeight = 0.3
	fieldWeight      = 0.2

	// Limit caps the number of suggestions returned.
	Limit = 20
)

// Match represents a suggested user and their overlap score in [0, 1].
type Match struct {
	ID              int64    `json:"id"`
	Score           float64  `json:"score"`
	Name            string   `json:"name"`
	Role            string   `json:"role"`
	University      *string  `json:"university"`
	Field           *string  `json:"field"`
	ProfileImageURL *string  `json:"profileImageUrl"`
	SharedSkills    []string `json:"sharedSkills"`
}

type Source interface {
	store.UserStore
	store.ConnectionStore
}

// Suggest returns up to Limit users ranked by score, excluding the user,
// anyone with a pending or accepted connection to them, and zero scores.
func Suggest(ctx context.Context, src Source, userID int64) ([]Match, error) {
	me, err := src.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	connections, err := src.ListConnections(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("error loading connections: %w", err)
	}
	excluded := map[int64]bool{userID: true}
	for _, c := range connections {
		if c.Status != models.ConnectionRejected {
			excluded[c.OtherUserID] = true
		}
	}

	users, err := src.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading users: %w", err)
	}

	matches := []Match{}
	for i := range users {
		u := &users[i]
		if excluded[u.ID] {
			continue
		}
		score, shared := Score(me, u)
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{
			ID:              u.ID,
			Score:           score,
			Name:            u.DisplayName(),
			Role:            u.Role,
			University:      u.University,
			Field:           u.Field,
			ProfileImageURL: u.ProfileImageURL,
			SharedSkills:    shared,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})
	if len(matches) > Limit {
		matches = matches[:Limit]
	}
	return matches, nil
}

// Score weighs skill overlap at 50%, the same university at 30% and the same
// field at 20%. Skill overlap is the share of me's skills the other user also
// lists, compared case-insensitively.
func Score(me, other *models.User) (float64, []string) {
	var score float64

	shared := sharedSkills(me.Skills, other.Skills)
	if n := len(uniqueFold(me.Skills)); n > 0 {
		score += skillsWeight * float64(len(shared)) / float64(n)
	}
	if sameText(me.University, other.University) {
		score += universityWeight
	}
	if sameText(me.Field, other.Field) {
		score += fieldWeight
	}
	return score, shared
}

func sharedSkills(mine, theirs []string) []string {
	set := make(map[string]bool, len(theirs))
	for _, s := range theirs {
		set[strings.ToLower(strings.TrimSpace(s))] = true
	}
	shared := []string{}
	for _, s := range uniqueFold(mine) {
		if set[strings.ToLower(s)] {
			shared = append(shared, s)
		}
	}
	return shared
}

func uniqueFold(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func sameText(a, b *string) bool {
	if a == nil || b == nil {
		return false
	}
	x, y := strings.TrimSpace(*a), strings.TrimSpace(*b)
	return x != "" && strings.EqualFold(x, y)
}
