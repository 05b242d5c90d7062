// Copyright (c) 2026 Triply. All rights reserved.

// Package like implements the like/unlike toggle on destinations and
// schedules.
//
// A like is a flagged row, not a deleted one: un-liking flips IsLiked to
// false and keeps the row, so a traveller's taste history survives their
// changes of heart and re-liking is a cheap flag flip.
package like

import (
	"time"

	"github.com/triply-app/triply/internal/social"
)

// Like is one traveller's like state on one target.
type Like struct {
	UserID     string            `json:"-"`
	TargetType social.TargetType `json:"target_type"`
	TargetID   int64             `json:"target_id"`
	IsLiked    bool              `json:"is_liked"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
