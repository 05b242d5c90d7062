// Copyright (c) 2026 Triply. All rights reserved.

// Package comment implements traveller comments on destinations and schedules.
package comment

import (
	"time"

	"github.com/triply-app/triply/internal/social"
)

// Comment is one remark a traveller left on a destination or schedule.
type Comment struct {
	ID             int64             `json:"id"`
	AuthorID       string            `json:"-"`
	AuthorNickname string            `json:"author_nickname"`
	TargetType     social.TargetType `json:"target_type"`
	TargetID       int64             `json:"target_id"`
	Content        string            `json:"content"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// MaxContentLength bounds a single comment.
const MaxContentLength = 500
