// Copyright (c) 2026 Triply. All rights reserved.

// Package schedule implements traveller-authored trip schedules: a titled,
// dated plan whose details lay out which destination is visited on which day.
package schedule

import "time"

// Schedule is one trip plan owned by a traveller.
type Schedule struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Details are the ordered day-by-day stops. Populated on single fetches;
	// list queries leave it empty.
	Details []Detail `json:"details,omitempty"`

	// Social aggregation, populated by queries.
	LikeCount    int  `json:"like_count"`
	CommentCount int  `json:"comment_count"`
	IsLiked      bool `json:"is_liked"`
}

// Detail is one stop inside a schedule.
//
// Ordering is (Day, Sequence): day 2 sequence 1 is the first stop on the
// second day of the trip.
type Detail struct {
	ID         int64  `json:"id"`
	ScheduleID int64  `json:"-"`
	Day        int    `json:"day"`
	Sequence   int    `json:"sequence"`
	ContentID  int64  `json:"content_id"`
	Memo       string `json:"memo,omitempty"`
}
