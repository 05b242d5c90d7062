// Copyright (c) 2026 Triply. All rights reserved.

// Package destination implements the travel destination catalogue.
//
// Destinations originate from the public tourism open-data API and are
// enriched at query time with social signals (like and comment counts)
// produced by travellers on the platform.
package destination

import "time"

// Destination represents a single place of interest in the catalogue.
//
// ContentID is the upstream open-data identifier and doubles as the public
// primary key, so re-importing the catalogue never renumbers existing rows.
type Destination struct {
	ContentID   int64     `json:"content_id"`
	Title       string    `json:"title"`
	Address     string    `json:"address,omitempty"`
	Address2    string    `json:"address2,omitempty"`
	Zipcode     string    `json:"zipcode,omitempty"`
	Tel         string    `json:"tel,omitempty"`
	Homepage    string    `json:"homepage,omitempty"`
	CategoryID  int       `json:"category_id"`
	AreaCode    int       `json:"area_code"`
	FirstImage  string    `json:"first_image,omitempty"`
	FirstImage2 string    `json:"first_image2,omitempty"`
	MapX        float64   `json:"map_x,omitempty"`
	MapY        float64   `json:"map_y,omitempty"`
	Overview    string    `json:"overview,omitempty"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	// Social aggregation, populated by catalogue queries.
	LikeCount    int  `json:"like_count"`
	CommentCount int  `json:"comment_count"`
	IsLiked      bool `json:"is_liked"`
}

// Filter narrows a catalogue search.
//
// CategoryIDs are OR-ed together; Title matches as a case-insensitive
// substring. Zero values disable the respective criterion.
type Filter struct {
	CategoryIDs []int
	Title       string
}

// RankingEntry is one row of the destination popularity leaderboard.
type RankingEntry struct {
	Rank        int         `json:"rank"`
	Destination Destination `json:"destination"`
}
