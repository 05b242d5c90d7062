// Copyright (c) 2026 Triply. All rights reserved.

// Package social defines the target taxonomy shared by the comment and like
// features: both attach to either a destination or a schedule.
package social

// TargetType identifies what kind of entity a social interaction attaches to.
type TargetType string

const (
	TargetDestination TargetType = "destination"
	TargetSchedule    TargetType = "schedule"
)

// Valid reports whether t is a known target type.
func (t TargetType) Valid() bool {
	return t == TargetDestination || t == TargetSchedule
}
