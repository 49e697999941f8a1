package models

import "time"

// RaceRecord represents one historical race line for a single horse, as
// produced by an external race-history source. Every field is optional: a
// record that is missing a value required by one aggregator is skipped by
// that aggregator only, other aggregators may still consume it.
type RaceRecord struct {
	Date              *time.Time `json:"date"`
	Placing           *int       `json:"placing"`
	Distance          *int       `json:"distance"`
	RaceCourse        string     `json:"race_course"`
	CourseType        string     `json:"course_type"`
	Going             string     `json:"going"`
	ClassText         string     `json:"class_text"`
	DeclaredWeight    *int       `json:"declared_weight"`
	ActualWeight      *int       `json:"actual_weight"`
	Jockey            string     `json:"jockey"`
	Trainer           string     `json:"trainer"`
	DrawNumber        *int       `json:"draw_number"`
	FieldSize         *int       `json:"field_size"`
	EarlyPosition     *int       `json:"early_position"`
	MidPosition       *float64   `json:"mid_position"`
	FinalPosition     *int       `json:"final_position"`
	FinishTimeSeconds *float64   `json:"finish_time_seconds"`
	RaceID            string     `json:"race_id"`
	RaceNumber        string     `json:"race_number"`
}

// HasPlacing reports whether the record carries a usable finishing position.
func (r *RaceRecord) HasPlacing() bool {
	return r.Placing != nil && *r.Placing > 0
}

// IsTop3 reports whether the horse finished in the first three.
func (r *RaceRecord) IsTop3() bool {
	return r.HasPlacing() && *r.Placing <= 3
}
