package models

import "github.com/yourusername/horse-prefs/internal/season"

// Timestamp layouts used for the LastUpdate columns. Every preference table
// stores LastUpdate as text in UpdateTimeLayout; horse_rating predates the
// convention and keeps its own layout.
const (
	UpdateTimeLayout       = "2006/01/02 15:04"
	RatingUpdateTimeLayout = "2006-01-02 15:04:05"
)

// PrefCounts is the accumulator shared by every preference dimension.
type PrefCounts struct {
	Top3Count int     `db:"top3_count" json:"top3_count"`
	TotalRuns int     `db:"total_runs" json:"total_runs"`
	Top3Rate  float64 `db:"top3_rate" json:"top3_rate"`
}

// DistancePref is one row of horse_distance_pref.
type DistancePref struct {
	HorseID       string      `db:"horse_id" json:"horse_id"`
	Season        season.Code `db:"season" json:"season"`
	DistanceGroup string      `db:"distance_group" json:"distance_group"`
	PrefCounts
	LastUpdate string `db:"last_update" json:"last_update"`
}

// CoursePref is one row of horse_course_pref.
type CoursePref struct {
	HorseID    string      `db:"horse_id" json:"horse_id"`
	Season     season.Code `db:"season" json:"season"`
	RaceCourse string      `db:"race_course" json:"race_course"`
	CourseType string      `db:"course_type" json:"course_type"`
	PrefCounts
	LastUpdate string `db:"last_update" json:"last_update"`
}

// GoingPref is one row of horse_going_pref.
type GoingPref struct {
	HorseID   string      `db:"horse_id" json:"horse_id"`
	Season    season.Code `db:"season" json:"season"`
	GoingType string      `db:"going_type" json:"going_type"`
	PrefCounts
	LastUpdate string `db:"last_update" json:"last_update"`
}

// DrawPref is one row of horse_draw_pref.
type DrawPref struct {
	HorseID       string      `db:"horse_id" json:"horse_id"`
	Season        season.Code `db:"season" json:"season"`
	RaceCourse    string      `db:"race_course" json:"race_course"`
	DistanceGroup string      `db:"distance_group" json:"distance_group"`
	DrawGroup     string      `db:"draw_group" json:"draw_group"`
	PrefCounts
	LastUpdate string `db:"last_update" json:"last_update"`
}

// WeightPref is one row of horse_weight_pref. CarriedWeight holds the mean
// actual weight carried inside the bucket.
type WeightPref struct {
	HorseID       string      `db:"horse_id" json:"horse_id"`
	Season        season.Code `db:"season" json:"season"`
	DistanceGroup string      `db:"distance_group" json:"distance_group"`
	WeightGroup   string      `db:"weight_group" json:"weight_group"`
	CarriedWeight float64     `db:"carried_weight" json:"carried_weight"`
	PrefCounts
	LastUpdate string `db:"last_update" json:"last_update"`
}

// BWRDistancePref is one row of horse_bwr_distance_pref, keyed by the exact
// race distance rather than a distance group.
type BWRDistancePref struct {
	HorseID  string      `db:"horse_id" json:"horse_id"`
	Season   season.Code `db:"season" json:"season"`
	Distance int         `db:"distance" json:"distance"`
	BWRGroup string      `db:"bwr_group" json:"bwr_group"`
	PrefCounts
	LastUpdate string `db:"last_update" json:"last_update"`
}

// ClassJumpPref is one row of horse_class_jump_pref.
type ClassJumpPref struct {
	HorseID  string      `db:"horse_id" json:"horse_id"`
	Season   season.Code `db:"season" json:"season"`
	JumpType string      `db:"jump_type" json:"jump_type"`
	PrefCounts
	LastUpdate string `db:"last_update" json:"last_update"`
}

// HWTRTrend is one row of horse_hwtr_trend: historical weight trend ratio
// bucketed per class.
type HWTRTrend struct {
	HorseID   string      `db:"horse_id" json:"horse_id"`
	Season    season.Code `db:"season" json:"season"`
	Class     string      `db:"class" json:"class"`
	HWTRGroup string      `db:"hwtr_group" json:"hwtr_group"`
	PrefCounts
	LastUpdate string `db:"last_update" json:"last_update"`
}

// ComboPref is one row of horse_jockey_combo or horse_trainer_combo; Partner
// names the jockey or trainer respectively.
type ComboPref struct {
	HorseID string      `db:"horse_id" json:"horse_id"`
	Season  season.Code `db:"season" json:"season"`
	Partner string      `db:"partner" json:"partner"`
	PrefCounts
	LastRaceDate string `db:"last_race_date" json:"last_race_date"`
	LastUpdate   string `db:"last_update" json:"last_update"`
}

// JockeyTrainerPref is one row of horse_jockey_trainer_combo.
type JockeyTrainerPref struct {
	HorseID string      `db:"horse_id" json:"horse_id"`
	Season  season.Code `db:"season" json:"season"`
	Jockey  string      `db:"jockey" json:"jockey"`
	Trainer string      `db:"trainer" json:"trainer"`
	PrefCounts
	LastRaceDate string `db:"last_race_date" json:"last_race_date"`
	LastUpdate   string `db:"last_update" json:"last_update"`
}

// RunningPosition is one row of horse_running_position: the normalized
// per-race record that the running-style aggregation is rebuilt from.
type RunningPosition struct {
	HorseID       string      `db:"horse_id" json:"horse_id"`
	RaceDate      string      `db:"race_date" json:"race_date"` // ISO YYYY-MM-DD
	RaceID        string      `db:"race_id" json:"race_id"`
	RaceNumber    string      `db:"race_number" json:"race_number"`
	Season        season.Code `db:"season" json:"season"`
	RaceCourse    string      `db:"race_course" json:"race_course"`
	CourseType    string      `db:"course_type" json:"course_type"`
	DistanceGroup string      `db:"distance_group" json:"distance_group"`
	TurnCount     float64     `db:"turn_count" json:"turn_count"`
	EarlyPos      *int        `db:"early_pos" json:"early_pos"`
	MidPos        *float64    `db:"mid_pos" json:"mid_pos"`
	FinalPos      *int        `db:"final_pos" json:"final_pos"`
	FinishTime    *float64    `db:"finish_time" json:"finish_time"`
	Placing       *int        `db:"placing" json:"placing"`
	FieldSize     *int        `db:"field_size" json:"field_size"`
	LastUpdate    string      `db:"last_update" json:"last_update"`
}

// RunningStylePref is one row of horse_running_style_pref, the second-stage
// aggregate over RunningPosition rows.
type RunningStylePref struct {
	HorseID       string      `db:"horse_id" json:"horse_id"`
	Season        season.Code `db:"season" json:"season"`
	RaceCourse    string      `db:"race_course" json:"race_course"`
	CourseType    string      `db:"course_type" json:"course_type"`
	DistanceGroup string      `db:"distance_group" json:"distance_group"`
	TurnCount     float64     `db:"turn_count" json:"turn_count"`
	StyleBucket   string      `db:"style_bucket" json:"style_bucket"`
	PrefCounts
	LastUpdate string `db:"last_update" json:"last_update"`
}

// Rating is one row of horse_rating.
type Rating struct {
	HorseID            string      `db:"horse_id" json:"horse_id"`
	Season             season.Code `db:"season" json:"season"`
	AsOfDate           string      `db:"as_of_date" json:"as_of_date"` // ISO YYYY-MM-DD
	OfficialRating     float64     `db:"official_rating" json:"official_rating"`
	RatingStartSeason  float64     `db:"rating_start_season" json:"rating_start_season"`
	RatingStartCareer  float64     `db:"rating_start_career" json:"rating_start_career"`
	LastUpdate         string      `db:"last_update" json:"last_update"`
}

// FieldSize is one row of race_field_size, a cache of runner counts per race.
type FieldSize struct {
	RaceDate   string `db:"race_date" json:"race_date"`
	RaceNumber string `db:"race_number" json:"race_number"`
	RaceCourse string `db:"race_course" json:"race_course"`
	FieldSize  int    `db:"field_size" json:"field_size"`
}
