package aggregate

import (
	"sort"
	"time"

	"github.com/yourusername/horse-prefs/internal/models"
	"github.com/yourusername/horse-prefs/internal/normalize"
	"github.com/yourusername/horse-prefs/internal/season"
)

type comboKey struct {
	season  season.Code
	partner string
}

type comboCounter struct {
	counter
	lastDate time.Time
}

// BuildJockeyCombos tallies top-3 performance per season and jockey, with
// the most recent race date per combination.
func BuildJockeyCombos(horseID string, records []models.RaceRecord) []models.ComboPref {
	return buildCombos(horseID, records, func(r *models.RaceRecord) string { return r.Jockey })
}

// BuildTrainerCombos tallies top-3 performance per season and trainer.
func BuildTrainerCombos(horseID string, records []models.RaceRecord) []models.ComboPref {
	return buildCombos(horseID, records, func(r *models.RaceRecord) string { return r.Trainer })
}

func buildCombos(horseID string, records []models.RaceRecord, partner func(*models.RaceRecord) string) []models.ComboPref {
	stats := make(map[comboKey]*comboCounter)
	for i := range records {
		r := &records[i]
		name := partner(r)
		if !r.HasPlacing() || r.Date == nil || name == "" {
			continue
		}
		key := comboKey{season: season.Resolve(*r.Date), partner: name}
		c := stats[key]
		if c == nil {
			c = &comboCounter{}
			stats[key] = c
		}
		c.observe(r.IsTop3())
		if r.Date.After(c.lastDate) {
			c.lastDate = *r.Date
		}
	}

	now := updateStamp()
	prefs := make([]models.ComboPref, 0, len(stats))
	for key, c := range stats {
		prefs = append(prefs, models.ComboPref{
			HorseID:      horseID,
			Season:       key.season,
			Partner:      key.partner,
			PrefCounts:   c.counts(),
			LastRaceDate: normalize.ISODate(c.lastDate),
			LastUpdate:   now,
		})
	}
	sort.Slice(prefs, func(i, j int) bool {
		if prefs[i].Season != prefs[j].Season {
			return prefs[i].Season.StartYear() > prefs[j].Season.StartYear()
		}
		return prefs[i].Partner < prefs[j].Partner
	})
	return prefs
}

type jockeyTrainerKey struct {
	season  season.Code
	jockey  string
	trainer string
}

// BuildJockeyTrainerCombos tallies top-3 performance per season for each
// jockey and trainer pairing.
func BuildJockeyTrainerCombos(horseID string, records []models.RaceRecord) []models.JockeyTrainerPref {
	stats := make(map[jockeyTrainerKey]*comboCounter)
	for i := range records {
		r := &records[i]
		if !r.HasPlacing() || r.Date == nil || r.Jockey == "" || r.Trainer == "" {
			continue
		}
		key := jockeyTrainerKey{season: season.Resolve(*r.Date), jockey: r.Jockey, trainer: r.Trainer}
		c := stats[key]
		if c == nil {
			c = &comboCounter{}
			stats[key] = c
		}
		c.observe(r.IsTop3())
		if r.Date.After(c.lastDate) {
			c.lastDate = *r.Date
		}
	}

	now := updateStamp()
	prefs := make([]models.JockeyTrainerPref, 0, len(stats))
	for key, c := range stats {
		prefs = append(prefs, models.JockeyTrainerPref{
			HorseID:      horseID,
			Season:       key.season,
			Jockey:       key.jockey,
			Trainer:      key.trainer,
			PrefCounts:   c.counts(),
			LastRaceDate: normalize.ISODate(c.lastDate),
			LastUpdate:   now,
		})
	}
	sort.Slice(prefs, func(i, j int) bool {
		if prefs[i].Season != prefs[j].Season {
			return prefs[i].Season.StartYear() > prefs[j].Season.StartYear()
		}
		if prefs[i].Jockey != prefs[j].Jockey {
			return prefs[i].Jockey < prefs[j].Jockey
		}
		return prefs[i].Trainer < prefs[j].Trainer
	})
	return prefs
}
