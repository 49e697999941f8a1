package normalize

import (
	"fmt"

	"github.com/yourusername/horse-prefs/internal/models"
)

// Column positions of the scraped race-history table. This is the external
// contract with the row source; RecordFromRow validates the width before
// indexing anything.
const (
	ColPlacing        = 1
	ColDate           = 2
	ColCourse         = 3
	ColDistance       = 4
	ColGoing          = 5
	ColClass          = 6
	ColClassAlt       = 7 // some table variants shift class one cell right
	ColDraw           = 7
	ColTrainer        = 9
	ColJockey         = 10
	ColActualWeight   = 13
	ColRunningPos     = 14
	ColFinishTime     = 15
	ColDeclaredWeight = 16

	// MinRowWidth is the narrowest row any aggregator can use. Rows at least
	// this wide yield a record; fields beyond the actual width stay unset.
	MinRowWidth = 6
)

// RecordFromRow converts one column-indexed row of text cells into a typed
// RaceRecord. Rows narrower than MinRowWidth are rejected; otherwise every
// malformed cell simply leaves its field unset.
func RecordFromRow(cells []string) (models.RaceRecord, error) {
	if len(cells) < MinRowWidth {
		return models.RaceRecord{}, fmt.Errorf("%w: got %d cells, need %d", models.ErrRowTooShort, len(cells), MinRowWidth)
	}

	cell := func(i int) string {
		if i < len(cells) {
			return SanitizeText(cells[i])
		}
		return ""
	}

	rec := models.RaceRecord{
		Placing: CleanPlacing(cell(ColPlacing)),
		Date:    ParseDate(cell(ColDate)),
		Going:   cell(ColGoing),
		Trainer: cell(ColTrainer),
		Jockey:  cell(ColJockey),
	}

	rec.RaceCourse, rec.CourseType = ParseCourseInfo(cell(ColCourse))
	rec.Distance = ParseInt(cell(ColDistance))
	rec.ClassText = classCell(cell(ColClass), cell(ColClassAlt))
	rec.DrawNumber = ParseInt(cell(ColDraw))
	rec.ActualWeight = ParseWeight(cell(ColActualWeight))
	rec.DeclaredWeight = ParseWeight(cell(ColDeclaredWeight))
	rec.FinishTimeSeconds = FinishTimeSeconds(cell(ColFinishTime))

	early, mid, final := runningPositions(cell(ColRunningPos))
	rec.EarlyPosition = early
	rec.MidPosition = mid
	rec.FinalPosition = final

	return rec, nil
}

// classCell picks the class text, falling back to the shifted column when
// the primary cell is empty or carries no digit (table variant drift).
func classCell(primary, alt string) string {
	if primary != "" && containsDigit(primary) {
		return primary
	}
	if alt != "" {
		return alt
	}
	return primary
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// runningPositions splits an in-running cell like "5 4 2" or "7-6-3" into
// early, mid and final positions. A single value is the final position only.
func runningPositions(text string) (early *int, mid *float64, final *int) {
	if text == "" {
		return nil, nil, nil
	}
	fields := digitsRe.FindAllString(text, -1)
	switch len(fields) {
	case 0:
		return nil, nil, nil
	case 1:
		final = ParseInt(fields[0])
		return nil, nil, final
	case 2:
		early = ParseInt(fields[0])
		final = ParseInt(fields[1])
		return early, nil, final
	default:
		early = ParseInt(fields[0])
		mid = ParseFloat(fields[len(fields)/2])
		final = ParseInt(fields[len(fields)-1])
		return early, mid, final
	}
}
