package repository

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/horse-prefs/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Distance        DistancePrefRepository
	Course          CoursePrefRepository
	Going           GoingPrefRepository
	Draw            DrawPrefRepository
	Weight          WeightPrefRepository
	BWRDistance     BWRDistancePrefRepository
	ClassJump       ClassJumpPrefRepository
	HWTR            HWTRTrendRepository
	JockeyCombo     ComboPrefRepository
	TrainerCombo    ComboPrefRepository
	JockeyTrainer   JockeyTrainerPrefRepository
	RunningPosition RunningPositionRepository
	RunningStyle    RunningStylePrefRepository
	Rating          RatingRepository
	FieldSize       FieldSizeRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db database.Querier, log *logrus.Logger) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Distance:        NewPostgresDistancePrefRepository(db),
		Course:          NewPostgresCoursePrefRepository(db),
		Going:           NewPostgresGoingPrefRepository(db),
		Draw:            NewPostgresDrawPrefRepository(db),
		Weight:          NewPostgresWeightPrefRepository(db, log),
		BWRDistance:     NewPostgresBWRDistancePrefRepository(db),
		ClassJump:       NewPostgresClassJumpPrefRepository(db),
		HWTR:            NewPostgresHWTRTrendRepository(db),
		JockeyCombo:     NewPostgresJockeyComboRepository(db),
		TrainerCombo:    NewPostgresTrainerComboRepository(db),
		JockeyTrainer:   NewPostgresJockeyTrainerPrefRepository(db),
		RunningPosition: NewPostgresRunningPositionRepository(db),
		RunningStyle:    NewPostgresRunningStylePrefRepository(db),
		Rating:          NewPostgresRatingRepository(db),
		FieldSize:       NewPostgresFieldSizeRepository(db),
	}, nil
}

// sortBySeasonDesc orders rows newest season first. Season codes are two
// two-digit years, so lexical SQL ordering would break at a century
// boundary; sorting on the parsed start year avoids that.
func sortBySeasonDesc[T any](rows []T, startYear func(*T) int) {
	sort.SliceStable(rows, func(i, j int) bool {
		return startYear(&rows[i]) > startYear(&rows[j])
	})
}
