package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/yourusername/horse-prefs/internal/models"
	"github.com/yourusername/horse-prefs/internal/season"
)

// fakeQuerier records executed statements and returns scripted errors, in
// order, one per Exec call.
type fakeQuerier struct {
	execs    []string
	execArgs [][]any
	errs     []error
}

func (f *fakeQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	f.execArgs = append(f.execArgs, args)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return pgconn.CommandTag{}, err
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return errRow{}
}

type errRow struct{}

func (errRow) Scan(dest ...any) error { return pgx.ErrNoRows }

func weightPref(horseID, seasonCode, distGroup, weightGroup string) models.WeightPref {
	p := models.WeightPref{
		HorseID:       horseID,
		Season:        season.Code(seasonCode),
		DistanceGroup: distGroup,
		WeightGroup:   weightGroup,
		CarriedWeight: 120,
		LastUpdate:    "2024/10/06 12:00",
	}
	p.Top3Count = 1
	p.TotalRuns = 2
	p.Top3Rate = 0.25
	return p
}

func TestWeightPrefUpsertRequiresHorseID(t *testing.T) {
	q := &fakeQuerier{}
	repo := NewPostgresWeightPrefRepository(q, logrus.New())

	pref := weightPref("", "24/25", "Short", "Mid")
	if err := repo.Upsert(context.Background(), &pref); !errors.Is(err, models.ErrHorseIDRequired) {
		t.Fatalf("expected ErrHorseIDRequired, got %v", err)
	}
	if len(q.execs) != 0 {
		t.Fatal("no statement should run without a horse ID")
	}
}

func TestWeightPrefBatchSkipsStaleConstraintDuplicates(t *testing.T) {
	// The second row trips a unique index left over from before
	// distance_group joined the key. The batch must log a warning, skip it
	// and carry on.
	q := &fakeQuerier{
		errs: []error{
			nil,
			&pgconn.PgError{Code: "23505", ConstraintName: "horse_weight_pref_season_weight_group_key"},
			nil,
		},
	}
	log, hook := logrustest.NewNullLogger()
	repo := NewPostgresWeightPrefRepository(q, log)

	prefs := []models.WeightPref{
		weightPref("K001", "24/25", "Short", "Mid"),
		weightPref("K001", "24/25", "Mid", "Mid"),
		weightPref("K001", "24/25", "Long", "Mid"),
	}
	if err := repo.UpsertBatch(context.Background(), prefs); err != nil {
		t.Fatalf("batch should survive a duplicate: %v", err)
	}

	if len(q.execs) != 3 {
		t.Fatalf("expected all 3 rows attempted, got %d", len(q.execs))
	}

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "Duplicate weight_pref record skipped" {
			warned = true
		}
	}
	if !warned {
		t.Fatal("expected a skip warning in the log")
	}
}

func TestWeightPrefBatchStopsOnOtherErrors(t *testing.T) {
	q := &fakeQuerier{
		errs: []error{
			&pgconn.PgError{Code: "42P01", Message: "relation does not exist"},
		},
	}
	log, _ := logrustest.NewNullLogger()
	repo := NewPostgresWeightPrefRepository(q, log)

	prefs := []models.WeightPref{
		weightPref("K001", "24/25", "Short", "Mid"),
		weightPref("K001", "24/25", "Mid", "Mid"),
	}
	err := repo.UpsertBatch(context.Background(), prefs)
	if err == nil {
		t.Fatal("expected the batch to fail")
	}
	if len(q.execs) != 1 {
		t.Fatalf("expected the batch to stop after the failure, got %d statements", len(q.execs))
	}
}

func TestDistancePrefUpsertBindsKeyColumns(t *testing.T) {
	q := &fakeQuerier{}
	repo := NewPostgresDistancePrefRepository(q)

	pref := models.DistancePref{
		HorseID:       "K002",
		Season:        "23/24",
		DistanceGroup: "Sprint",
		LastUpdate:    "2024/10/06 12:00",
	}
	pref.Top3Count = 2
	pref.TotalRuns = 5
	pref.Top3Rate = 0.4

	if err := repo.Upsert(context.Background(), &pref); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if len(q.execArgs) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(q.execArgs))
	}
	args := q.execArgs[0]
	if args[0] != "K002" || args[2] != "Sprint" {
		t.Fatalf("unexpected bind order: %v", args)
	}
}

func TestRunningPositionUpsertPreservesFieldSize(t *testing.T) {
	q := &fakeQuerier{}
	repo := NewPostgresRunningPositionRepository(q)

	pos := models.RunningPosition{
		HorseID:  "K003",
		RaceID:   "20241006_ST_05",
		RaceDate: "2024-10-06",
		Season:   "24/25",
	}
	if err := repo.Upsert(context.Background(), &pos); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	// A NULL incoming field size must not clobber a stored one.
	if len(q.execs) != 1 || !strings.Contains(q.execs[0], "COALESCE(EXCLUDED.field_size") {
		t.Fatalf("upsert must coalesce field_size: %s", q.execs[0])
	}
}
