package reliever_test

import (
	"errors"
	"testing"
	"time"

	"github.com/tonyorjime-cloud/WorNest/internal/rank"
	"github.com/tonyorjime-cloud/WorNest/internal/reliever"

	"github.com/stretchr/testify/assert"
)

func testDirectory() *rank.Directory {
	return rank.NewDirectory(
		[]rank.Rank{
			{Name: "Officer", Level: 2},
			{Name: "Engineer", Level: 3},
			{Name: "Supervisor", Level: 4},
			{Name: "Manager", Level: 5},
		},
		[]rank.Alias{
			{Value: "sr. eng", RankName: "Engineer"},
		},
	)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve_NearestInRank(t *testing.T) {
	dir := testDirectory()
	req := reliever.Request{
		RequesterID:      "staff-a",
		RequesterRankRaw: "Supervisor",
		StartDate:        date(2025, 3, 10),
		EndDate:          date(2025, 3, 14),
		Now:              date(2025, 3, 1),
	}

	t.Run("same rank beats adjacent rank", func(t *testing.T) {
		sel, err := reliever.Resolve(req, []reliever.Candidate{
			{StaffID: "staff-c", RankRaw: "Manager"},
			{StaffID: "staff-b", RankRaw: "Supervisor"},
		}, dir)

		assert.NoError(t, err)
		assert.Equal(t, "staff-b", sel.StaffID)
		assert.Equal(t, 0, sel.Distance)
		assert.False(t, sel.Relaxed)
		assert.True(t, sel.RequesterResolved)
	})

	t.Run("selected distance is minimal over the pool", func(t *testing.T) {
		pool := []reliever.Candidate{
			{StaffID: "s1", RankRaw: "Officer"},     // distance 2
			{StaffID: "s2", RankRaw: "Engineer"},    // distance 1
			{StaffID: "s3", RankRaw: "Manager"},     // distance 1
			{StaffID: "s4", RankRaw: "nonexistent"}, // unknown
		}
		sel, err := reliever.Resolve(req, pool, dir)

		assert.NoError(t, err)
		assert.Equal(t, 1, sel.Distance)
		assert.Equal(t, "s2", sel.StaffID) // distance tie broken by id
	})

	t.Run("equal distance breaks by load then id", func(t *testing.T) {
		sel, err := reliever.Resolve(req, []reliever.Candidate{
			{StaffID: "s1", RankRaw: "Supervisor", OpenTasks: 4},
			{StaffID: "s2", RankRaw: "Supervisor", OpenTasks: 1},
			{StaffID: "s3", RankRaw: "Supervisor", OpenTasks: 1},
		}, dir)

		assert.NoError(t, err)
		assert.Equal(t, "s2", sel.StaffID)
	})

	t.Run("alias resolves before scoring", func(t *testing.T) {
		sel, err := reliever.Resolve(req, []reliever.Candidate{
			{StaffID: "s1", RankRaw: "Officer"},
			{StaffID: "s2", RankRaw: "SR.  ENG"}, // Engineer, distance 1
		}, dir)

		assert.NoError(t, err)
		assert.Equal(t, "s2", sel.StaffID)
	})

	t.Run("requester is skipped even if present in pool", func(t *testing.T) {
		sel, err := reliever.Resolve(req, []reliever.Candidate{
			{StaffID: "staff-a", RankRaw: "Supervisor"},
			{StaffID: "s9", RankRaw: "Manager"},
		}, dir)

		assert.NoError(t, err)
		assert.Equal(t, "s9", sel.StaffID)
	})
}

func TestResolve_UnknownRanks(t *testing.T) {
	dir := testDirectory()
	req := reliever.Request{
		RequesterID:      "staff-a",
		RequesterRankRaw: "Supervisor",
		StartDate:        date(2025, 3, 10),
		EndDate:          date(2025, 3, 14),
		Now:              date(2025, 3, 1),
	}

	t.Run("unknown candidate sorts behind resolvable ranks", func(t *testing.T) {
		sel, err := reliever.Resolve(req, []reliever.Candidate{
			{StaffID: "s1", RankRaw: "???"},
			{StaffID: "s2", RankRaw: "Officer"}, // distance 2, still wins
		}, dir)

		assert.NoError(t, err)
		assert.Equal(t, "s2", sel.StaffID)
	})

	t.Run("unknown-only pool still selects", func(t *testing.T) {
		sel, err := reliever.Resolve(req, []reliever.Candidate{
			{StaffID: "s1", RankRaw: "???"},
		}, dir)

		assert.NoError(t, err)
		assert.Equal(t, "s1", sel.StaffID)
		assert.Equal(t, rank.UnknownDistance, sel.Distance)
	})

	t.Run("unknown requester rank never empties the pool", func(t *testing.T) {
		unknownReq := req
		unknownReq.RequesterRankRaw = "Grand Vizier"

		sel, err := reliever.Resolve(unknownReq, []reliever.Candidate{
			{StaffID: "s1", RankRaw: "Officer"},
			{StaffID: "s2", RankRaw: "Manager"},
		}, dir)

		assert.NoError(t, err)
		assert.False(t, sel.RequesterResolved)
		assert.NotEmpty(t, sel.StaffID)
	})
}

func TestResolve_FutureYearRelaxation(t *testing.T) {
	dir := testDirectory()

	t.Run("next calendar year relaxes the rank rule", func(t *testing.T) {
		req := reliever.Request{
			RequesterID:      "staff-a",
			RequesterRankRaw: "Supervisor",
			StartDate:        date(2026, 3, 10),
			EndDate:          date(2026, 3, 14),
			Now:              date(2025, 3, 1),
		}
		sel, err := reliever.Resolve(req, []reliever.Candidate{
			{StaffID: "s1", RankRaw: "Supervisor", OpenTasks: 5}, // distance 0, heavy load
			{StaffID: "s2", RankRaw: "Officer", OpenTasks: 0},    // distance 2, idle
		}, dir)

		assert.NoError(t, err)
		assert.True(t, sel.Relaxed)
		// rank distance ignored, load decides
		assert.Equal(t, "s2", sel.StaffID)
	})

	t.Run("later date in the same year is not relaxed", func(t *testing.T) {
		req := reliever.Request{
			RequesterID:      "staff-a",
			RequesterRankRaw: "Supervisor",
			StartDate:        date(2025, 12, 31),
			EndDate:          date(2025, 12, 31),
			Now:              date(2025, 1, 1),
		}
		sel, err := reliever.Resolve(req, []reliever.Candidate{
			{StaffID: "s1", RankRaw: "Supervisor", OpenTasks: 5},
			{StaffID: "s2", RankRaw: "Officer", OpenTasks: 0},
		}, dir)

		assert.NoError(t, err)
		assert.False(t, sel.Relaxed)
		assert.Equal(t, "s1", sel.StaffID)
	})

	t.Run("relaxed flag recorded for single-candidate pool", func(t *testing.T) {
		req := reliever.Request{
			RequesterID:      "staff-a",
			RequesterRankRaw: "Supervisor",
			StartDate:        date(2026, 1, 5),
			EndDate:          date(2026, 1, 9),
			Now:              date(2025, 11, 20),
		}
		sel, err := reliever.Resolve(req, []reliever.Candidate{
			{StaffID: "s1", RankRaw: "Supervisor"},
		}, dir)

		assert.NoError(t, err)
		assert.True(t, sel.Relaxed)
	})
}

func TestResolve_EmptyPool(t *testing.T) {
	dir := testDirectory()
	req := reliever.Request{
		RequesterID:      "staff-a",
		RequesterRankRaw: "Supervisor",
		StartDate:        date(2026, 3, 10),
		EndDate:          date(2026, 3, 14),
		Now:              date(2025, 3, 1),
	}

	t.Run("empty pool fails", func(t *testing.T) {
		sel, err := reliever.Resolve(req, nil, dir)

		assert.True(t, errors.Is(err, reliever.ErrNoEligibleReliever))
		assert.Empty(t, sel.StaffID)
		// relaxation state still recorded for audit
		assert.True(t, sel.Relaxed)
	})

	t.Run("pool containing only the requester fails", func(t *testing.T) {
		_, err := reliever.Resolve(req, []reliever.Candidate{
			{StaffID: "staff-a", RankRaw: "Supervisor"},
		}, dir)

		assert.True(t, errors.Is(err, reliever.ErrNoEligibleReliever))
	})
}
