package reliever

import (
	"net/http"
	"sort"
	"time"

	"github.com/tonyorjime-cloud/WorNest/internal/rank"
	"github.com/tonyorjime-cloud/WorNest/internal/shared/apperror"
)

// ErrNoEligibleReliever means the eligible pool was empty. The leave
// workflow surfaces it and keeps the request pending; nothing retries
// automatically.
var ErrNoEligibleReliever = apperror.New(
	apperror.CodeNoEligibleReliever,
	"no eligible reliever available for the requested period",
	http.StatusUnprocessableEntity,
)

// Candidate is one member of the eligible pool: an active staff member
// other than the requester with no approved leave overlapping the
// requested interval. The caller builds the pool; Resolve only ranks it.
type Candidate struct {
	StaffID   string
	RankRaw   string
	OpenTasks int // current open assignment load, first tie-break
}

type Request struct {
	RequesterID      string
	RequesterRankRaw string
	StartDate        time.Time
	EndDate          time.Time
	Now              time.Time // evaluation date, passed in explicitly
}

type Selection struct {
	StaffID string

	// Relaxed records whether the future-year planning relaxation was in
	// force, even when the pool had a single candidate and the rank rule
	// was never exercised. Kept on the leave request for audit.
	Relaxed bool

	Distance          int
	RequesterLevel    int
	RequesterResolved bool
}

type scoredCandidate struct {
	Candidate
	distance int
}

// Resolve picks exactly one reliever from the pool.
//
// Leave starting in a calendar year strictly after Now suspends the
// nearest-in-rank constraint (planning relaxation); otherwise candidates
// are ranked by rank distance to the requester. Ties break by lowest
// open-task load, then staff id, so selection is deterministic.
// Unknown-rank candidates are never excluded: rank.UnknownDistance just
// sorts them behind every resolvable rank.
func Resolve(req Request, pool []Candidate, dir *rank.Directory) (Selection, error) {
	relaxed := req.StartDate.Year() > req.Now.Year()

	_, requesterLevel, requesterResolved := dir.Canonicalize(req.RequesterRankRaw)

	scored := make([]scoredCandidate, 0, len(pool))
	for _, c := range pool {
		if c.StaffID == req.RequesterID {
			continue
		}
		_, level, _ := dir.Canonicalize(c.RankRaw)
		scored = append(scored, scoredCandidate{
			Candidate: c,
			distance:  rank.Distance(requesterLevel, level),
		})
	}

	if len(scored) == 0 {
		return Selection{
			Relaxed:           relaxed,
			RequesterLevel:    requesterLevel,
			RequesterResolved: requesterResolved,
		}, ErrNoEligibleReliever
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if !relaxed && a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.OpenTasks != b.OpenTasks {
			return a.OpenTasks < b.OpenTasks
		}
		return a.StaffID < b.StaffID
	})

	best := scored[0]
	return Selection{
		StaffID:           best.StaffID,
		Relaxed:           relaxed,
		Distance:          best.distance,
		RequesterLevel:    requesterLevel,
		RequesterResolved: requesterResolved,
	}, nil
}
