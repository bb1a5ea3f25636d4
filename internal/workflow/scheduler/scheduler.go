package scheduler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kingrea/gsd/internal/plans"
)

// Waves partitions plans by wave number.
type Waves struct {
	ByWave map[int][]plans.Plan
	// Order lists the distinct wave numbers in ascending order.
	Order []int
}

// GroupByWave partitions plans by wave, keeping input order within each wave.
// Empty input yields an empty mapping and an empty order.
func GroupByWave(items []plans.Plan) Waves {
	out := Waves{ByWave: map[int][]plans.Plan{}, Order: []int{}}
	for _, p := range items {
		wave := p.WaveNumber()
		if _, seen := out.ByWave[wave]; !seen {
			out.Order = append(out.Order, wave)
		}
		out.ByWave[wave] = append(out.ByWave[wave], p)
	}
	sort.Ints(out.Order)
	return out
}

// Request carries runtime constraints for NextBatch.
type Request struct {
	// BatchSize limits how many plans are returned. Values <= 0 mean no limit.
	BatchSize int
	// Approved lists non-autonomous plan ids whose checkpoint the user has
	// cleared.
	Approved []string
}

// Batch is the scheduler's decision for one step.
type Batch struct {
	// Wave is the wave the batch was drawn from; 0 when every plan is done.
	Wave    int
	Plans   []plans.Plan
	Skipped map[string]SkipReason
}

// Done reports whether no runnable work remains.
func (b Batch) Done() bool {
	return b.Wave == 0
}

// SkipReason explains why a plan was excluded from the batch.
type SkipReason struct {
	Reason SkipReasonCode
	Detail string
}

// SkipReasonCode enumerates scheduler skip reasons.
type SkipReasonCode string

const (
	SkipReasonComplete   SkipReasonCode = "already-complete"
	SkipReasonCheckpoint SkipReasonCode = "manual-checkpoint"
	SkipReasonBlocked    SkipReasonCode = "blocked-dependency"
	SkipReasonBatchLimit SkipReasonCode = "batch-limit"
)

// NextBatch returns the runnable plans of the lowest wave that still has
// incomplete work. Later waves are never considered until earlier ones finish.
func NextBatch(w Waves, req Request) Batch {
	complete := map[string]bool{}
	for _, wave := range w.Order {
		for _, p := range w.ByWave[wave] {
			complete[p.ID] = p.IsComplete
		}
	}
	approved := make(map[string]bool, len(req.Approved))
	for _, id := range req.Approved {
		approved[id] = true
	}

	for _, wave := range w.Order {
		members := w.ByWave[wave]
		if allComplete(members) {
			continue
		}
		batch := Batch{Wave: wave}
		for _, p := range members {
			switch {
			case p.IsComplete:
				batch.addSkip(p.ID, SkipReason{Reason: SkipReasonComplete, Detail: "summary exists"})
			case blockedBy(p, complete) != nil:
				batch.addSkip(p.ID, SkipReason{
					Reason: SkipReasonBlocked,
					Detail: "waiting on " + strings.Join(blockedBy(p, complete), ", "),
				})
			case !p.Autonomous && !approved[p.ID]:
				batch.addSkip(p.ID, SkipReason{Reason: SkipReasonCheckpoint, Detail: "awaiting user checkpoint"})
			case req.BatchSize > 0 && len(batch.Plans) >= req.BatchSize:
				batch.addSkip(p.ID, SkipReason{Reason: SkipReasonBatchLimit, Detail: fmt.Sprintf("batch size %d reached", req.BatchSize)})
			default:
				batch.Plans = append(batch.Plans, p)
			}
		}
		return batch
	}
	return Batch{}
}

func allComplete(members []plans.Plan) bool {
	for _, p := range members {
		if !p.IsComplete {
			return false
		}
	}
	return true
}

// blockedBy lists dependencies of p that are scheduled alongside it and not
// yet complete. Ids outside the scheduled set belong to earlier phases, which
// finish before this one starts, so they never block.
func blockedBy(p plans.Plan, complete map[string]bool) []string {
	var pending []string
	for _, dep := range p.DependsOn {
		if done, known := complete[dep]; known && !done {
			pending = append(pending, dep)
		}
	}
	return pending
}

func (b *Batch) addSkip(id string, reason SkipReason) {
	if id == "" {
		return
	}
	if b.Skipped == nil {
		b.Skipped = make(map[string]SkipReason)
	}
	b.Skipped[id] = reason
}
