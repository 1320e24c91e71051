// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package evaluation

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
)

// PersonalisedReport holds the personalised metrics for one k.
type PersonalisedReport struct {
	Metric    string  `json:"metric"`
	Strategy  string  `json:"strategy"`
	K         int     `json:"k"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Coverage  float64 `json:"coverage"`
	Users     int     `json:"users"`
	TestUsers int     `json:"test_users"`
}

// PersonalisedEvaluator scores a multi-target recommender against held-out
// ratings. Matrices are keyed (user, item).
type PersonalisedEvaluator struct {
	rec       algorithms.MultiTarget
	threshold float64
	test      *recommend.Matrix
	recs      map[int][]*recommend.Item
}

// NewPersonalisedEvaluator computes each train user's recommendation list
// once. A user's targets are the catalog items they rated at or above
// threshold in train; ids missing from the catalog are skipped.
func NewPersonalisedEvaluator(rec algorithms.MultiTarget, threshold float64, train, test *recommend.Matrix) *PersonalisedEvaluator {
	catalog := rec.Catalog()
	users := train.RowIDs()
	lists := make([][]*recommend.Item, len(users))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, user := range users {
		g.Go(func() error {
			var targets []*recommend.Item
			for _, itemID := range train.ColIDs(user) {
				if train.Value(user, itemID) < threshold {
					continue
				}
				if item, ok := catalog.Get(itemID); ok {
					targets = append(targets, item)
				}
			}
			lists[i] = rec.Recommend(targets)
			return nil
		})
	}
	_ = g.Wait()

	recs := make(map[int][]*recommend.Item, len(users))
	for i, user := range users {
		recs[user] = lists[i]
	}

	return &PersonalisedEvaluator{
		rec:       rec,
		threshold: threshold,
		test:      test,
		recs:      recs,
	}
}

// Recommendations returns the cached list for a user, or nil for users absent
// from the train matrix.
func (p *PersonalisedEvaluator) Recommendations(userID int) []*recommend.Item {
	return p.recs[userID]
}

// PrecisionRecallF1 returns precision, recall and F1 at k averaged over every
// user in the test matrix.
//
// Hits are counted in the first min(k, len(list)) recommendations; precision
// still divides by k. Users absent from train have an empty list. Non-positive
// k yields zeros.
func (p *PersonalisedEvaluator) PrecisionRecallF1(k int) (precision, recall, f1 float64) {
	users := p.test.RowIDs()
	if len(users) == 0 || k <= 0 {
		return 0, 0, 0
	}

	for _, user := range users {
		liked := make(map[int]struct{})
		for _, itemID := range p.test.ColIDs(user) {
			if p.test.Value(user, itemID) >= p.threshold {
				liked[itemID] = struct{}{}
			}
		}

		hits := 0
		for _, it := range algorithms.TopK(p.recs[user], k) {
			if _, ok := liked[it.ID]; ok {
				hits++
			}
		}

		prec := float64(hits) / float64(k)
		var rec float64
		if len(liked) > 0 {
			rec = float64(hits) / float64(len(liked))
		}
		var f float64
		if prec > 0 && rec > 0 {
			f = 2 * prec * rec / (prec + rec)
		}

		precision += prec
		recall += rec
		f1 += f
	}

	n := float64(len(users))
	return precision / n, recall / n, f1 / n
}

// Coverage returns the fraction of train users with at least one
// recommendation.
func (p *PersonalisedEvaluator) Coverage() float64 {
	if len(p.recs) == 0 {
		return 0
	}
	n := 0
	for _, recs := range p.recs {
		if len(recs) > 0 {
			n++
		}
	}
	return float64(n) / float64(len(p.recs))
}

// Report computes every personalised metric for k.
func (p *PersonalisedEvaluator) Report(k int) PersonalisedReport {
	precision, recall, f1 := p.PrecisionRecallF1(k)
	return PersonalisedReport{
		Metric:    p.rec.Metric().Name(),
		Strategy:  p.rec.Aggregation().String(),
		K:         k,
		Precision: precision,
		Recall:    recall,
		F1:        f1,
		Coverage:  p.Coverage(),
		Users:     len(p.recs),
		TestUsers: p.test.Len(),
	}
}
