// Package select implements selection and bucket backfill: it partitions
// event-gate passers into channel buckets, round-robins to satisfy per-bucket
// minimums, and backfills from progressively broader pool tiers when a
// bucket falls short, marking the day sparse when even backfill cannot
// reach the configured floor.
package selectpkg

import (
	"sort"

	"briefline/internal/domain/entity"
	"briefline/internal/usecase/score"
)

// bucketByCategory is the secondary bucket-mapping table:
// business covers funding/market/regulatory signal, tech covers the
// technical/scientific categories, product covers categories that describe a
// shippable thing a consumer or developer would use, and everything else
// falls to other.
var bucketByCategory = map[entity.Category]entity.Bucket{
	entity.CategoryStartupsFunding:  entity.BucketBusiness,
	entity.CategoryFinance:          entity.BucketBusiness,
	entity.CategoryPolicyRegulation: entity.BucketBusiness,
	entity.CategoryTechnology:       entity.BucketTech,
	entity.CategoryAI:               entity.BucketTech,
	entity.CategorySecurity:         entity.BucketTech,
	entity.CategoryClimateEnergy:    entity.BucketTech,
	entity.CategoryConsumerElectron: entity.BucketProduct,
	entity.CategoryGamingEntertain:  entity.BucketProduct,
	entity.CategoryHealthBiomed:     entity.BucketProduct,
	entity.CategoryGeneral:          entity.BucketOther,
}

// BucketOf returns the selection bucket for a category, defaulting to
// BucketOther for any category not in the mapping table.
func BucketOf(cat entity.Category) entity.Bucket {
	if b, ok := bucketByCategory[cat]; ok {
		return b
	}
	return entity.BucketOther
}

// Policy configures the selection floor/ceiling and per-bucket minimums.
type Policy struct {
	MinEvents    int
	MaxEvents    int
	MinPerBucket map[entity.Bucket]int
}

// DefaultPolicy returns the policy for a given run mode: brief mode targets
// 5-10 events, every other mode targets 6-12, and the default bucket minima
// (product/tech/business >= 2) apply uniformly.
func DefaultPolicy(mode entity.RunMode) Policy {
	min, max := 6, 12
	if mode == entity.ModeBrief {
		min, max = 5, 10
	}
	return Policy{
		MinEvents: min,
		MaxEvents: max,
		MinPerBucket: map[entity.Bucket]int{
			entity.BucketProduct:  2,
			entity.BucketTech:     2,
			entity.BucketBusiness: 2,
		},
	}
}

// BackfillRecord reports how a single bucket was filled: whether backfill
// was triggered, how many candidates it had to choose from, which item ids
// it ultimately selected, and the origin breakdown across pool tiers.
type BackfillRecord struct {
	Bucket         entity.Bucket  `json:"bucket"`
	Triggered      bool           `json:"triggered"`
	CandidateCount int            `json:"candidate_count"`
	SelectedIDs    []string       `json:"selected_ids,omitempty"`
	OriginCounts   map[string]int `json:"origin_counts"` // "primary_pool" | "extra_pool" | "backfill"
}

// BackfillMeta is the on-disk shape of selection_backfill.meta.json: the
// sparse-day flag plus the per-bucket backfill audit.
type BackfillMeta struct {
	SparseDay bool             `json:"sparse_day"`
	Buckets   []BackfillRecord `json:"buckets"`
}

// Result is the outcome of Select.
type Result struct {
	Events     []entity.Event
	SparseDay  bool
	Backfills  []BackfillRecord
}

// candidate pairs a gate-passing item with the bucket its classification
// maps to, carrying the fields the tiebreak order and backfill search need.
type candidate struct {
	passed score.Passed
	bucket entity.Bucket
}

// order imposes the deterministic total order selection needs: descending
// final_score, then descending frontier score, then more-recent
// published_at, then shorter canonical URL, then item id, so identical
// inputs always produce identical output.
func order(cands []candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i].passed, cands[j].passed
		if a.Score.FinalScore != b.Score.FinalScore {
			return a.Score.FinalScore > b.Score.FinalScore
		}
		if a.Item.RawItem.FrontierScore != b.Item.RawItem.FrontierScore {
			return a.Item.RawItem.FrontierScore > b.Item.RawItem.FrontierScore
		}
		if !a.Item.RawItem.PublishedAt.Equal(b.Item.RawItem.PublishedAt) {
			return a.Item.RawItem.PublishedAt.After(b.Item.RawItem.PublishedAt)
		}
		lenA, lenB := len(a.Item.RawItem.CanonicalURL), len(b.Item.RawItem.CanonicalURL)
		if lenA != lenB {
			return lenA < lenB
		}
		return a.Item.RawItem.ID < b.Item.RawItem.ID
	})
}

// Select partitions passed into buckets, round-robins to the configured
// minimums, backfills short buckets from progressively broader pool tiers,
// then tops up to policy.MinEvents (never exceeding policy.MaxEvents) from
// whatever remains. It is a total-order function: identical inputs always
// return identical Events in identical order.
func Select(passed []score.Passed, policy Policy) Result {
	all := make([]candidate, len(passed))
	for i, p := range passed {
		all[i] = candidate{passed: p, bucket: BucketOf(p.Item.Classification.Category)}
	}
	order(all)

	byBucket := map[entity.Bucket][]candidate{}
	for _, c := range all {
		byBucket[c.bucket] = append(byBucket[c.bucket], c)
	}

	selected := map[string]candidate{}
	var selectedOrder []string
	var backfills []BackfillRecord

	addAll := func(ids []string, pool []candidate, bucket entity.Bucket, origin string, rec *BackfillRecord) {
		for _, id := range ids {
			for _, c := range pool {
				if c.passed.Item.RawItem.ID == id {
					if _, already := selected[id]; already {
						continue
					}
					selected[id] = c
					selectedOrder = append(selectedOrder, id)
					rec.OriginCounts[origin]++
					rec.SelectedIDs = append(rec.SelectedIDs, id)
					break
				}
			}
		}
	}

	// Step 2: for each quota bucket, pick from the primary pool first.
	for _, bucket := range []entity.Bucket{entity.BucketProduct, entity.BucketTech, entity.BucketBusiness} {
		min := policy.MinPerBucket[bucket]
		rec := BackfillRecord{Bucket: bucket, OriginCounts: map[string]int{}}

		primary := byBucket[bucket]
		have := 0
		var take []string
		for _, c := range primary {
			if have >= min {
				break
			}
			take = append(take, c.passed.Item.RawItem.ID)
			have++
		}
		addAll(take, primary, bucket, "primary_pool", &rec)

		if have < min {
			// Step 3: backfill — first the "other" extra pool, then the
			// general pool of every remaining gate-passer regardless of
			// bucket, relabeling selected items into the deficient bucket.
			rec.Triggered = true
			extra := byBucket[entity.BucketOther]
			rec.CandidateCount += len(extra)
			var extraTake []string
			for _, c := range extra {
				if have >= min {
					break
				}
				if _, taken := selected[c.passed.Item.RawItem.ID]; taken {
					continue
				}
				extraTake = append(extraTake, c.passed.Item.RawItem.ID)
				have++
			}
			addAll(extraTake, extra, bucket, "extra_pool", &rec)

			if have < min {
				rec.CandidateCount += len(all)
				var generalTake []string
				for _, c := range all {
					if have >= min {
						break
					}
					if _, taken := selected[c.passed.Item.RawItem.ID]; taken {
						continue
					}
					generalTake = append(generalTake, c.passed.Item.RawItem.ID)
					have++
				}
				addAll(generalTake, all, bucket, "backfill", &rec)
			}
		}

		// Relabel every item selected for this bucket's quota, including
		// ones pulled in from extra_pool/backfill, to the bucket it is
		// filling.
		for _, id := range rec.SelectedIDs {
			c := selected[id]
			c.bucket = bucket
			selected[id] = c
		}

		backfills = append(backfills, rec)
	}

	// Top up to MinEvents (never past MaxEvents) from whatever remains,
	// highest score first, preserving each item's original bucket mapping.
	for _, c := range all {
		if len(selectedOrder) >= policy.MinEvents || len(selectedOrder) >= policy.MaxEvents {
			break
		}
		if _, taken := selected[c.passed.Item.RawItem.ID]; taken {
			continue
		}
		selected[c.passed.Item.RawItem.ID] = c
		selectedOrder = append(selectedOrder, c.passed.Item.RawItem.ID)
	}

	if len(selectedOrder) > policy.MaxEvents {
		selectedOrder = selectedOrder[:policy.MaxEvents]
	}

	events := make([]entity.Event, 0, len(selectedOrder))
	for _, id := range selectedOrder {
		c := selected[id]
		events = append(events, entity.Event{
			ItemID: c.passed.Item.RawItem.ID,
			Title:  c.passed.Item.RawItem.Title,
			Bucket: c.bucket,
		})
	}

	return Result{
		Events:    events,
		SparseDay: len(events) < policy.MinEvents,
		Backfills: backfills,
	}
}
