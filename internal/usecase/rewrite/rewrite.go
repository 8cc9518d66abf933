package rewrite

import (
	"fmt"
	"sort"

	"briefline/internal/domain/entity"
)

// minAvgZhRatio and minZhRatio are the NEWSROOM_ZH gate floors:
// averaged across the brief's events zh_ratio must reach minAvgZhRatio, and
// no single event may fall below minZhRatio. Rewrite re-tries with a denser
// Chinese frame (skeletonize) whenever a single event would fall short of
// minZhRatio on the first pass.
const (
	minAvgZhRatio = 0.35
	minZhRatio    = 0.20
)

// ErrNoAnchors is returned when fulltext carries no span meeting the anchor
// floor; the caller should treat this item as unrewritable
// rather than force a hollow narrative.
var ErrNoAnchors = fmt.Errorf("rewrite: no eligible anchor spans in fulltext")

// Apply fills ev's Anchors/Q1/Q2/Q3/Proof/ZhRatio from fulltext, composing a
// Chinese narrative frame around verbatim anchor spans. actor names the
// subject of the story (typically the item's top-ranked entity) and may be
// empty, in which case a generic subject is used. It reports whether the
// low-zh_ratio skeletonize fallback fired. ev.ItemID and ev.Bucket, set by
// selection, are left untouched.
func Apply(ev *entity.Event, fulltext, actor string) (skeletonized bool, err error) {
	anchors := ExtractAnchors(fulltext)
	if len(anchors) == 0 {
		return false, fmt.Errorf("%w: item %s", ErrNoAnchors, ev.ItemID)
	}
	if actor == "" {
		actor = "相关报道"
	}

	q1, q2, q3, proof, used := compose(actor, anchors, false)
	ratio := ZhRatio(q1, q2, proof)

	if ratio < minZhRatio {
		// Skeletonize: the Chinese frame is fixed-size, so the ratio is
		// governed by anchor length — prefer the shortest qualifying
		// anchors to pull the density back over the floor.
		skeletonized = true
		q1, q2, q3, proof, used = compose(actor, shortestFirst(anchors), true)
		ratio = ZhRatio(q1, q2, proof)
	}

	for _, s := range []string{q1, q2, q3, proof} {
		if s == "" {
			continue
		}
		if CountEllipsisHits(s) > 0 {
			return skeletonized, fmt.Errorf("rewrite: ellipsis in composed text for item %s", ev.ItemID)
		}
		if ContainsGenericPhrase(s) {
			return skeletonized, fmt.Errorf("rewrite: generic/hollow phrase in composed text for item %s", ev.ItemID)
		}
	}

	ev.Anchors = used
	ev.Q1 = q1
	ev.Q2 = q2
	ev.Q3 = q3
	ev.Proof = proof
	ev.ZhRatio = ratio

	if verr := ev.Validate(fulltext); verr != nil {
		return skeletonized, verr
	}
	return skeletonized, nil
}

// compose builds Q1/Q2/Q3/Proof from ranked anchors. The dense frame is the
// normal path; the skeleton frame strips everything but the Chinese
// connective tissue around each quote, for items whose normal frame fails
// the minimum zh_ratio.
func compose(actor string, anchors []string, skeleton bool) (q1, q2, q3, proof string, used []string) {
	a1 := anchors[0]
	if skeleton {
		q1 = fmt.Sprintf("据本篇报道的原文记录，%s方面明确表示「%s」，消息来自一手报道。", actor, a1)
	} else {
		q1 = fmt.Sprintf("%s在最新报道中指出「%s」。", actor, a1)
	}
	used = append(used, a1)

	if len(anchors) > 1 {
		a2 := anchors[1]
		if skeleton {
			q2 = fmt.Sprintf("另据同一篇报道原文补充记录「%s」，两处引文的出处与上下文均可在原文核对确认。", a2)
		} else {
			q2 = fmt.Sprintf("报道同时提到「%s」。", a2)
		}
		used = append(used, a2)
	}

	if len(anchors) > 2 {
		a3 := anchors[2]
		if skeleton {
			q3 = fmt.Sprintf("并称「%s」。", a3)
		} else {
			q3 = fmt.Sprintf("另据原文补充「%s」。", a3)
		}
		used = append(used, a3)
	}

	proofAnchor := a1
	if skeleton {
		proof = fmt.Sprintf("证据说明：以上引文均逐字摘自报道原文，首条引文为「%s」，内容未作任何改写，以便读者逐字核对。", proofAnchor)
	} else {
		proof = fmt.Sprintf("原文佐证：「%s」。", proofAnchor)
	}

	return q1, q2, q3, proof, used
}

// shortestFirst reorders anchors ascending by rune length, preserving the
// rank order among equal lengths.
func shortestFirst(anchors []string) []string {
	out := make([]string, len(anchors))
	copy(out, anchors)
	sort.SliceStable(out, func(i, j int) bool {
		return len([]rune(out[i])) < len([]rune(out[j]))
	})
	return out
}
