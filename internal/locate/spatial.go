package locate

import (
	"math"
	"sort"
	"strings"

	"github.com/assina-energy/fatura-cli/internal/model"
)

// FindSpatial applies the spec's anchor rules in order over positioned
// words. For each rule it locates label tokens and returns the qualifying
// value tokens: directly below (within the vertical gap band, overlapping
// horizontally, topmost first) or directly to the right (same text line,
// after the label, leftmost first). The first rule producing at least one
// candidate wins.
func FindSpatial(spec *FieldSpec, words []model.Word) []model.FieldCandidate {
	if len(words) == 0 || spec == nil {
		return nil
	}
	for i := range spec.Anchors {
		rule := &spec.Anchors[i]
		cands := applyAnchor(rule, words)
		if len(cands) > 0 {
			return cands
		}
	}
	return nil
}

func applyAnchor(rule *AnchorRule, words []model.Word) []model.FieldCandidate {
	label := strings.ToUpper(rule.Label)
	var cands []model.FieldCandidate

	for li := range words {
		if !strings.Contains(strings.ToUpper(words[li].Text), label) {
			continue
		}
		anchor := words[li].Box

		switch rule.Direction {
		case DirectionBelow:
			cands = append(cands, valuesBelow(rule, anchor, words)...)
		case DirectionRight:
			cands = append(cands, valuesRight(rule, anchor, words)...)
		}
	}
	return cands
}

func valuesBelow(rule *AnchorRule, anchor model.BoundingBox, words []model.Word) []model.FieldCandidate {
	maxGap := rule.MaxVGap
	if maxGap <= 0 {
		maxGap = 25
	}
	minOverlap := rule.MinOverlap
	if minOverlap <= 0 {
		minOverlap = 0.3
	}

	var hits []model.Word
	for _, w := range words {
		gap := w.Box.Y0 - anchor.Y1
		if gap < 0 || gap > maxGap {
			continue
		}
		if anchor.Width() > 0 && w.Box.HorizontalOverlap(anchor) < minOverlap*anchor.Width() {
			continue
		}
		if rule.valueRE != nil && !rule.valueRE.MatchString(w.Text) {
			continue
		}
		hits = append(hits, w)
	}
	// Topmost qualifying token first.
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Box.Y0 < hits[j].Box.Y0 })
	return toCandidates(rule, hits)
}

func valuesRight(rule *AnchorRule, anchor model.BoundingBox, words []model.Word) []model.FieldCandidate {
	maxGap := rule.MaxRightGap
	if maxGap <= 0 {
		maxGap = 200
	}

	var hits []model.Word
	for _, w := range words {
		if !sameLine(anchor, w.Box) {
			continue
		}
		gap := w.Box.X0 - anchor.X1
		if gap < 0 || gap > maxGap {
			continue
		}
		if rule.valueRE != nil && !rule.valueRE.MatchString(w.Text) {
			continue
		}
		hits = append(hits, w)
	}
	// Leftmost qualifying token first.
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Box.X0 < hits[j].Box.X0 })
	return toCandidates(rule, hits)
}

// sameLine reports whether two boxes sit on one text line: their vertical
// centers are within half the taller box's height.
func sameLine(a, b model.BoundingBox) bool {
	ca := (a.Y0 + a.Y1) / 2
	cb := (b.Y0 + b.Y1) / 2
	h := math.Max(a.Height(), b.Height())
	if h <= 0 {
		return false
	}
	return math.Abs(ca-cb) <= h/2
}

func toCandidates(rule *AnchorRule, hits []model.Word) []model.FieldCandidate {
	cands := make([]model.FieldCandidate, 0, len(hits))
	for _, w := range hits {
		box := w.Box
		cands = append(cands, model.FieldCandidate{
			RawValue: w.Text,
			Locator:  "anchor:" + rule.ID,
			Position: &box,
		})
	}
	return cands
}
