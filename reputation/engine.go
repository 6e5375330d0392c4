// Package reputation derives scores from reputation reviews. Every function
// is pure and recomputed from the review list it is given; nothing is
// memoized.
package reputation

import (
	"math"
	"sort"

	"github.com/goliatone/go-linkora/model"
)

// Bounds of the derived scores.
const (
	MaxScore         = model.MaxScore
	MinCompatibility = 10
	BaseCompat       = 50
	CompatWeight     = 0.4
)

// Dimension selects one of the four review scores.
type Dimension int

const (
	Contribution Dimension = iota
	Teamwork
	SkillRelevance
	Reliability
)

// Dimensions lists the dimensions in display order.
var Dimensions = []Dimension{Contribution, Teamwork, SkillRelevance, Reliability}

func (d Dimension) String() string {
	switch d {
	case Contribution:
		return "Contribution"
	case Teamwork:
		return "Teamwork"
	case SkillRelevance:
		return "Skill Relevance"
	case Reliability:
		return "Reliability"
	}
	return "Unknown"
}

// Of returns the score of dimension d in s.
func (d Dimension) Of(s model.Scores) int {
	switch d {
	case Contribution:
		return s.Contribution
	case Teamwork:
		return s.Teamwork
	case SkillRelevance:
		return s.SkillRelevance
	case Reliability:
		return s.Reliability
	}
	return 0
}

// round rounds half up, so 2.5 becomes 3 and -2.5 becomes -2.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AverageDimension is the mean of dimension d over reviews, rounded and
// capped at 100. It is 0 for no reviews.
func AverageDimension(reviews []model.ReputationReview, d Dimension) int {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += d.Of(r.Scores)
	}
	return min(MaxScore, round(float64(sum)/float64(len(reviews))))
}

// Aggregate averages the per-review means of the four dimensions, rounds
// and clamps to [0, 100]. It is 0 for no reviews. Several reviews by the
// same reviewer all count.
func Aggregate(reviews []model.ReputationReview) int {
	if len(reviews) == 0 {
		return 0
	}
	var total float64
	for _, r := range reviews {
		s := r.Scores
		total += float64(s.Contribution+s.Teamwork+s.SkillRelevance+s.Reliability) / 4
	}
	return clamp(round(total/float64(len(reviews))), 0, MaxScore)
}

// Compatibility maps the aggregate reputation to a teammate score in
// [10, 100]. An identity with no reviews scores 50.
func Compatibility(reviews []model.ReputationReview) int {
	return compatibilityOf(Aggregate(reviews))
}

func compatibilityOf(aggregate int) int {
	return clamp(BaseCompat+round(CompatWeight*float64(aggregate)), MinCompatibility, MaxScore)
}

// DimensionScore is one row of a Breakdown.
type DimensionScore struct {
	Dimension Dimension
	Score     int
	Band      Band
}

// Summary is everything a profile shows about an identity's reputation.
type Summary struct {
	Reviews       int
	Aggregate     int
	Compatibility int
	Band          Band
	Dimensions    []DimensionScore
}

// Breakdown returns the per-dimension averages in display order.
func Breakdown(reviews []model.ReputationReview) []DimensionScore {
	out := make([]DimensionScore, len(Dimensions))
	for i, d := range Dimensions {
		score := AverageDimension(reviews, d)
		out[i] = DimensionScore{Dimension: d, Score: score, Band: BandOf(score)}
	}
	return out
}

// Summarize computes a Summary from reviews.
func Summarize(reviews []model.ReputationReview) Summary {
	agg := Aggregate(reviews)
	return Summary{
		Reviews:       len(reviews),
		Aggregate:     agg,
		Compatibility: compatibilityOf(agg),
		Band:          BandOf(agg),
		Dimensions:    Breakdown(reviews),
	}
}

// Candidate is a search result with its derived scores.
type Candidate struct {
	model.SearchResult
	Aggregate     int
	Compatibility int
	Match         Match
}

// Rank scores each search result and orders them by compatibility,
// highest first. Ties keep their input order.
func Rank(results []model.SearchResult) []Candidate {
	out := make([]Candidate, len(results))
	for i, r := range results {
		agg := Aggregate(r.Reviews)
		compat := compatibilityOf(agg)
		out[i] = Candidate{
			SearchResult:  r,
			Aggregate:     agg,
			Compatibility: compat,
			Match:         MatchOf(compat),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Compatibility > out[j].Compatibility
	})
	return out
}
