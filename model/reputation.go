package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-linkora/identity"
)

// MaxScore is the upper bound of every reputation dimension.
const MaxScore = 100

// Scores holds the four reputation dimensions, each in [0, MaxScore].
type Scores struct {
	Contribution   int `json:"contribution"`
	Teamwork       int `json:"teamwork"`
	SkillRelevance int `json:"skillRelevance"`
	Reliability    int `json:"reliability"`
}

// Validate implements validation.Validatable.
func (s Scores) Validate() error {
	bounds := []validation.Rule{validation.Min(0), validation.Max(MaxScore)}
	return validation.ValidateStruct(&s,
		validation.Field(&s.Contribution, bounds...),
		validation.Field(&s.Teamwork, bounds...),
		validation.Field(&s.SkillRelevance, bounds...),
		validation.Field(&s.Reliability, bounds...),
	)
}

// ReputationReview is one append-only peer review. The same reviewer may
// review the same reviewee more than once; every review counts.
type ReputationReview struct {
	Reviewer  identity.ID `json:"reviewer"`
	Reviewee  identity.ID `json:"reviewee"`
	Scores    Scores      `json:"scores"`
	Comment   string      `json:"comment"`
	CreatedAt time.Time   `json:"timestamp"`
}

// SearchResult is one row returned by a skill search.
type SearchResult struct {
	Profile UserProfile        `json:"profile"`
	Skills  Skills             `json:"skills"`
	Reviews []ReputationReview `json:"reviews"`
}
