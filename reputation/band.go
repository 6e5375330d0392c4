package reputation

// Band classifies a 0..100 reputation score for display.
type Band int

const (
	BandLow Band = iota
	BandFair
	BandGood
	BandHigh
)

// BandOf returns the band of score: 75 and up is high, 50 good, 25 fair.
func BandOf(score int) Band {
	switch {
	case score >= 75:
		return BandHigh
	case score >= 50:
		return BandGood
	case score >= 25:
		return BandFair
	}
	return BandLow
}

func (b Band) String() string {
	switch b {
	case BandHigh:
		return "high"
	case BandGood:
		return "good"
	case BandFair:
		return "fair"
	}
	return "low"
}

// Match classifies a compatibility score.
type Match int

const (
	MatchWeak Match = iota
	MatchFair
	MatchGood
	MatchStrong
)

// MatchOf returns the match tier of a compatibility score: 80 and up is
// strong, 60 good, 40 fair.
func MatchOf(compat int) Match {
	switch {
	case compat >= 80:
		return MatchStrong
	case compat >= 60:
		return MatchGood
	case compat >= 40:
		return MatchFair
	}
	return MatchWeak
}

func (m Match) String() string {
	switch m {
	case MatchStrong:
		return "strong"
	case MatchGood:
		return "good"
	case MatchFair:
		return "fair"
	}
	return "weak"
}
