package report

import "strings"

// Aggregate is a set of match results folded into one line: games, record,
// and combined KDA.
type Aggregate struct {
	Games   int
	Wins    int
	Kills   int
	Deaths  int
	Assists int
}

// Summarize folds reports into an aggregate. An optional champion filter
// keeps only that champion's games, compared case-insensitively; empty
// means all games count.
func Summarize(reps []*Report, champion string) Aggregate {
	var a Aggregate
	for _, rep := range reps {
		if champion != "" && !strings.EqualFold(rep.Champion, champion) {
			continue
		}
		a.Games++
		if rep.Win {
			a.Wins++
		}
		a.Kills += rep.Kills
		a.Deaths += rep.Deaths
		a.Assists += rep.Assists
	}
	return a
}

// KDA returns (kills+assists)/max(deaths,1) over the aggregate.
func (a Aggregate) KDA() float64 {
	deaths := a.Deaths
	if deaths < 1 {
		deaths = 1
	}
	return float64(a.Kills+a.Assists) / float64(deaths)
}

// WinRate returns the win percentage, 0 for an empty aggregate.
func (a Aggregate) WinRate() float64 {
	if a.Games == 0 {
		return 0
	}
	return float64(a.Wins) / float64(a.Games) * 100
}
