package searcher

import "math"

type ucb struct {
	c   float64 // Exploration constant
	lnN float64
}

func newUCB(c float64, totalVisits int) ucb {
	if totalVisits == 0 {
		panic("total visits cannot be 0")
	}
	return ucb{c: c, lnN: math.Log(float64(totalVisits))}
}

func (u ucb) evaluate(wins, visits int) float64 {
	if visits == 0 {
		panic("visits cannot be 0")
	}
	// UCB1 = w/n + c*sqrt(ln(N)/n)
	n := float64(visits)
	return float64(wins)/n + u.c*math.Sqrt(u.lnN/n)
}
