package render

import (
	"strconv"

	"github.com/uyouii/ratebands/timeaxis"
	"github.com/uyouii/ratebands/utils"
)

// Ticks spreads count evenly spaced ticks over [min, max].
func Ticks(min, max float64, count int) []Tick {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []Tick{{Value: min, Label: tickLabel(min)}}
	}
	values := utils.Linspace(min, max, count)
	res := make([]Tick, len(values))
	for i, v := range values {
		res[i] = Tick{Value: v, Label: tickLabel(v)}
	}
	return res
}

// TimeTicks places ticks on the plotting axis [min, max] and labels them with
// the time before present, ref - x.
func TimeTicks(min, max float64, count int, ref float64) []Tick {
	ticks := Ticks(min, max, count)
	for i := range ticks {
		ticks[i].Label = tickLabel(timeaxis.Reverse(ticks[i].Value, ref))
	}
	return ticks
}

func tickLabel(v float64) string {
	return strconv.FormatFloat(utils.FormatFloat(v, 3), 'f', -1, 64)
}
