package animation

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/chrisuehlinger/domman/css"
)

var numberPattern = regexp.MustCompile(`-?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)

// Interpolate blends two CSS values. Colors are mixed per channel; values
// that share the same shape apart from their numbers ("10px",
// "translate(1px, 2px)") are interpolated number by number. Anything else
// flips from from to to halfway through.
func Interpolate(from, to string, p float64) string {
	if from == to {
		return from
	}
	if c1, ok := css.ParseColor(from); ok {
		if c2, ok := css.ParseColor(to); ok {
			return mixColor(c1, c2, p).String()
		}
	}

	fromNums := numberPattern.FindAllStringIndex(from, -1)
	toNums := numberPattern.FindAllStringIndex(to, -1)
	if len(fromNums) > 0 && len(fromNums) == len(toNums) && template(from, fromNums) == template(to, toNums) {
		var b strings.Builder
		last := 0
		for i, loc := range fromNums {
			b.WriteString(from[last:loc[0]])
			a, _ := strconv.ParseFloat(from[loc[0]:loc[1]], 64)
			z, _ := strconv.ParseFloat(to[toNums[i][0]:toNums[i][1]], 64)
			b.WriteString(formatNumber(a + (z-a)*p))
			last = loc[1]
		}
		b.WriteString(from[last:])
		return b.String()
	}

	if p < 0.5 {
		return from
	}
	return to
}

func template(s string, locs [][]int) string {
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		b.WriteString(s[last:loc[0]])
		b.WriteByte(0)
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func formatNumber(v float64) string {
	v = math.Round(v*10000) / 10000
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func mixColor(a, b css.Color, p float64) css.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(255, float64(x)+(float64(y)-float64(x))*p))))
	}
	return css.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
