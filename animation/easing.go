package animation

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// EasingFunc maps linear progress in [0, 1] to eased progress.
type EasingFunc func(float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

var namedEasings = map[string][4]float64{
	"ease":        {0.25, 0.1, 0.25, 1},
	"ease-in":     {0.42, 0, 1, 1},
	"ease-out":    {0, 0, 0.58, 1},
	"ease-in-out": {0.42, 0, 0.58, 1},
}

// ParseEasing parses a CSS timing function: linear, the ease keywords,
// cubic-bezier(x1, y1, x2, y2), steps(n[, start|end]), step-start and
// step-end. The empty string is linear.
func ParseEasing(s string) (EasingFunc, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "linear":
		return Linear, nil
	case "step-start":
		return Steps(1, true), nil
	case "step-end":
		return Steps(1, false), nil
	}
	if p, ok := namedEasings[s]; ok {
		return CubicBezier(p[0], p[1], p[2], p[3]), nil
	}

	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return nil, errors.Errorf("unknown easing %q", s)
	}
	args := strings.Split(s[open+1:len(s)-1], ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	switch s[:open] {
	case "cubic-bezier":
		if len(args) != 4 {
			return nil, errors.Errorf("cubic-bezier needs 4 arguments: %q", s)
		}
		var p [4]float64
		for i, a := range args {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "easing %q", s)
			}
			p[i] = v
		}
		if p[0] < 0 || p[0] > 1 || p[2] < 0 || p[2] > 1 {
			return nil, errors.Errorf("cubic-bezier x values must be in [0, 1]: %q", s)
		}
		return CubicBezier(p[0], p[1], p[2], p[3]), nil
	case "steps":
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return nil, errors.Errorf("invalid step count in %q", s)
		}
		start := len(args) > 1 && (args[1] == "start" || args[1] == "jump-start")
		return Steps(n, start), nil
	}
	return nil, errors.Errorf("unknown easing %q", s)
}

// CubicBezier returns the easing for the curve through (0,0), (x1,y1),
// (x2,y2) and (1,1).
func CubicBezier(x1, y1, x2, y2 float64) EasingFunc {
	bez := func(t, a, b float64) float64 {
		u := 1 - t
		return 3*u*u*t*a + 3*u*t*t*b + t*t*t
	}
	slope := func(t, a, b float64) float64 {
		u := 1 - t
		return 3*u*u*a + 6*u*t*(b-a) + 3*t*t*(1-b)
	}
	return func(x float64) float64 {
		if x <= 0 {
			return 0
		}
		if x >= 1 {
			return 1
		}
		// Newton first, bisection when the slope is too flat
		t := x
		for i := 0; i < 8; i++ {
			d := bez(t, x1, x2) - x
			if math.Abs(d) < 1e-7 {
				return bez(t, y1, y2)
			}
			s := slope(t, x1, x2)
			if math.Abs(s) < 1e-6 {
				break
			}
			t -= d / s
		}
		lo, hi := 0.0, 1.0
		t = x
		for i := 0; i < 50; i++ {
			v := bez(t, x1, x2)
			if math.Abs(v-x) < 1e-7 {
				break
			}
			if v < x {
				lo = t
			} else {
				hi = t
			}
			t = (lo + hi) / 2
		}
		return bez(t, y1, y2)
	}
}

// Steps returns a stepping easing with n intervals.
func Steps(n int, jumpStart bool) EasingFunc {
	return func(t float64) float64 {
		if t >= 1 {
			return 1
		}
		if t <= 0 {
			if jumpStart {
				return 1 / float64(n)
			}
			return 0
		}
		step := math.Floor(t * float64(n))
		if jumpStart {
			step++
		}
		return math.Min(step/float64(n), 1)
	}
}
