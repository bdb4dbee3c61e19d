package investment

import "math"

// roundHalfUp rounds half toward positive infinity, so -12.5 becomes -12
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// roundTo rounds x to the given number of decimal places using roundHalfUp
func roundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return roundHalfUp(x*p) / p
}
