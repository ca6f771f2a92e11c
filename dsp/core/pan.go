package core

import "math"

// PanEqualPower maps a stereo position in [-1, 1] to equal-power channel
// gains. -1 is hard left, 0 is centre (both gains 1/sqrt(2)) and +1 is hard
// right. left*left + right*right is 1 for every position.
//
// Positions outside [-1, 1] are clamped.
func PanEqualPower(position float64) (left, right float64) {
	position = Clamp(position, -1, 1)
	theta := math.Pi / 4 * (position + 1)
	return math.Cos(theta), math.Sin(theta)
}
