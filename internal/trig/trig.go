// Package trig evaluates sine and cosine from a whole-degree lookup table.
// Angles are expressed in tenths of a degree; results are scale-100
// fixed-point values in [-100, 100].
package trig

// FullTurn is one revolution in tenths of a degree.
const FullTurn = 3600

const quarterTurn = FullTurn / 4

// sineTable holds sin(d) * 10000 for d = 0..90 degrees.
var sineTable = [91]int64{
	0, 175, 349, 523, 698, 872, 1045, 1219, 1392, 1564, 1736, 1908, 2079, 2250,
	2419, 2588, 2756, 2924, 3090, 3256, 3420, 3584, 3746, 3907, 4067, 4226, 4384,
	4540, 4695, 4848, 5000, 5150, 5299, 5446, 5592, 5736, 5878, 6018, 6157, 6293,
	6428, 6561, 6691, 6820, 6947, 7071, 7193, 7314, 7431, 7547, 7660, 7771, 7880,
	7986, 8090, 8192, 8290, 8387, 8480, 8572, 8660, 8746, 8829, 8910, 8988, 9063,
	9135, 9205, 9272, 9336, 9397, 9455, 9511, 9563, 9613, 9659, 9703, 9744, 9781,
	9816, 9848, 9877, 9903, 9925, 9945, 9962, 9976, 9986, 9994, 9998, 10000,
}

// Sin returns sin(angle/10 degrees) scaled by 100. Sub-degree offsets are
// truncated to the whole degree before lookup.
func Sin(angle uint32) int64 {
	a := angle % FullTurn
	degree := (a % quarterTurn) / 10

	var v int64
	switch a / quarterTurn {
	case 0:
		v = sineTable[degree]
	case 1:
		v = sineTable[90-degree]
	case 2:
		v = -sineTable[degree]
	default:
		v = -sineTable[90-degree]
	}
	return v / 100
}

// Cos returns Sin shifted by a quarter turn. The shift wraps at 2^32.
func Cos(angle uint32) int64 {
	return Sin(angle + quarterTurn)
}
