package fixedpoint

// shift is the number of fractional bits (the ".14" in Q17.14).
const shift = 14

// one is the fixed-point representation of the integer 1.
const one = Fixed(1 << shift)

// Fixed is a signed Q17.14 fixed-point number.
type Fixed int32

// Zero is the fixed-point representation of 0.
const Zero Fixed = 0

// FromInt converts an integer to fixed point.
func FromInt(n int) Fixed {
	return Fixed(int32(n) << shift)
}

// ToIntTrunc converts a fixed-point value to an integer, rounding toward
// zero (truncation).
func (x Fixed) ToIntTrunc() int {
	return int(int32(x) / int32(one))
}

// ToIntRound converts a fixed-point value to an integer, rounding to
// nearest; ties round away from zero, matching the source recurrence's
// (x + f/2) / f for non-negative x and (x - f/2) / f for negative x.
func (x Fixed) ToIntRound() int {
	if x >= 0 {
		return int((int32(x) + int32(one)/2) / int32(one))
	}
	return int((int32(x) - int32(one)/2) / int32(one))
}

// Add returns x + y.
func (x Fixed) Add(y Fixed) Fixed {
	return x + y
}

// Sub returns x - y.
func (x Fixed) Sub(y Fixed) Fixed {
	return x - y
}

// Mul returns x * y, computed by promoting to 64 bits before the shift
// to avoid intermediate overflow.
func (x Fixed) Mul(y Fixed) Fixed {
	return Fixed((int64(x) * int64(y)) >> shift)
}

// Div returns x / y, computed by promoting the numerator to 64 bits and
// pre-shifting before dividing.
func (x Fixed) Div(y Fixed) Fixed {
	return Fixed((int64(x) << shift) / int64(y))
}

// AddInt returns x + n (n an integer).
func (x Fixed) AddInt(n int) Fixed {
	return x + FromInt(n)
}

// SubInt returns x - n (n an integer).
func (x Fixed) SubInt(n int) Fixed {
	return x - FromInt(n)
}

// MulInt returns x * n (n an integer); exact, no promotion needed.
func (x Fixed) MulInt(n int) Fixed {
	return x * Fixed(n)
}

// DivInt returns x / n (n an integer); exact, no promotion needed.
func (x Fixed) DivInt(n int) Fixed {
	return x / Fixed(n)
}

// Neg returns -x.
func (x Fixed) Neg() Fixed {
	return -x
}
