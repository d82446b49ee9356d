// Package fixedpoint implements signed Q17.14 fixed-point arithmetic.
//
// The MLFQS scheduler recurrences (recent CPU, load average, priority)
// need fractional precision, but kernel-mode code has no floating point
// unit available to it. A [Fixed] is a plain int32 with an implicit
// binary point 14 bits from the right: the integer part occupies the top
// 17 bits (plus sign) and the fraction occupies the bottom 14.
package fixedpoint
