package hashing

import (
	"strconv"
	"unicode/utf16"
)

// Hash folds input into a 32-bit signed integer using acc = acc*31 + c over the
// UTF-16 code units of input, wrapping to 32 bits after every step.
//
// With absolute set the magnitude is returned. The result is an int64 so that
// |math.MinInt32| stays representable. The empty string hashes to 0.
func Hash(input string, absolute bool) int64 {
	var acc int32
	for _, c := range utf16.Encode([]rune(input)) {
		acc = (acc << 5) - acc + int32(c)
	}
	h := int64(acc)
	if absolute && h < 0 {
		h = -h
	}
	return h
}

// FormatNumber renders f in base 10 with the fewest digits that round-trip,
// never using exponent notation. Negative zero prints as "0".
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// LastDigits returns the number formed by the last count characters of n's
// base-10 representation. A count that is not positive or exceeds the length of
// the representation falls back to 1.
//
// The slice is taken on characters, not digits: when count covers the whole
// string of a negative number the sign is included, and a fragment that starts
// at a decimal point does not parse and yields 0.
func LastDigits(n float64, count int) int {
	s := FormatNumber(n)
	if count <= 0 || count > len(s) {
		count = 1
	}
	v, err := strconv.Atoi(s[len(s)-count:])
	if err != nil {
		return 0
	}
	return v
}

// LastDigit is LastDigits(n, 1).
func LastDigit(n float64) int {
	return LastDigits(n, 1)
}
