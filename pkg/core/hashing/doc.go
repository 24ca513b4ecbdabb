// Package hashing provides the deterministic pseudo-randomness behind every
// composition.
//
// A seed string is folded into a 32-bit signed integer with the classic
// "multiply by 31" rolling hash ([Hash]). Digits of that integer, and of simple
// arithmetic on it, act as cheap dice rolls ([LastDigits]). None of this is
// cryptographic: the only requirement is that the same input always produces
// the same number.
//
// When no seed is supplied the generator falls back to [RandomNumber], which
// draws from an injected [Source] so that tests can substitute a fixed sequence.
//
// # Number formatting
//
// Every "render n in base 10" step goes through [FormatNumber], which prints the
// shortest representation that round-trips a float64, without an exponent.
// Products such as hash*hash exceed 2^53 and are therefore rounded before their
// digits are read:
//
//	hashing.FormatNumber(1292940571.0 * 1292940571.0) // "1671695320137806000"
package hashing
