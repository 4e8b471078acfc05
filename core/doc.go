// Package core defines the shared types used across ulog.
//
// It provides the Severity type used for threshold filtering, the Token
// tagged variant that carries one typed value through a variadic call
// without boxing it into an interface, and the TimestampCache that
// amortizes wall-clock formatting across log calls.
//
// Severity is ordered from Verbose to Fixed. Fixed sorts above every
// other severity but is still compared against sink thresholds like any
// other record.
//
// TimestampCache holds the last formatted line prefix for at most one
// millisecond. It has its own mutex, separate from the logger's primary
// lock, so a cache hit never waits on another producer's record.
package core
