package core

import (
	"sync"
	"time"
)

const (
	// CacheTTL is how long a formatted prefix is reused.
	CacheTTL = time.Millisecond

	dateTimeLayout = "2006-01-02 15:04:05.000000"
	timeLayout     = "15:04:05.000000"
	prefixSep      = " | "
)

// TimestampCache formats the timestamp prefix of a log line and reuses
// the result for up to CacheTTL. It is safe for concurrent use and has
// its own lock.
type TimestampCache struct {
	mu          sync.Mutex
	cached      string
	computedAt  time.Time
	includeDate bool
	now         func() time.Time
}

// NewTimestampCache creates a cache producing "date time | " prefixes
// when includeDate is set and "time | " prefixes otherwise.
func NewTimestampCache(includeDate bool) *TimestampCache {
	return &TimestampCache{
		includeDate: includeDate,
		now:         time.Now,
	}
}

// SetClock replaces the time source. Intended for tests.
func (c *TimestampCache) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	c.mu.Lock()
	c.now = now
	c.cached = ""
	c.mu.Unlock()
}

// SetIncludeDate switches between the two layouts and drops the cached value
func (c *TimestampCache) SetIncludeDate(includeDate bool) {
	c.mu.Lock()
	if c.includeDate != includeDate {
		c.includeDate = includeDate
		c.cached = ""
	}
	c.mu.Unlock()
}

// IncludeDate reports whether prefixes carry the date
func (c *TimestampCache) IncludeDate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.includeDate
}

// Get returns the timestamp prefix for the current instant, for example
// "2024-05-01 13:07:42.123456 | ".
func (c *TimestampCache) Get() string {
	c.mu.Lock()
	now := c.now()
	includeDate := c.includeDate
	if c.cached != "" {
		if age := now.Sub(c.computedAt); age >= 0 && age < CacheTTL {
			s := c.cached
			c.mu.Unlock()
			return s
		}
	}
	c.mu.Unlock()

	// Format outside the lock, then swap the finished string in.
	s := formatPrefix(now, includeDate)

	c.mu.Lock()
	if c.includeDate == includeDate && !now.Before(c.computedAt) {
		c.cached = s
		c.computedAt = now
	}
	c.mu.Unlock()
	return s
}

func formatPrefix(t time.Time, includeDate bool) string {
	layout := timeLayout
	if includeDate {
		layout = dateTimeLayout
	}
	var scratch [len(dateTimeLayout) + len(prefixSep)]byte
	b := t.Local().AppendFormat(scratch[:0], layout)
	b = append(b, prefixSep...)
	return string(b)
}
