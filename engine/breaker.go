package engine

import (
	circuit "github.com/rubyist/circuitbreaker"
)

// breakerThreshold is the number of consecutive countable failures that trips
// an endpoint's breaker.
const breakerThreshold = 5

// breakerFor returns the breaker guarding the given downstream path,
// creating it on first use. A concurrent first caller may win the insert
// race; the stored breaker is always the one returned.
func (c *Client) breakerFor(path string) *circuit.Breaker {
	if cb, ok := c.breakers.Get(path); ok {
		return cb
	}
	c.breakers.SetIfAbsent(path, circuit.NewConsecutiveBreaker(breakerThreshold))
	cb, _ := c.breakers.Get(path)
	return cb
}
