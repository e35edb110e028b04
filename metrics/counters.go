// Package metrics provides counters which are shared between pipeline stages and aggregated at the end of a collection
package metrics

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/exp/maps"
)

// Counter is a named, concurrency safe, monotonically increasing count
type Counter struct {
	name  string
	value atomic.Int64
}

func (c *Counter) Name() string {
	return c.name
}

// Inc adds n to the counter and returns the new value
func (c *Counter) Inc(n int64) int64 {
	return c.value.Add(n)
}

func (c *Counter) Value() int64 {
	return c.value.Load()
}

// Counters is a registry of counters, keyed by name
// stages running concurrently share a single registry so the totals are job wide
type Counters struct {
	lock     sync.RWMutex
	counters map[string]*Counter
}

func NewCounters() *Counters {
	return &Counters{counters: make(map[string]*Counter)}
}

// Counter returns the named counter, creating it if needed
func (c *Counters) Counter(name string) *Counter {
	c.lock.RLock()
	counter, ok := c.counters[name]
	c.lock.RUnlock()
	if ok {
		return counter
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	// check again in case another goroutine created it
	if counter, ok = c.counters[name]; ok {
		return counter
	}
	counter = &Counter{name: name}
	c.counters[name] = counter
	return counter
}

// Inc adds n to the named counter and returns the new value
func (c *Counters) Inc(name string, n int64) int64 {
	return c.Counter(name).Inc(n)
}

// Get returns the value of the named counter (0 if it does not exist)
func (c *Counters) Get(name string) int64 {
	c.lock.RLock()
	defer c.lock.RUnlock()
	if counter, ok := c.counters[name]; ok {
		return counter.Value()
	}
	return 0
}

// Names returns the sorted counter names
func (c *Counters) Names() []string {
	c.lock.RLock()
	names := maps.Keys(c.counters)
	c.lock.RUnlock()
	slices.Sort(names)
	return names
}

// Snapshot returns the current value of every counter
func (c *Counters) Snapshot() map[string]int64 {
	c.lock.RLock()
	defer c.lock.RUnlock()
	res := make(map[string]int64, len(c.counters))
	for name, counter := range c.counters {
		res[name] = counter.Value()
	}
	return res
}

func (c *Counters) String() string {
	snapshot := c.Snapshot()
	var sb strings.Builder
	for _, name := range c.Names() {
		sb.WriteString(fmt.Sprintf("%s: %d\n", name, snapshot[name]))
	}
	return sb.String()
}
