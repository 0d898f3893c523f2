package scraper

import "github.com/mfenderov/moodle-cal/pkg/models"

// courseCache maps a course page URL to the course's full name for the
// duration of one run. Every distinct URL is fetched at most once, failed
// lookups included. It is only used from the sequential detail loop and
// does no locking.
type courseCache struct {
	names map[string]string
}

func newCourseCache() *courseCache {
	return &courseCache{names: make(map[string]string)}
}

// getOrFetch returns the cached name for ref, calling fetch on a miss.
// A failed fetch is remembered as models.NotAvailable.
func (c *courseCache) getOrFetch(ref string, fetch func(ref string) (string, error)) (string, error) {
	if name, ok := c.names[ref]; ok {
		return name, nil
	}

	name, err := fetch(ref)
	if err != nil || name == "" {
		name = models.NotAvailable
	}
	c.names[ref] = name
	return name, err
}

// Size returns the number of cached courses.
func (c *courseCache) Size() int {
	return len(c.names)
}
