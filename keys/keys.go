// Package keys is the key and TTL policy registry for the civic-issue
// cache. Everything here is pure data: identical logical parameters always
// produce the identical key string, and TTLs are static per resource class.
//
// Continuous parameters (geographic coordinates) are rounded to a fixed
// precision before entering the key, so two requests differing only beyond
// that precision share one cache entry. Discrete parameters (page, limit,
// id) are included verbatim. Listing filters are fingerprinted in a fixed
// field order so equivalent filter sets collide on purpose.
package keys

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Resource names a class of cached queries.
type Resource string

const (
	ResourceNearby     Resource = "nearby"
	ResourceIssue      Resource = "issue"
	ResourceUserIssues Resource = "user_issues"
	ResourceAllIssues  Resource = "all_issues"
)

// coordPrecision is the decimal precision coordinates are rounded to.
// Four decimals is ~11m at the equator, well below the query radius.
const coordPrecision = 4

// radiusPrecision keeps the search radius stable across float noise
// without merging meaningfully different radii.
const radiusPrecision = 1

// NearbyIssues keys a geospatial issue lookup.
//
//	NearbyIssues(40.71234, -74.00567, 5, 1, 20) => "nearby:40.7123:-74.0057:5.0:1:20"
func NearbyIssues(lat, lng, radiusKm float64, page, limit int) string {
	return fmt.Sprintf("nearby:%s:%s:%s:%d:%d",
		coord(lat), coord(lng),
		strconv.FormatFloat(radiusKm, 'f', radiusPrecision, 64),
		page, limit)
}

// Issue keys a per-issue detail fetch.
func Issue(id int64) string {
	return fmt.Sprintf("issue:%d", id)
}

// UserIssues keys a paginated per-reporter listing.
func UserIssues(userID int64, page, limit int) string {
	return fmt.Sprintf("user:%d:issues:%d:%d", userID, page, limit)
}

// AllIssues keys the paginated global listing. The filter fingerprint is
// canonical, so equivalent filter combinations produce identical keys
// regardless of how the caller assembled them.
func AllIssues(page, limit int, f Filters) string {
	return fmt.Sprintf("issues:all:%d:%d:%s", page, limit, f.Fingerprint())
}

func coord(v float64) string {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		r = 0 // drop the sign of negative zero so -0.00004 and 0.00004 share a key
	}
	return strconv.FormatFloat(r, 'f', coordPrecision, 64)
}

// Filters are the supported listing filters. The zero value means "no
// filters" and fingerprints as "all".
type Filters struct {
	Status   string
	Category string
	Severity string
}

// Fingerprint serializes the filter set in a fixed field order, eliding
// empty fields.
func (f Filters) Fingerprint() string {
	var out string
	for _, p := range [...][2]string{
		{"category", f.Category},
		{"severity", f.Severity},
		{"status", f.Status},
	} {
		if p[1] == "" {
			continue
		}
		if out != "" {
			out += "|"
		}
		out += p[0] + "=" + p[1]
	}
	if out == "" {
		return "all"
	}
	return out
}

// Invalidation patterns, used after writes that make cached result sets
// stale. An issue status change invalidates its detail key plus anything
// whose result set could include it.

func NearbyPattern() string    { return "nearby:*" }
func AllIssuesPattern() string { return "issues:all:*" }

func UserIssuesPattern(userID int64) string {
	return fmt.Sprintf("user:%d:issues:*", userID)
}

// ttls maps a resource class to its time-to-live. TTLs are static per
// class, never per instance, and always strictly positive.
var ttls = map[Resource]time.Duration{
	ResourceNearby:     5 * time.Minute,
	ResourceIssue:      10 * time.Minute,
	ResourceUserIssues: 5 * time.Minute,
	ResourceAllIssues:  2 * time.Minute,
}

// defaultTTL covers resource classes added ahead of a registry entry.
const defaultTTL = 5 * time.Minute

// TTL returns the time-to-live for a resource class.
func TTL(r Resource) time.Duration {
	if d, ok := ttls[r]; ok {
		return d
	}
	return defaultTTL
}
