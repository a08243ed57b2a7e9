package calculator

import (
	"cmp"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"nearby-places/internal/models"
)

// DefaultLimit is the number of places shown next to the marker.
const DefaultLimit = 5

type ProgressCallback func(current, total int, msg string)
type LoggerCallback func(msg string)

// Rank returns the k catalog points nearest to query, closest first.
// Points at exactly the same distance keep their catalog order. An empty
// catalog or k == 0 yields an empty result.
func Rank(query models.Coordinate, catalog []models.GeoPoint, k int) ([]models.RankedResult, error) {
	if k < 0 {
		return nil, fmt.Errorf("rank: k=%d: %w", k, ErrInvalidK)
	}

	return rank(query, catalog, k), nil
}

func rank(query models.Coordinate, catalog []models.GeoPoint, k int) []models.RankedResult {
	results := measure(query, catalog)
	sortByDistance(results)

	if k < len(results) {
		results = results[:k]
	}
	return results
}

// WithinRadius returns every catalog point at most radiusKm away from query,
// closest first.
func WithinRadius(query models.Coordinate, catalog []models.GeoPoint, radiusKm float64) ([]models.RankedResult, error) {
	if !isFinite(radiusKm) || radiusKm < 0 {
		return nil, fmt.Errorf("within radius: radius=%v: %w", radiusKm, ErrInvalidRadius)
	}

	all := measure(query, catalog)
	inside := all[:0]
	for _, r := range all {
		if r.DistanceKm <= radiusKm {
			inside = append(inside, r)
		}
	}
	sortByDistance(inside)

	return inside, nil
}

func measure(query models.Coordinate, catalog []models.GeoPoint) []models.RankedResult {
	results := make([]models.RankedResult, 0, len(catalog))
	for _, p := range catalog {
		results = append(results, models.RankedResult{
			Point:      p,
			DistanceKm: DistanceKm(query, p.Coordinate()),
		})
	}
	return results
}

func sortByDistance(results []models.RankedResult) {
	slices.SortStableFunc(results, func(a, b models.RankedResult) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})
}

// Ranker binds a fixed catalog and result limit. It keeps no state between
// calls and is safe for concurrent use.
type Ranker struct {
	catalog []models.GeoPoint
	limit   int
}

func NewRanker(catalog []models.GeoPoint, limit int) (*Ranker, error) {
	if limit < 0 {
		return nil, fmt.Errorf("new ranker: limit=%d: %w", limit, ErrInvalidK)
	}

	return &Ranker{
		catalog: slices.Clone(catalog),
		limit:   limit,
	}, nil
}

func (r *Ranker) Limit() int {
	return r.limit
}

// Catalog returns a copy of the ranked catalog in its original order.
func (r *Ranker) Catalog() []models.GeoPoint {
	return slices.Clone(r.catalog)
}

// Rank ranks the catalog against query using the configured limit.
func (r *Ranker) Rank(query models.Coordinate) []models.RankedResult {
	return rank(query, r.catalog, r.limit)
}

// RankN ranks with a caller-supplied limit instead of the configured one.
func (r *Ranker) RankN(query models.Coordinate, k int) ([]models.RankedResult, error) {
	return Rank(query, r.catalog, k)
}

func (r *Ranker) WithinRadius(query models.Coordinate, radiusKm float64) ([]models.RankedResult, error) {
	return WithinRadius(query, r.catalog, radiusKm)
}

// RankBatch ranks every query against the catalog and flattens the output
// into rows, grouped by query in input order. Queries are split into one
// chunk per CPU.
func RankBatch(queries []models.QueryPoint, catalog []models.GeoPoint, k int, onProgress ProgressCallback, logger LoggerCallback) ([]models.ResultRow, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("rank batch: empty query list")
	}
	if k < 0 {
		return nil, fmt.Errorf("rank batch: k=%d: %w", k, ErrInvalidK)
	}
	if logger == nil {
		logger = func(string) {}
	}

	total := len(queries)
	perQuery := make([][]models.ResultRow, total)

	numCPU := runtime.NumCPU()
	if numCPU < 1 {
		numCPU = 1
	}
	chunkSize := (total + numCPU - 1) / numCPU

	var wg sync.WaitGroup
	var processedCount int64

	logger(fmt.Sprintf("Ranking %d queries against %d places with %d CPUs (k=%d)", total, len(catalog), numCPU, k))

	for i := 0; i < numCPU; i++ {
		start := i * chunkSize
		if start >= total {
			break
		}
		end := min(start+chunkSize, total)

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()

			for idx := s; idx < e; idx++ {
				q := queries[idx]
				ranked := rank(q.Loc, catalog, k)

				rows := make([]models.ResultRow, 0, len(ranked))
				for pos, r := range ranked {
					rows = append(rows, models.ResultRow{
						QueryID:    q.ID,
						QueryName:  q.Name,
						QueryLat:   q.Loc.Latitude,
						QueryLon:   q.Loc.Longitude,
						Rank:       pos + 1,
						PlaceID:    r.Point.ID,
						PlaceName:  r.Point.Name,
						PlaceLat:   r.Point.Latitude,
						PlaceLon:   r.Point.Longitude,
						DistanceKm: r.DistanceKm,
					})
				}
				perQuery[idx] = rows

				count := atomic.AddInt64(&processedCount, 1)
				if count%500 == 0 && onProgress != nil {
					onProgress(int(count), total, "")
				}
			}
		}(start, end)
	}

	wg.Wait()

	if onProgress != nil {
		onProgress(total, total, "")
	}

	results := make([]models.ResultRow, 0, total*min(k, len(catalog)))
	for _, rows := range perQuery {
		results = append(results, rows...)
	}

	logger("Ranking completed.")
	return results, nil
}
