package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/metrics"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// RecentRowsLimit is how many rows an empty search returns
const RecentRowsLimit = 100

// SearchRow is one flattened university / department / head / admin tuple.
// Ids are nil and strings empty where the left join found nothing.
type SearchRow struct {
	UniversityID        uint   `json:"university_id"`
	UniversityName      string `json:"university_name"`
	DepartmentID        *uint  `json:"department_id"`
	DepartmentName      string `json:"department_name"`
	DepartmentHeadID    *uint  `json:"department_head_id"`
	DepartmentHeadName  string `json:"department_head_name"`
	DepartmentHeadEmail string `json:"department_head_email"`
	AdminID             *uint  `json:"admin_id"`
	AdminName           string `json:"admin_name"`
	AdminEmail          string `json:"admin_email"`
}

// rowKey is the displayed image of a SearchRow. Rows that print the same
// collapse into one even when they come from different entities.
type rowKey struct {
	universityName string
	departmentName string
	headName       string
	headEmail      string
	adminName      string
	adminEmail     string
}

func (r SearchRow) key() rowKey {
	return rowKey{
		universityName: r.UniversityName,
		departmentName: r.DepartmentName,
		headName:       r.DepartmentHeadName,
		headEmail:      r.DepartmentHeadEmail,
		adminName:      r.AdminName,
		adminEmail:     r.AdminEmail,
	}
}

const searchProjection = `
SELECT u.id AS university_id,
       u.name AS university_name,
       d.id AS department_id,
       COALESCE(d.name, '') AS department_name,
       h.id AS department_head_id,
       COALESCE(h.name, '') AS department_head_name,
       COALESCE(h.email, '') AS department_head_email,
       a.id AS admin_id,
       COALESCE(a.name, '') AS admin_name,
       COALESCE(a.email, '') AS admin_email`

const recentRowsQuery = searchProjection + `
FROM departments d
JOIN universities u ON u.id = d.university_id
LEFT JOIN department_heads h ON h.department_id = d.id
LEFT JOIN admins a ON a.department_id = d.id
ORDER BY d.id DESC, h.id, a.id
LIMIT ?`

const seededRowsQuery = searchProjection + `
FROM universities u
LEFT JOIN departments d ON d.university_id = u.id
LEFT JOIN department_heads h ON h.department_id = d.id
LEFT JOIN admins a ON a.department_id = d.id
WHERE LOWER(%s) LIKE ? ESCAPE '\'
ORDER BY d.id IS NULL, d.id DESC, h.id, a.id`

// searchSeeds are the columns a non-empty term is matched against, in union order
var searchSeeds = []string{"u.name", "d.name", "h.name", "a.name"}

// SearchService implements the multi-entity catalog search
type SearchService struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

// NewSearchService creates a new search service
func NewSearchService(db *gorm.DB, m *metrics.Metrics) *SearchService {
	return &SearchService{db: db, metrics: m}
}

// Search returns the newest department rows for an empty term. Otherwise it
// runs one case-insensitive substring query per seed entity, unions them in
// seed order and drops rows whose displayed fields equal an earlier row.
func (s *SearchService) Search(ctx context.Context, term string) ([]SearchRow, error) {
	start := time.Now()
	term = strings.TrimSpace(term)

	if term == "" {
		rows := []SearchRow{}
		if err := s.db.WithContext(ctx).Raw(recentRowsQuery, RecentRowsLimit).Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("search failed: %v: %w", err, ErrServiceUnavailable)
		}
		s.metrics.ObserveSearch(start, len(rows))
		return rows, nil
	}

	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	results := make([][]SearchRow, len(searchSeeds))

	g, gctx := errgroup.WithContext(ctx)
	for i, column := range searchSeeds {
		g.Go(func() error {
			rows := []SearchRow{}
			query := fmt.Sprintf(seededRowsQuery, column)
			if err := s.db.WithContext(gctx).Raw(query, pattern).Scan(&rows).Error; err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search failed: %v: %w", err, ErrServiceUnavailable)
	}

	merged := unionRows(results...)
	s.metrics.ObserveSearch(start, len(merged))
	return merged, nil
}

// unionRows concatenates the result sets, keeping the first of every identically displayed row
func unionRows(sets ...[]SearchRow) []SearchRow {
	seen := make(map[rowKey]bool)
	merged := []SearchRow{}
	for _, set := range sets {
		for _, row := range set {
			k := row.key()
			if seen[k] {
				continue
			}
			seen[k] = true
			merged = append(merged, row)
		}
	}
	return merged
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
