// Package store persists the source repository and API usage log in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"sourcelens/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS sources (
	domain TEXT PRIMARY KEY,
	name TEXT,
	credibility_score REAL,
	credibility_rating TEXT,
	criteria_json TEXT,
	political_lean INTEGER,
	political_lean_label TEXT,
	source_type TEXT,
	description TEXT,
	ownership_summary TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sources_political_lean ON sources(political_lean);
CREATE INDEX IF NOT EXISTS idx_sources_credibility_score ON sources(credibility_score);
CREATE INDEX IF NOT EXISTS idx_sources_source_type ON sources(source_type);

CREATE TABLE IF NOT EXISTS api_usage_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	api_name TEXT NOT NULL,
	endpoint TEXT,
	model_used TEXT,
	input_tokens INTEGER DEFAULT 0,
	output_tokens INTEGER DEFAULT 0,
	estimated_cost_usd REAL DEFAULT 0,
	url TEXT,
	success INTEGER DEFAULT 1,
	error_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_usage_timestamp ON api_usage_log(timestamp);
CREATE INDEX IF NOT EXISTS idx_usage_api_name ON api_usage_log(api_name);
`

const sourceColumns = `domain, name, credibility_score, credibility_rating, criteria_json,
	political_lean, political_lean_label, source_type, description, ownership_summary`

// Store wraps the SQLite database holding sources and usage records.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Lookup finds a source by canonical domain. An exact match wins; otherwise
// a substring match is tried, shortest domain first with lexicographic
// tie-break so repeated lookups always land on the same row. Returns
// model.ErrSourceNotFound when nothing matches.
func (s *Store) Lookup(ctx context.Context, domain string) (*model.Source, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE domain = ?`, domain)
	src, err := scanSource(row)
	if err == nil {
		return src, nil
	}
	if !errors.Is(err, model.ErrSourceNotFound) {
		return nil, err
	}

	row = s.db.QueryRowContext(ctx,
		`SELECT `+sourceColumns+` FROM sources
		 WHERE domain LIKE ?
		 ORDER BY LENGTH(domain), domain
		 LIMIT 1`, "%"+domain+"%")
	return scanSource(row)
}

// LookupBulk fetches several domains in one query. Exact matches only;
// missing domains are simply absent from the result map.
func (s *Store) LookupBulk(ctx context.Context, domains []string) (map[string]*model.Source, error) {
	if len(domains) == 0 {
		return map[string]*model.Source{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(domains)), ",")
	args := make([]any, len(domains))
	for i, d := range domains {
		args[i] = d
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE domain IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("bulk lookup: %w", err)
	}
	defer rows.Close()

	found := make(map[string]*model.Source, len(domains))
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		found[src.Domain] = src
	}
	return found, rows.Err()
}

// ByLeans returns sources whose political lean is one of leans and whose
// credibility score is recorded and at least minCredibility, best first.
// Sources without a score never qualify.
func (s *Store) ByLeans(ctx context.Context, leans []int, minCredibility float64, limit int) ([]*model.Source, error) {
	if len(leans) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(leans)), ",")
	args := make([]any, 0, len(leans)+2)
	for _, l := range leans {
		args = append(args, l)
	}
	args = append(args, minCredibility, limit)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sourceColumns+` FROM sources
		 WHERE political_lean IN (`+placeholders+`)
		   AND credibility_score >= ?
		 ORDER BY credibility_score DESC, domain ASC
		 LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("query by leans: %w", err)
	}
	defer rows.Close()

	return collectSources(rows)
}

// QueryFilter narrows a repository listing. Nil/zero fields are ignored.
type QueryFilter struct {
	Lean           *int
	MinCredibility *float64
	SourceType     string
	Limit          int
	Offset         int
}

// Query lists sources matching the filter, highest credibility first, and
// returns the total match count before pagination.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]*model.Source, int, error) {
	var conds []string
	var args []any

	if filter.Lean != nil {
		conds = append(conds, "political_lean = ?")
		args = append(args, *filter.Lean)
	}
	if filter.MinCredibility != nil {
		conds = append(conds, "credibility_score >= ?")
		args = append(args, *filter.MinCredibility)
	}
	if filter.SourceType != "" {
		conds = append(conds, "source_type = ?")
		args = append(args, filter.SourceType)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sources`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sources: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	listArgs := append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sourceColumns+` FROM sources`+where+`
		 ORDER BY credibility_score DESC, name ASC
		 LIMIT ? OFFSET ?`, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	sources, err := collectSources(rows)
	if err != nil {
		return nil, 0, err
	}
	return sources, total, nil
}

// Upsert inserts or replaces one source row.
func (s *Store) Upsert(ctx context.Context, src *model.Source) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sources (
			domain, name, credibility_score, credibility_rating, criteria_json,
			political_lean, political_lean_label, source_type, description, ownership_summary
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		src.Domain, src.Name, src.CredibilityScore, src.CredibilityRating,
		criteriaText(src.Criteria), src.PoliticalLean, src.PoliticalLeanLabel,
		src.SourceType, src.Description, src.OwnershipSummary)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", src.Domain, err)
	}
	return nil
}

// Import loads sources in a single transaction and reports how many rows
// were written. Entries without a domain are skipped.
func (s *Store) Import(ctx context.Context, sources []*model.Source) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO sources (
			domain, name, credibility_score, credibility_rating, criteria_json,
			political_lean, political_lean_label, source_type, description, ownership_summary
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, src := range sources {
		if src == nil || src.Domain == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			src.Domain, src.Name, src.CredibilityScore, src.CredibilityRating,
			criteriaText(src.Criteria), src.PoliticalLean, src.PoliticalLeanLabel,
			src.SourceType, src.Description, src.OwnershipSummary); err != nil {
			return 0, fmt.Errorf("import %s: %w", src.Domain, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return count, nil
}

// Stats summarizes the repository: counts, lean and type distributions,
// and credibility tier sizes.
func (s *Store) Stats(ctx context.Context) (*model.RepositoryStats, error) {
	stats := &model.RepositoryStats{
		LeanDistribution: map[string]int{},
		TypeDistribution: map[string]int{},
		CredibilityTiers: map[string]int{},
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(credibility_score),
		       COUNT(political_lean)
		FROM sources`)
	if err := row.Scan(&stats.TotalSources, &stats.WithCredibility, &stats.WithPoliticalLean); err != nil {
		return nil, fmt.Errorf("count sources: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT political_lean_label, COUNT(*) FROM sources
		WHERE political_lean IS NOT NULL
		GROUP BY political_lean_label
		ORDER BY MIN(political_lean)`)
	if err != nil {
		return nil, fmt.Errorf("lean distribution: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var label sql.NullString
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		if label.Valid && label.String != "" {
			stats.LeanDistribution[label.String] = n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	typeRows, err := s.db.QueryContext(ctx, `
		SELECT source_type, COUNT(*) FROM sources
		WHERE source_type IS NOT NULL AND source_type != ''
		GROUP BY source_type
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("type distribution: %w", err)
	}
	defer typeRows.Close()
	for typeRows.Next() {
		var sourceType string
		var n int
		if err := typeRows.Scan(&sourceType, &n); err != nil {
			return nil, err
		}
		stats.TypeDistribution[sourceType] = n
	}
	if err := typeRows.Err(); err != nil {
		return nil, err
	}

	tierRow := s.db.QueryRowContext(ctx, `
		SELECT SUM(CASE WHEN credibility_score >= 80 THEN 1 ELSE 0 END),
		       SUM(CASE WHEN credibility_score >= 60 AND credibility_score < 80 THEN 1 ELSE 0 END),
		       SUM(CASE WHEN credibility_score < 60 THEN 1 ELSE 0 END)
		FROM sources WHERE credibility_score IS NOT NULL`)
	var high, medium, low sql.NullInt64
	if err := tierRow.Scan(&high, &medium, &low); err != nil {
		return nil, fmt.Errorf("credibility tiers: %w", err)
	}
	stats.CredibilityTiers["high"] = int(high.Int64)
	stats.CredibilityTiers["medium"] = int(medium.Int64)
	stats.CredibilityTiers["low"] = int(low.Int64)

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (*model.Source, error) {
	var src model.Source
	var name, rating, criteria, leanLabel sql.NullString
	var sourceType, description, ownership sql.NullString
	var score sql.NullFloat64
	var lean sql.NullInt64

	err := row.Scan(&src.Domain, &name, &score, &rating, &criteria,
		&lean, &leanLabel, &sourceType, &description, &ownership)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrSourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan source: %w", err)
	}

	src.Name = name.String
	if score.Valid {
		v := score.Float64
		src.CredibilityScore = &v
	}
	if rating.Valid && rating.String != "" {
		v := rating.String
		src.CredibilityRating = &v
	}
	// Malformed criteria blobs are dropped rather than breaking the lookup.
	if criteria.Valid && criteria.String != "" && json.Valid([]byte(criteria.String)) {
		src.Criteria = json.RawMessage(criteria.String)
	}
	if lean.Valid {
		v := int(lean.Int64)
		src.PoliticalLean = &v
	}
	src.PoliticalLeanLabel = leanLabel.String
	if sourceType.Valid && sourceType.String != "" {
		v := sourceType.String
		src.SourceType = &v
	}
	src.Description = description.String
	src.OwnershipSummary = ownership.String
	return &src, nil
}

func collectSources(rows *sql.Rows) ([]*model.Source, error) {
	var out []*model.Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

func criteriaText(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
