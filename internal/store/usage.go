package store

import (
	"context"
	"database/sql"
	"fmt"

	"sourcelens/internal/model"
)

// LogUsage appends one upstream API call to the usage log.
func (s *Store) LogUsage(ctx context.Context, entry *model.UsageEntry) error {
	success := 0
	if entry.Success {
		success = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_usage_log (
			api_name, endpoint, model_used, input_tokens, output_tokens,
			estimated_cost_usd, url, success, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.APIName, entry.Endpoint, entry.Model, entry.InputTokens, entry.OutputTokens,
		entry.CostUSD, entry.URL, success, entry.ErrorMessage)
	if err != nil {
		return fmt.Errorf("log usage: %w", err)
	}
	return nil
}

// UsageStats aggregates the usage log over the last days days: totals,
// per-API and per-model spend, a daily series and the priciest calls.
func (s *Store) UsageStats(ctx context.Context, days int) (*model.UsageStats, error) {
	since := fmt.Sprintf("-%d days", days)
	stats := &model.UsageStats{
		PeriodDays:   days,
		ByAPI:        []model.APIUsage{},
		ByModel:      []model.ModelUsage{},
		Daily:        []model.DailyUsage{},
		TopExpensive: []model.ExpensiveCall{},
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(input_tokens), 0),
		       COALESCE(SUM(output_tokens), 0),
		       COALESCE(SUM(estimated_cost_usd), 0),
		       COALESCE(SUM(success), 0)
		FROM api_usage_log
		WHERE timestamp >= datetime('now', ?)`, since)
	var successful int
	if err := row.Scan(&stats.Totals.TotalCalls, &stats.Totals.TotalInputTokens,
		&stats.Totals.TotalOutputTokens, &stats.Totals.TotalCostUSD, &successful); err != nil {
		return nil, fmt.Errorf("usage totals: %w", err)
	}
	stats.Totals.SuccessfulCalls = successful
	stats.Totals.FailedCalls = stats.Totals.TotalCalls - successful

	apiRows, err := s.db.QueryContext(ctx, `
		SELECT api_name, COUNT(*), COALESCE(SUM(estimated_cost_usd), 0)
		FROM api_usage_log
		WHERE timestamp >= datetime('now', ?)
		GROUP BY api_name
		ORDER BY SUM(estimated_cost_usd) DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("usage by api: %w", err)
	}
	defer apiRows.Close()
	for apiRows.Next() {
		var u model.APIUsage
		if err := apiRows.Scan(&u.APIName, &u.Calls, &u.CostUSD); err != nil {
			return nil, err
		}
		stats.ByAPI = append(stats.ByAPI, u)
	}
	if err := apiRows.Err(); err != nil {
		return nil, err
	}

	modelRows, err := s.db.QueryContext(ctx, `
		SELECT model_used, COUNT(*),
		       COALESCE(SUM(input_tokens), 0),
		       COALESCE(SUM(output_tokens), 0),
		       COALESCE(SUM(estimated_cost_usd), 0),
		       COALESCE(AVG(estimated_cost_usd), 0)
		FROM api_usage_log
		WHERE timestamp >= datetime('now', ?) AND model_used IS NOT NULL AND model_used != ''
		GROUP BY model_used
		ORDER BY SUM(estimated_cost_usd) DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("usage by model: %w", err)
	}
	defer modelRows.Close()
	for modelRows.Next() {
		var u model.ModelUsage
		if err := modelRows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens,
			&u.CostUSD, &u.AvgCostPerCall); err != nil {
			return nil, err
		}
		stats.ByModel = append(stats.ByModel, u)
	}
	if err := modelRows.Err(); err != nil {
		return nil, err
	}

	dailyRows, err := s.db.QueryContext(ctx, `
		SELECT DATE(timestamp), COUNT(*),
		       COALESCE(SUM(input_tokens), 0),
		       COALESCE(SUM(output_tokens), 0),
		       COALESCE(SUM(estimated_cost_usd), 0)
		FROM api_usage_log
		WHERE timestamp >= datetime('now', ?)
		GROUP BY DATE(timestamp)
		ORDER BY DATE(timestamp) DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("daily usage: %w", err)
	}
	defer dailyRows.Close()
	for dailyRows.Next() {
		var u model.DailyUsage
		if err := dailyRows.Scan(&u.Date, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.CostUSD); err != nil {
			return nil, err
		}
		stats.Daily = append(stats.Daily, u)
	}
	if err := dailyRows.Err(); err != nil {
		return nil, err
	}

	expRows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(url, ''), COALESCE(model_used, ''),
		       input_tokens, output_tokens, estimated_cost_usd, timestamp
		FROM api_usage_log
		WHERE timestamp >= datetime('now', ?) AND estimated_cost_usd > 0
		ORDER BY estimated_cost_usd DESC
		LIMIT 10`, since)
	if err != nil {
		return nil, fmt.Errorf("top expensive calls: %w", err)
	}
	defer expRows.Close()
	for expRows.Next() {
		var c model.ExpensiveCall
		var ts sql.NullTime
		if err := expRows.Scan(&c.URL, &c.Model, &c.InputTokens, &c.OutputTokens, &c.CostUSD, &ts); err != nil {
			return nil, err
		}
		if ts.Valid {
			c.Timestamp = ts.Time.Format("2006-01-02 15:04:05")
		}
		stats.TopExpensive = append(stats.TopExpensive, c)
	}
	return stats, expRows.Err()
}
