package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"TradeLLM/internal/domain/models"
	domrepo "TradeLLM/internal/domain/repository"
	applogger "TradeLLM/pkg/logger"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// CHCandles implements MarketData over a ClickHouse OHLCV table with
// columns (bucket, symbol, tf, open, high, low, close, volume).
type CHCandles struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHCandles(db *sql.DB, table string, l *applogger.Logger) (*CHCandles, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &CHCandles{db: db, table: table, l: l}, nil
}

func (s *CHCandles) GetLatestNCandles(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) ([]models.Candle, error) {
	start := time.Now()
	const qtpl = `
        SELECT bucket, symbol, open, high, low, close, volume
        FROM %s
        WHERE symbol = ? AND tf = ?
        ORDER BY bucket DESC
        LIMIT ?
    `
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, string(tf), n)
	if err != nil {
		s.l.Error("clickhouse latest_candles query error",
			applogger.String("table", s.table),
			applogger.String("symbol", symbol),
			applogger.String("tf", string(tf)),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("get latest candles: %w", err)
	}
	defer rows.Close()

	out := make([]models.Candle, 0, n)
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Bucket, &c.Symbol, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	s.l.Debug("clickhouse latest_candles ok",
		applogger.String("symbol", symbol),
		applogger.String("tf", string(tf)),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

var _ domrepo.MarketData = (*CHCandles)(nil)
