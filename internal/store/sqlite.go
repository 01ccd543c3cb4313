package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"psx-tracker/internal/errors"
	"psx-tracker/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Portfolio membership
	CREATE TABLE IF NOT EXISTS portfolio (
		symbol TEXT PRIMARY KEY,
		added_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Price samples, append-only time series
	CREATE TABLE IF NOT EXISTS prices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		price REAL NOT NULL,
		change_value REAL,
		percentage TEXT,
		direction TEXT,
		fetched_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_prices_symbol_time ON prices(symbol, fetched_at);

	-- Trade ledger, append-only
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		trade_type TEXT NOT NULL,
		quantity REAL NOT NULL,
		price REAL NOT NULL,
		trade_date DATETIME NOT NULL,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);

	-- Price band alerts, identified by the band itself
	CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		min_price REAL NOT NULL,
		max_price REAL NOT NULL,
		enabled INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, min_price, max_price)
	);

	-- Fundamentals documents, one JSON blob per symbol
	CREATE TABLE IF NOT EXISTS profiles (
		symbol TEXT PRIMARY KEY,
		document TEXT NOT NULL,
		fetched_at DATETIME NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AddSymbol adds a symbol to the portfolio. Adding an existing symbol is a
// no-op.
func (s *SQLiteStore) AddSymbol(ctx context.Context, symbol string) error {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return errors.NewValidationError("symbol", symbol, "must not be empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO portfolio (symbol) VALUES (?)`, symbol)
	if err != nil {
		return fmt.Errorf("failed to add symbol: %w", err)
	}
	return nil
}

// RemoveSymbol removes a symbol and cascades to its trades and price history.
func (s *SQLiteStore) RemoveSymbol(ctx context.Context, symbol string) error {
	symbol = normalizeSymbol(symbol)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM portfolio WHERE symbol = ?`, symbol)
	if err != nil {
		return fmt.Errorf("failed to remove symbol: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.ErrSymbolNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM trades WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("failed to remove trades: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM prices WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("failed to remove prices: %w", err)
	}

	return tx.Commit()
}

// GetSymbols returns all portfolio symbols in insertion order.
func (s *SQLiteStore) GetSymbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT symbol FROM portfolio ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

// SavePrice inserts one price sample. Always an insert: history is
// append-only and never overwritten.
func (s *SQLiteStore) SavePrice(ctx context.Context, sample *models.PriceSample) error {
	fetchedAt := sample.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prices (symbol, price, change_value, percentage, direction, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		normalizeSymbol(sample.Symbol), sample.Price, sample.ChangeValue,
		sample.Percentage, sample.Direction, fetchedAt)
	if err != nil {
		return fmt.Errorf("failed to save price: %w", err)
	}
	return nil
}

// GetLatestPrices returns the most recent sample per symbol.
func (s *SQLiteStore) GetLatestPrices(ctx context.Context) (map[string]models.PriceSample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.symbol, p.price, p.change_value, p.percentage, p.direction, p.fetched_at
		FROM prices p
		JOIN (
			SELECT symbol, MAX(fetched_at) AS max_time FROM prices GROUP BY symbol
		) latest ON p.symbol = latest.symbol AND p.fetched_at = latest.max_time`)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest prices: %w", err)
	}
	defer rows.Close()

	latest := make(map[string]models.PriceSample)
	for rows.Next() {
		sample, err := scanPrice(rows)
		if err != nil {
			return nil, err
		}
		latest[sample.Symbol] = sample
	}
	return latest, rows.Err()
}

// GetPriceHistory returns samples for a symbol in the given window, oldest
// first. Zero bounds mean unbounded.
func (s *SQLiteStore) GetPriceHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceSample, error) {
	query := `SELECT symbol, price, change_value, percentage, direction, fetched_at
		FROM prices WHERE symbol = ?`
	args := []interface{}{normalizeSymbol(symbol)}

	if !from.IsZero() {
		query += ` AND fetched_at >= ?`
		args = append(args, from)
	}
	if !to.IsZero() {
		query += ` AND fetched_at <= ?`
		args = append(args, to)
	}
	query += ` ORDER BY fetched_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var samples []models.PriceSample
	for rows.Next() {
		sample, err := scanPrice(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

func scanPrice(rows *sql.Rows) (models.PriceSample, error) {
	var sample models.PriceSample
	var change sql.NullFloat64
	if err := rows.Scan(&sample.Symbol, &sample.Price, &change,
		&sample.Percentage, &sample.Direction, &sample.FetchedAt); err != nil {
		return models.PriceSample{}, fmt.Errorf("failed to scan price: %w", err)
	}
	if change.Valid {
		v := change.Float64
		sample.ChangeValue = &v
	}
	return sample, nil
}

// LogTrade appends one ledger entry and fills in the assigned id.
func (s *SQLiteStore) LogTrade(ctx context.Context, trade *models.Trade) error {
	if err := validateTrade(trade); err != nil {
		return err
	}
	tradeDate := trade.TradeDate
	if tradeDate.IsZero() {
		tradeDate = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO trades (symbol, trade_type, quantity, price, trade_date, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		normalizeSymbol(trade.Symbol), string(trade.TradeType),
		trade.Quantity, trade.Price, tradeDate, trade.Notes)
	if err != nil {
		return fmt.Errorf("failed to log trade: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		trade.ID = id
	}
	return nil
}

func validateTrade(trade *models.Trade) error {
	if normalizeSymbol(trade.Symbol) == "" {
		return errors.NewValidationError("symbol", trade.Symbol, "must not be empty")
	}
	if trade.TradeType != models.TradeBuy && trade.TradeType != models.TradeSell {
		return errors.NewValidationError("trade_type", trade.TradeType, "must be Buy or Sell")
	}
	if trade.Quantity <= 0 {
		return errors.NewValidationError("quantity", trade.Quantity, "must be positive")
	}
	if trade.Price < 0 {
		return errors.NewValidationError("price", trade.Price, "must not be negative")
	}
	return nil
}

// GetTrades returns ledger entries matching the filter, oldest first.
func (s *SQLiteStore) GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	query := `SELECT id, symbol, trade_type, quantity, price, trade_date, notes
		FROM trades WHERE 1=1`
	var args []interface{}

	if filter.Symbol != "" {
		query += ` AND symbol = ?`
		args = append(args, normalizeSymbol(filter.Symbol))
	}
	if filter.TradeType != "" {
		query += ` AND trade_type = ?`
		args = append(args, string(filter.TradeType))
	}
	if !filter.From.IsZero() {
		query += ` AND trade_date >= ?`
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		query += ` AND trade_date <= ?`
		args = append(args, filter.To)
	}
	query += ` ORDER BY trade_date, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		var tradeType string
		var notes sql.NullString
		if err := rows.Scan(&t.ID, &t.Symbol, &tradeType, &t.Quantity,
			&t.Price, &t.TradeDate, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		t.TradeType = models.TradeType(tradeType)
		t.Notes = notes.String
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// SaveAlert stores an alert. Re-saving the same band re-enables it.
func (s *SQLiteStore) SaveAlert(ctx context.Context, alert *models.Alert) error {
	symbol := normalizeSymbol(alert.Symbol)
	if symbol == "" {
		return errors.NewValidationError("symbol", alert.Symbol, "must not be empty")
	}
	if alert.MinPrice <= 0 && alert.MaxPrice <= 0 {
		return errors.NewValidationError("alert", alert, "at least one bound must be set")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (symbol, min_price, max_price, enabled)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol, min_price, max_price)
		DO UPDATE SET enabled = excluded.enabled`,
		symbol, alert.MinPrice, alert.MaxPrice, alert.Enabled)
	if err != nil {
		return fmt.Errorf("failed to save alert: %w", err)
	}
	return nil
}

// GetAlerts returns alerts, optionally only enabled ones.
func (s *SQLiteStore) GetAlerts(ctx context.Context, enabledOnly bool) ([]models.Alert, error) {
	query := `SELECT symbol, min_price, max_price, enabled, created_at FROM alerts`
	if enabledOnly {
		query += ` WHERE enabled = 1`
	}
	query += ` ORDER BY symbol, min_price, max_price`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.Symbol, &a.MinPrice, &a.MaxPrice, &a.Enabled, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// SetAlertEnabled toggles the alert identified by its band.
func (s *SQLiteStore) SetAlertEnabled(ctx context.Context, symbol string, minPrice, maxPrice float64, enabled bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET enabled = ? WHERE symbol = ? AND min_price = ? AND max_price = ?`,
		enabled, normalizeSymbol(symbol), minPrice, maxPrice)
	if err != nil {
		return fmt.Errorf("failed to update alert: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.ErrAlertNotFound
	}
	return nil
}

// DeleteAlert removes the alert identified by its band.
func (s *SQLiteStore) DeleteAlert(ctx context.Context, symbol string, minPrice, maxPrice float64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM alerts WHERE symbol = ? AND min_price = ? AND max_price = ?`,
		normalizeSymbol(symbol), minPrice, maxPrice)
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.ErrAlertNotFound
	}
	return nil
}

// SaveProfile replaces the fundamentals document for a symbol wholesale.
func (s *SQLiteStore) SaveProfile(ctx context.Context, profile *models.StockProfile) error {
	symbol := normalizeSymbol(profile.Symbol)
	if symbol == "" {
		return errors.NewValidationError("symbol", profile.Symbol, "must not be empty")
	}
	fetchedAt := profile.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (symbol, document, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(symbol)
		DO UPDATE SET document = excluded.document, fetched_at = excluded.fetched_at`,
		symbol, string(doc), fetchedAt)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetProfile returns the stored fundamentals document for a symbol.
func (s *SQLiteStore) GetProfile(ctx context.Context, symbol string) (*models.StockProfile, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM profiles WHERE symbol = ?`,
		normalizeSymbol(symbol)).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	var profile models.StockProfile
	if err := json.Unmarshal([]byte(doc), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
