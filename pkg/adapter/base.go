package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bird-bench/mini-dev/pkg/dialect"
	"github.com/bird-bench/mini-dev/pkg/schema"
)

// ErrNotConnected is returned by operations that need an open connection.
var ErrNotConnected = errors.New("database connection not established")

// MaxSampleLength is the number of characters kept of a sample value
// before it is cut and suffixed with "...".
const MaxSampleLength = 30

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed it in concrete adapters to get Close and the information_schema
// and sampling helpers.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB == nil {
		return nil
	}
	b.logger().Debug("closing database connection")
	return b.DB.Close()
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

func (b *BaseSQLAdapter) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// SnapshotFromInformationSchema reads tables and columns of schemaName
// from information_schema. An empty schemaName uses the dialect's default
// schema. Primary keys come from table_constraints; engines that do not
// expose it still get a snapshot, without primary key flags.
func (b *BaseSQLAdapter) SnapshotFromInformationSchema(ctx context.Context, d *dialect.Dialect, schemaName string) (*schema.Snapshot, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	if schemaName == "" {
		schemaName = d.DefaultSchema
	}

	sb := d.Flavor.NewSelectBuilder()
	sb.Select("table_name", "column_name", "data_type", "is_nullable", "column_default")
	sb.From("information_schema.columns")
	sb.Where(sb.Equal("table_schema", schemaName))
	sb.OrderBy("table_name", "ordinal_position")
	query, args := sb.Build()

	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	snap := &schema.Snapshot{Database: b.Cfg.Database}
	positions := make(map[string]int)
	for rows.Next() {
		var (
			table, nullable string
			col             schema.Column
			def             sql.NullString
		)
		if err := rows.Scan(&table, &col.Name, &col.Type, &nullable, &def); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = nullable == "YES"
		if def.Valid {
			col.Default = &def.String
		}

		pos, ok := positions[table]
		if !ok {
			pos = len(snap.Tables)
			positions[table] = pos
			snap.Tables = append(snap.Tables, schema.Table{Name: table})
		}
		snap.Tables[pos].Columns = append(snap.Tables[pos].Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	keys, err := b.primaryKeys(ctx, d, schemaName)
	if err != nil {
		b.logger().Debug("primary keys unavailable", slog.String("schema", schemaName), slog.Any("error", err))
	}
	for i := range snap.Tables {
		for j := range snap.Tables[i].Columns {
			col := &snap.Tables[i].Columns[j]
			_, col.PrimaryKey = keys[snap.Tables[i].Name+"."+col.Name]
		}
	}

	return snap, nil
}

func (b *BaseSQLAdapter) primaryKeys(ctx context.Context, d *dialect.Dialect, schemaName string) (map[string]struct{}, error) {
	sb := d.Flavor.NewSelectBuilder()
	sb.Select("kcu.table_name", "kcu.column_name")
	sb.From(sb.As("information_schema.table_constraints", "tc"))
	sb.Join(sb.As("information_schema.key_column_usage", "kcu"),
		"tc.constraint_name = kcu.constraint_name",
		"tc.table_schema = kcu.table_schema",
		"tc.table_name = kcu.table_name",
	)
	sb.Where(
		sb.Equal("tc.table_schema", schemaName),
		sb.Equal("tc.constraint_type", "PRIMARY KEY"),
	)
	query, args := sb.Build()

	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	keys := make(map[string]struct{})
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, err
		}
		keys[table+"."+column] = struct{}{}
	}
	return keys, rows.Err()
}

// SampleValues returns the limit most frequent non-null values of a
// column, most frequent first. Long values are cut to MaxSampleLength
// characters.
func (b *BaseSQLAdapter) SampleValues(ctx context.Context, d *dialect.Dialect, table, column string, limit int) ([]string, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	col := d.QuoteIdentifier(column)

	sb := d.Flavor.NewSelectBuilder()
	sb.Select(col, "COUNT(*) AS freq")
	sb.From(d.QuoteIdentifier(table))
	sb.Where(sb.IsNotNull(col))
	sb.GroupBy(col)
	sb.OrderBy("freq").Desc()
	sb.Limit(limit)
	query, args := sb.Build()

	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sample %s.%s: %w", table, column, err)
	}
	defer func() { _ = rows.Close() }()

	var values []string
	for rows.Next() {
		var (
			value any
			freq  int64
		)
		if err := rows.Scan(&value, &freq); err != nil {
			return nil, fmt.Errorf("failed to scan sample of %s.%s: %w", table, column, err)
		}
		values = append(values, FormatSample(value))
	}
	return values, rows.Err()
}

// FillSampleValues samples every column of snap. A column that cannot be
// sampled keeps no samples; the failure is logged, not returned.
func (b *BaseSQLAdapter) FillSampleValues(ctx context.Context, d *dialect.Dialect, snap *schema.Snapshot, limit int) error {
	if limit <= 0 {
		return nil
	}
	for i := range snap.Tables {
		table := &snap.Tables[i]
		for j := range table.Columns {
			if err := ctx.Err(); err != nil {
				return err
			}
			col := &table.Columns[j]
			values, err := b.SampleValues(ctx, d, table.Name, col.Name, limit)
			if err != nil {
				b.logger().Debug("skipping sample values", slog.String("table", table.Name), slog.String("column", col.Name), slog.Any("error", err))
				continue
			}
			col.SampleValues = values
		}
	}
	return nil
}

// FormatSample renders a scanned value as text.
func FormatSample(value any) string {
	var s string
	switch v := value.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		s = fmt.Sprint(v)
	}
	if runes := []rune(s); len(runes) > MaxSampleLength {
		s = string(runes[:MaxSampleLength]) + "..."
	}
	return s
}
