package source

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"

	"github.com/iwvelando/mortgage-simulator/pkg/brackets"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLite reads the table from a database table with one column per record
// field (renda, valor_max_financiado, taxa_juros, subsidio_com_dependente,
// subsidio_sem_dependente).
type SQLite struct {
	logger *zap.Logger
	path   string
	table  string
}

// NewSQLite parses a sqlite://path.db[?table=name] location. Absolute paths
// use three slashes (sqlite:///var/lib/faixas.db).
func NewSQLite(logger *zap.Logger, location string, opts Options) (*SQLite, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid sqlite location %q: %w", location, err)
	}

	path := u.Host + u.Path
	if path == "" {
		return nil, fmt.Errorf("invalid sqlite location %q: missing database path", location)
	}

	table := opts.SQLiteTable
	if t := u.Query().Get("table"); t != "" {
		table = t
	}
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid sqlite table name %q", table)
	}

	return &SQLite{logger: logger, path: path, table: table}, nil
}

// Load opens the database read-only and scans every row of the table.
func (s *SQLite) Load(ctx context.Context) ([]brackets.Bracket, error) {
	db, err := sql.Open("sqlite3", "file:"+s.path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.Describe(), err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			s.logger.Warn("failed to close sqlite database",
				zap.String("op", "source.SQLite.Load"),
				zap.Error(err),
			)
		}
	}()

	query := fmt.Sprintf(`SELECT renda, valor_max_financiado, taxa_juros,
		subsidio_com_dependente, subsidio_sem_dependente FROM %s`, s.table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.Describe(), err)
	}
	defer rows.Close()

	var result []brackets.Bracket
	for rows.Next() {
		var b brackets.Bracket
		if err := rows.Scan(&b.IncomeCeiling, &b.MaxFinanceable, &b.AnnualRate,
			&b.SubsidyWithDependents, &b.SubsidyWithoutDependents); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", s.Describe(), err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Describe(), err)
	}

	s.logger.Debug("read financing table from sqlite",
		zap.String("op", "source.SQLite.Load"),
		zap.String("path", s.path),
		zap.Int("rows", len(result)),
	)
	return result, nil
}

// Describe names the source for logs and status output.
func (s *SQLite) Describe() string {
	return fmt.Sprintf("sqlite %s table %s", s.path, s.table)
}
