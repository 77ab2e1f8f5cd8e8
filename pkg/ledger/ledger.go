// Package ledger records dictionary builds and their rejected words in SQLite.
package ledger

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Build is one row of the builds table.
type Build struct {
	ID          int64          `json:"id" yaml:"id"`
	PhoneSource string         `json:"phone_source" yaml:"phone_source"`
	VocabSource string         `json:"vocab_source" yaml:"vocab_source"`
	Output      string         `json:"output" yaml:"output"`
	Order       string         `json:"order" yaml:"order"`
	Tokens      int            `json:"tokens" yaml:"tokens"`
	Empty       int            `json:"empty" yaml:"empty"`
	Accepted    int            `json:"accepted" yaml:"accepted"`
	Unique      int            `json:"unique" yaml:"unique"`
	Rejected    map[string]int `json:"rejected" yaml:"rejected"`
	StartedAt   int64          `json:"started_at" yaml:"started_at"`
	FinishedAt  int64          `json:"finished_at" yaml:"finished_at"`
}

// TotalRejected sums the per-kind rejection counts.
func (b *Build) TotalRejected() int {
	n := 0
	for _, c := range b.Rejected {
		n += c
	}
	return n
}

// Rejection is one retained rejected word of a build.
type Rejection struct {
	Line   int    `json:"line"`
	Word   string `json:"word"`
	Symbol string `json:"symbol,omitempty"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// Ledger manages the builds database.
type Ledger struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS builds (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	phone_source TEXT NOT NULL,
	vocab_source TEXT NOT NULL,
	output       TEXT NOT NULL,
	word_order   TEXT NOT NULL DEFAULT 'codepoint',
	tokens       INTEGER NOT NULL,
	empty        INTEGER NOT NULL,
	accepted     INTEGER NOT NULL,
	uniq         INTEGER NOT NULL,
	started_at   INTEGER NOT NULL,
	finished_at  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS rejection_counts (
	build_id INTEGER NOT NULL REFERENCES builds(id) ON DELETE CASCADE,
	kind     TEXT NOT NULL,
	count    INTEGER NOT NULL,
	PRIMARY KEY (build_id, kind)
);
CREATE TABLE IF NOT EXISTS rejections (
	build_id INTEGER NOT NULL REFERENCES builds(id) ON DELETE CASCADE,
	line     INTEGER NOT NULL,
	word     TEXT NOT NULL,
	symbol   TEXT NOT NULL DEFAULT '',
	kind     TEXT NOT NULL,
	reason   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_rejections_build ON rejections(build_id, line);
`

// Open opens (or creates) the ledger database at path.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create ledger tables: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the SQLite connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record stores a build with its rejection counts and retained rejections,
// and returns the new build ID.
func (l *Ledger) Record(b Build, rejections []Rejection) (int64, error) {
	if b.FinishedAt == 0 {
		b.FinishedAt = time.Now().Unix()
	}
	if b.StartedAt == 0 {
		b.StartedAt = b.FinishedAt
	}
	if b.Order == "" {
		b.Order = "codepoint"
	}

	tx, err := l.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO builds
		(phone_source, vocab_source, output, word_order, tokens, empty, accepted, uniq, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.PhoneSource, b.VocabSource, b.Output, b.Order, b.Tokens, b.Empty, b.Accepted, b.Unique, b.StartedAt, b.FinishedAt)
	if err != nil {
		return 0, fmt.Errorf("insert build: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("build id: %w", err)
	}

	for kind, n := range b.Rejected {
		if _, err := tx.Exec(`INSERT INTO rejection_counts (build_id, kind, count) VALUES (?, ?, ?)`, id, kind, n); err != nil {
			return 0, fmt.Errorf("insert count %s: %w", kind, err)
		}
	}

	stmt, err := tx.Prepare(`INSERT INTO rejections (build_id, line, word, symbol, kind, reason) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare rejections: %w", err)
	}
	defer stmt.Close()
	for _, r := range rejections {
		if _, err := stmt.Exec(id, r.Line, r.Word, r.Symbol, r.Kind, r.Reason); err != nil {
			return 0, fmt.Errorf("insert rejection line %d: %w", r.Line, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit build: %w", err)
	}
	return id, nil
}

// ListBuilds returns all builds, newest first.
func (l *Ledger) ListBuilds() ([]Build, error) {
	rows, err := l.db.Query(`SELECT id, phone_source, vocab_source, output, word_order,
		tokens, empty, accepted, uniq, started_at, finished_at
		FROM builds ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		var b Build
		if err := rows.Scan(&b.ID, &b.PhoneSource, &b.VocabSource, &b.Output, &b.Order,
			&b.Tokens, &b.Empty, &b.Accepted, &b.Unique, &b.StartedAt, &b.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range builds {
		counts, err := l.counts(builds[i].ID)
		if err != nil {
			return nil, err
		}
		builds[i].Rejected = counts
	}
	return builds, nil
}

// GetBuild returns the build with the given ID.
func (l *Ledger) GetBuild(id int64) (*Build, error) {
	var b Build
	err := l.db.QueryRow(`SELECT id, phone_source, vocab_source, output, word_order,
		tokens, empty, accepted, uniq, started_at, finished_at
		FROM builds WHERE id = ?`, id).Scan(&b.ID, &b.PhoneSource, &b.VocabSource, &b.Output, &b.Order,
		&b.Tokens, &b.Empty, &b.Accepted, &b.Unique, &b.StartedAt, &b.FinishedAt)
	if err != nil {
		return nil, fmt.Errorf("get build %d: %w", id, err)
	}
	if b.Rejected, err = l.counts(id); err != nil {
		return nil, err
	}
	return &b, nil
}

// Rejections returns the retained rejections of a build ordered by line.
func (l *Ledger) Rejections(buildID int64) ([]Rejection, error) {
	rows, err := l.db.Query(`SELECT line, word, symbol, kind, reason
		FROM rejections WHERE build_id = ? ORDER BY line, rowid`, buildID)
	if err != nil {
		return nil, fmt.Errorf("list rejections for build %d: %w", buildID, err)
	}
	defer rows.Close()

	var out []Rejection
	for rows.Next() {
		var r Rejection
		if err := rows.Scan(&r.Line, &r.Word, &r.Symbol, &r.Kind, &r.Reason); err != nil {
			return nil, fmt.Errorf("scan rejection: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (l *Ledger) counts(buildID int64) (map[string]int, error) {
	rows, err := l.db.Query(`SELECT kind, count FROM rejection_counts WHERE build_id = ?`, buildID)
	if err != nil {
		return nil, fmt.Errorf("rejection counts for build %d: %w", buildID, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}
