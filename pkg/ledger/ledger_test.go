package ledger

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestOpen_CreatesTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file not created: %v", err)
	}
	builds, err := l.ListBuilds()
	if err != nil {
		t.Fatalf("ListBuilds on empty db: %v", err)
	}
	if len(builds) != 0 {
		t.Fatalf("expected 0 builds, got %d", len(builds))
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	for i := 0; i < 2; i++ {
		l, err := Open(path)
		if err != nil {
			t.Fatalf("Open #%d: %v", i, err)
		}
		l.Close()
	}
}

func TestRecordAndList(t *testing.T) {
	l := tempLedger(t)

	first, err := l.Record(Build{
		PhoneSource: "hindi.csv",
		VocabSource: "hi.vocab",
		Output:      "hi.dict",
		Tokens:      10,
		Accepted:    7,
		Unique:      6,
		Rejected:    map[string]int{"position": 2, "unknown_symbol": 1},
		StartedAt:   100,
		FinishedAt:  105,
	}, []Rejection{
		{Line: 9, Word: "कx", Symbol: "x", Kind: "unknown_symbol", Reason: "not found"},
		{Line: 3, Word: "ाक", Symbol: "ा", Kind: "position", Reason: "can not start with matra"},
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	second, err := l.Record(Build{PhoneSource: "marathi.csv", VocabSource: "mr.vocab", Output: "mr.dict", Order: "locale:mr"}, nil)
	if err != nil {
		t.Fatalf("Record second: %v", err)
	}
	if second <= first {
		t.Errorf("ids not increasing: %d then %d", first, second)
	}

	builds, err := l.ListBuilds()
	if err != nil {
		t.Fatalf("ListBuilds: %v", err)
	}
	if len(builds) != 2 || builds[0].ID != second || builds[1].ID != first {
		t.Fatalf("builds = %+v, want newest first", builds)
	}
	b := builds[1]
	if b.Order != "codepoint" || b.Tokens != 10 || b.Unique != 6 || b.StartedAt != 100 {
		t.Errorf("build = %+v", b)
	}
	if b.TotalRejected() != 3 || b.Rejected["position"] != 2 {
		t.Errorf("rejected = %v", b.Rejected)
	}
	if builds[0].Order != "locale:mr" || builds[0].FinishedAt == 0 {
		t.Errorf("second build = %+v", builds[0])
	}

	rejs, err := l.Rejections(first)
	if err != nil {
		t.Fatalf("Rejections: %v", err)
	}
	if len(rejs) != 2 || rejs[0].Line != 3 || rejs[1].Symbol != "x" {
		t.Errorf("rejections = %+v", rejs)
	}

	none, err := l.Rejections(second)
	if err != nil || len(none) != 0 {
		t.Errorf("second build rejections = %v, %v", none, err)
	}
}

func TestGetBuild(t *testing.T) {
	l := tempLedger(t)
	id, err := l.Record(Build{PhoneSource: "p", VocabSource: "v", Output: "o", Rejected: map[string]int{"excluded_script": 4}}, nil)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	b, err := l.GetBuild(id)
	if err != nil {
		t.Fatalf("GetBuild: %v", err)
	}
	if b.PhoneSource != "p" || b.Rejected["excluded_script"] != 4 {
		t.Errorf("build = %+v", b)
	}

	if _, err := l.GetBuild(id + 100); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("missing build err = %v, want sql.ErrNoRows", err)
	}
}
