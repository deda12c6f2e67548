package votelog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"daopilot/internal/types"

	_ "modernc.org/sqlite"
)

// Store 持久化投票历史，只追加、不更新、不删除。
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// Open 初始化 SQLite 存储。
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("vote log path 不能为空")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

func ensureSchema(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS vote_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    trace_id TEXT NOT NULL DEFAULT '',
    ts INTEGER NOT NULL,
    proposal_id INTEGER NOT NULL,
    choice TEXT NOT NULL,
    dry_run INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_vote_history_trace ON vote_history(trace_id);
CREATE INDEX IF NOT EXISTS idx_vote_history_ts ON vote_history(ts);`
	_, err := db.Exec(ddl)
	return err
}

// Append 追加一条投票记录。
func (s *Store) Append(ctx context.Context, rec types.VoteRecord) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("vote log store 未初始化")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO vote_history (trace_id, ts, proposal_id, choice, dry_run) VALUES (?, ?, ?, ?, ?)`,
		rec.TraceID, rec.Timestamp, rec.ProposalID, rec.Choice.String(), boolToInt(rec.DryRun),
	)
	if err != nil {
		return fmt.Errorf("append vote record failed: %w", err)
	}
	return nil
}

// List 按插入顺序返回最近 limit 条记录（limit<=0 表示全部）。
func (s *Store) List(ctx context.Context, limit int) ([]types.VoteRecord, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("vote log store 未初始化")
	}
	query := `SELECT trace_id, ts, proposal_id, choice, dry_run FROM vote_history ORDER BY id ASC`
	var args []any
	if limit > 0 {
		query = `SELECT trace_id, ts, proposal_id, choice, dry_run FROM (
    SELECT id, trace_id, ts, proposal_id, choice, dry_run FROM vote_history ORDER BY id DESC LIMIT ?
) ORDER BY id ASC`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.VoteRecord
	for rows.Next() {
		var rec types.VoteRecord
		var choice string
		var dryRun int
		if err := rows.Scan(&rec.TraceID, &rec.Timestamp, &rec.ProposalID, &choice, &dryRun); err != nil {
			return nil, err
		}
		parsed, err := types.ParseVoteChoice(choice)
		if err != nil {
			return nil, fmt.Errorf("corrupt vote_history row: %w", err)
		}
		rec.Choice = parsed
		rec.DryRun = dryRun != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Tally 统计全部历史里各选项的票数。
func (s *Store) Tally(ctx context.Context) (map[types.VoteChoice]int, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("vote log store 未初始化")
	}
	rows, err := s.db.QueryContext(ctx, `SELECT choice, COUNT(*) FROM vote_history GROUP BY choice`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tally := make(map[types.VoteChoice]int)
	for rows.Next() {
		var choice string
		var count int
		if err := rows.Scan(&choice, &count); err != nil {
			return nil, err
		}
		parsed, err := types.ParseVoteChoice(choice)
		if err != nil {
			continue
		}
		tally[parsed] = count
	}
	return tally, rows.Err()
}

// Close 关闭底层 DB。
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
