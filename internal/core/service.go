package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sheetserve/sheetserve/internal/codec"
	"github.com/sheetserve/sheetserve/internal/config"
	"github.com/sheetserve/sheetserve/internal/logging"
	"github.com/sheetserve/sheetserve/internal/table"
)

// Service owns the load-merge-store cycle for every endpoint. It is
// stateless apart from configuration, the audit trail, and the per-path
// locks, and is safe for concurrent use.
type Service struct {
	baseDir string
	audit   *AuditLog

	locks sync.Map // writable path -> *sync.Mutex
}

// NewService creates a Service from configuration.
func NewService(cfg *config.Config) *Service {
	return &Service{
		baseDir: cfg.Workbooks.BaseDir,
		audit:   NewAuditLog(cfg.Audit.Capacity),
	}
}

// Audit exposes the operation trail for the HTTP layer.
func (s *Service) Audit() *AuditLog {
	return s.audit
}

// ReadResult is the outcome of a read operation.
type ReadResult struct {
	Rows      []map[string]any
	TotalRows int
}

// WriteResult is the outcome of any mutating operation. Path is the file
// actually persisted, which differs from the request path when a legacy
// .xls target redirects to its .xlsx sibling.
type WriteResult struct {
	Path          string
	TotalRows     int
	Updated       int
	Appended      int
	NewRowNumbers []int
	OperationID   string
}

// Read loads the selected sheet and returns its rows.
func (s *Service) Read(ctx context.Context, path string, sheet codec.Sheet) (*ReadResult, error) {
	resolved, err := s.resolvePath(path)
	if err != nil {
		return nil, err
	}
	if err := s.statFile(resolved, path); err != nil {
		return nil, err
	}

	t, err := codec.Load(resolved, sheet)
	if err != nil {
		return nil, err
	}
	return &ReadResult{Rows: t.Records(), TotalRows: t.NumRows()}, nil
}

// Create builds a new workbook from records. The column set is the union of
// record keys; parent directories are created as needed. A legacy .xls
// target is written as .xlsx.
func (s *Service) Create(ctx context.Context, path string, records []table.Row) (*WriteResult, error) {
	resolved, err := s.resolvePath(path)
	if err != nil {
		return nil, err
	}

	t, err := table.FromRecords(records)
	if err != nil {
		return nil, err
	}

	unlock := s.lockPath(resolved)
	defer unlock()

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}
	if _, err := codec.Store(resolved, t); err != nil {
		return nil, err
	}

	op := s.audit.Record(Operation{
		Kind:      "create",
		Path:      codec.WritablePath(path),
		Appended:  t.NumRows(),
		TotalRows: t.NumRows(),
		RequestID: logging.RequestID(ctx),
	})
	logging.FromContext(ctx).Info("workbook created",
		"path", op.Path, "rows", t.NumRows(), "operation_id", op.ID)

	return &WriteResult{
		Path:        codec.WritablePath(path),
		TotalRows:   t.NumRows(),
		Appended:    t.NumRows(),
		OperationID: op.ID,
	}, nil
}

// Append adds records after the last row. Record keys must already exist in
// the table's column set.
func (s *Service) Append(ctx context.Context, path string, records []table.Row) (*WriteResult, error) {
	return s.mutate(ctx, "append", path, func(t *table.Table) (*table.MergeResult, error) {
		return table.AppendAll(t, records)
	})
}

// SmartUpdate applies the update-or-append policy keyed on matchColumn.
// An empty matchColumn means every record appends.
func (s *Service) SmartUpdate(ctx context.Context, path string, records []table.Row, matchColumn string) (*WriteResult, error) {
	return s.mutate(ctx, "smart_update", path, func(t *table.Table) (*table.MergeResult, error) {
		return table.SmartMerge(t, records, matchColumn)
	})
}

// Update applies conditional update tuples in order.
func (s *Service) Update(ctx context.Context, path string, specs []table.UpdateSpec) (*WriteResult, error) {
	return s.mutate(ctx, "update", path, func(t *table.Table) (*table.MergeResult, error) {
		return table.ConditionalUpdate(t, specs)
	})
}

// mutate runs one full load-merge-store cycle under the per-path lock.
// Persistence happens only after the whole merge succeeds, so a mid-merge
// failure leaves the on-disk file untouched.
func (s *Service) mutate(ctx context.Context, kind, path string, merge func(*table.Table) (*table.MergeResult, error)) (*WriteResult, error) {
	resolved, err := s.resolvePath(path)
	if err != nil {
		return nil, err
	}

	unlock := s.lockPath(resolved)
	defer unlock()

	if err := s.statFile(resolved, path); err != nil {
		return nil, err
	}

	t, err := codec.Load(resolved, codec.Sheet{})
	if err != nil {
		return nil, err
	}

	rowsBefore := t.NumRows()
	res, err := merge(t)
	if err != nil {
		return nil, err
	}

	if _, err := codec.Store(resolved, res.Table); err != nil {
		return nil, err
	}

	// 1-based positions of appended rows, matching what spreadsheet users
	// see with the header on row 1.
	var newRows []int
	for i := 0; i < res.Appended; i++ {
		newRows = append(newRows, rowsBefore+i+2)
	}

	op := s.audit.Record(Operation{
		Kind:      kind,
		Path:      codec.WritablePath(path),
		Updated:   res.Updated,
		Appended:  res.Appended,
		TotalRows: res.Table.NumRows(),
		RequestID: logging.RequestID(ctx),
	})
	logging.FromContext(ctx).Info("workbook updated",
		"kind", kind,
		"path", op.Path,
		"updated_rows", res.Updated,
		"added_rows", res.Appended,
		"total_rows", res.Table.NumRows(),
		"operation_id", op.ID,
	)

	return &WriteResult{
		Path:          codec.WritablePath(path),
		TotalRows:     res.Table.NumRows(),
		Updated:       res.Updated,
		Appended:      res.Appended,
		NewRowNumbers: newRows,
		OperationID:   op.ID,
	}, nil
}

// resolvePath validates and resolves a request path. With a base directory
// configured, relative paths resolve under it and the result must stay
// inside it; without one, the request path is used as given.
func (s *Service) resolvePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", &ValidationError{Field: "file_path"}
	}
	if s.baseDir == "" {
		return filepath.Clean(p), nil
	}

	resolved := p
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(s.baseDir, resolved)
	}
	resolved = filepath.Clean(resolved)

	base := filepath.Clean(s.baseDir)
	if resolved != base && !strings.HasPrefix(resolved, base+string(filepath.Separator)) {
		return "", &ValidationError{Field: "file_path", Msg: "is outside the allowed directory"}
	}
	return resolved, nil
}

// statFile maps a missing file to NotFoundError carrying the path the
// client sent, not the resolved server path.
func (s *Service) statFile(resolved, requestPath string) error {
	if _, err := os.Stat(resolved); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &NotFoundError{Path: requestPath}
		}
		return err
	}
	return nil
}

// lockPath serializes load-merge-store cycles targeting the same written
// file within this process. A .xls source and its .xlsx sibling share one
// lock since they persist to the same file. Cross-process writers remain
// uncoordinated: last write wins.
func (s *Service) lockPath(resolved string) func() {
	key := codec.WritablePath(resolved)
	v, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
