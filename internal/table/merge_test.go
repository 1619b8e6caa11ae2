package table

import (
	"errors"
	"testing"
)

func sampleTable() *Table {
	t := New([]string{"id", "name", "status"})
	t.Rows = []Row{
		{"id": int64(1), "name": "alpha", "status": "open"},
		{"id": int64(2), "name": "beta", "status": "open"},
		{"id": int64(3), "name": "gamma", "status": "open"},
	}
	return t
}

func TestAppendAll_EmptyInput(t *testing.T) {
	tbl := sampleTable()
	_, err := AppendAll(tbl, nil)
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("AppendAll(nil) error = %v, want ErrEmptyInput", err)
	}
}

func TestAppendAll_PreservesPrefix(t *testing.T) {
	tbl := sampleTable()
	before := tbl.Clone()

	res, err := AppendAll(tbl, []Row{
		{"id": 4, "name": "delta"},
		{"id": 5},
	})
	if err != nil {
		t.Fatalf("AppendAll() error = %v", err)
	}

	if res.Appended != 2 {
		t.Errorf("Appended = %d, want 2", res.Appended)
	}
	if got := tbl.NumRows(); got != 5 {
		t.Fatalf("NumRows() = %d, want 5", got)
	}

	// Existing rows must be untouched, in order.
	for i, want := range before.Rows {
		for _, c := range tbl.Columns {
			if !Equal(tbl.Rows[i][c], want[c]) {
				t.Errorf("row %d column %q = %v, want %v", i, c, tbl.Rows[i][c], want[c])
			}
		}
	}

	// Unspecified columns render as nil.
	if v := tbl.Records()[4]["name"]; v != nil {
		t.Errorf("appended row name = %v, want nil", v)
	}
}

func TestAppendAll_SchemaMismatch(t *testing.T) {
	tbl := sampleTable()
	_, err := AppendAll(tbl, []Row{{"id": 4, "priority": "high"}})

	var mismatch *SchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("AppendAll() error = %v, want SchemaMismatchError", err)
	}
	if mismatch.Column != "priority" {
		t.Errorf("Column = %q, want %q", mismatch.Column, "priority")
	}
	if tbl.NumRows() != 3 {
		t.Errorf("NumRows() = %d, table must be untouched on failure", tbl.NumRows())
	}
}

func TestSmartMerge_UpdateExisting(t *testing.T) {
	tbl := sampleTable()

	res, err := SmartMerge(tbl, []Row{{"id": 2, "status": "done"}}, "id")
	if err != nil {
		t.Fatalf("SmartMerge() error = %v", err)
	}

	if res.Updated != 1 || res.Appended != 0 {
		t.Errorf("counts = (%d updated, %d appended), want (1, 0)", res.Updated, res.Appended)
	}
	if got := tbl.Rows[1]["status"]; got != "done" {
		t.Errorf("row 1 status = %v, want %q", got, "done")
	}
	if got := tbl.Rows[1]["name"]; got != "beta" {
		t.Errorf("row 1 name = %v, columns absent from the record must keep their value", got)
	}
}

func TestSmartMerge_AppendWhenNoMatch(t *testing.T) {
	tbl := sampleTable()

	res, err := SmartMerge(tbl, []Row{{"id": 9, "name": "iota"}}, "id")
	if err != nil {
		t.Fatalf("SmartMerge() error = %v", err)
	}

	if res.Updated != 0 || res.Appended != 1 {
		t.Errorf("counts = (%d updated, %d appended), want (0, 1)", res.Updated, res.Appended)
	}
	if tbl.NumRows() != 4 {
		t.Fatalf("NumRows() = %d, want 4", tbl.NumRows())
	}
	if got := tbl.Records()[3]["status"]; got != nil {
		t.Errorf("appended row status = %v, want nil", got)
	}
}

func TestSmartMerge_NoMatchColumn_AlwaysAppends(t *testing.T) {
	tbl := sampleTable()

	res, err := SmartMerge(tbl, []Row{{"id": 1, "status": "done"}}, "")
	if err != nil {
		t.Fatalf("SmartMerge() error = %v", err)
	}
	if res.Appended != 1 || res.Updated != 0 {
		t.Errorf("counts = (%d updated, %d appended), want (0, 1)", res.Updated, res.Appended)
	}
	// The existing id=1 row must not have been touched.
	if got := tbl.Rows[0]["status"]; got != "open" {
		t.Errorf("row 0 status = %v, want %q", got, "open")
	}
}

func TestSmartMerge_MatchColumnAbsentFromTable(t *testing.T) {
	tbl := sampleTable()

	res, err := SmartMerge(tbl, []Row{{"id": 1, "status": "done"}}, "sku")
	if err != nil {
		t.Fatalf("SmartMerge() error = %v", err)
	}
	if res.Appended != 1 {
		t.Errorf("Appended = %d, want 1 (unknown match column degrades to append)", res.Appended)
	}
}

func TestSmartMerge_MultiMatchFanOut(t *testing.T) {
	tbl := New([]string{"id", "status"})
	tbl.Rows = []Row{
		{"id": int64(3), "status": "open"},
		{"id": int64(3), "status": "open"},
		{"id": int64(4), "status": "open"},
	}

	res, err := SmartMerge(tbl, []Row{{"id": 3, "status": "done"}}, "id")
	if err != nil {
		t.Fatalf("SmartMerge() error = %v", err)
	}

	if res.Updated != 2 {
		t.Errorf("Updated = %d, want 2 (one record matching two rows counts twice)", res.Updated)
	}
	if tbl.Rows[0]["status"] != "done" || tbl.Rows[1]["status"] != "done" {
		t.Error("both matching rows must be overwritten")
	}
	if tbl.Rows[2]["status"] != "open" {
		t.Error("non-matching row must be untouched")
	}
}

func TestSmartMerge_TypeSensitiveMatching(t *testing.T) {
	tbl := New([]string{"id", "name"})
	tbl.Rows = []Row{{"id": int64(7), "name": "old"}}

	// String "7" must not match the integer 7: equality is strict on the
	// normalized type, never coerced across types.
	res, err := SmartMerge(tbl, []Row{{"id": "7", "name": "new"}}, "id")
	if err != nil {
		t.Fatalf("SmartMerge() error = %v", err)
	}
	if res.Updated != 0 || res.Appended != 1 {
		t.Errorf("counts = (%d updated, %d appended), want (0, 1)", res.Updated, res.Appended)
	}
	if tbl.Rows[0]["name"] != "old" {
		t.Error("integer-keyed row must not be touched by a string match value")
	}

	// A JSON number (float64 on the wire) must match an integer cell.
	res, err = SmartMerge(tbl, []Row{{"id": float64(7), "name": "newer"}}, "id")
	if err != nil {
		t.Fatalf("SmartMerge() error = %v", err)
	}
	if res.Updated != 1 {
		t.Errorf("Updated = %d, want 1 (integral float matches stored int)", res.Updated)
	}
}

func TestSmartMerge_NullMatchValueNeverMatches(t *testing.T) {
	tbl := New([]string{"id", "name"})
	tbl.Rows = []Row{
		{"id": nil, "name": "blank"},
		{"id": int64(1), "name": "alpha"},
	}

	// A record carrying a null match value must not pair with blank cells;
	// it appends instead.
	res, err := SmartMerge(tbl, []Row{{"id": nil, "name": "ghost"}}, "id")
	if err != nil {
		t.Fatalf("SmartMerge() error = %v", err)
	}

	if res.Updated != 0 || res.Appended != 1 {
		t.Errorf("counts = (%d updated, %d appended), want (0, 1)", res.Updated, res.Appended)
	}
	if got := tbl.Rows[0]["name"]; got != "blank" {
		t.Errorf("blank-id row name = %v, want %q (must not be overwritten)", got, "blank")
	}
	if tbl.NumRows() != 3 {
		t.Fatalf("NumRows() = %d, want 3", tbl.NumRows())
	}
}

func TestSmartMerge_InBatchVisibility(t *testing.T) {
	tbl := New([]string{"id", "status"})
	tbl.Rows = []Row{{"id": int64(1), "status": "open"}}

	// The first record appends a new row; the second matches the row the
	// first just appended. Matching runs against the evolving table, not a
	// snapshot taken at the start of the batch.
	res, err := SmartMerge(tbl, []Row{
		{"id": 5, "status": "new"},
		{"id": 5, "status": "done"},
	}, "id")
	if err != nil {
		t.Fatalf("SmartMerge() error = %v", err)
	}

	if res.Appended != 1 {
		t.Errorf("Appended = %d, want 1 (only the first record appends)", res.Appended)
	}
	if res.Updated != 1 {
		t.Errorf("Updated = %d, want 1 (second record updates the fresh row)", res.Updated)
	}
	if got := tbl.Rows[1]["status"]; got != "done" {
		t.Errorf("status = %v, want %q: second record must observe the first record's append", got, "done")
	}
}

func TestSmartMerge_SecondPassIsAllUpdates(t *testing.T) {
	tbl := sampleTable()
	batch := []Row{
		{"id": 2, "status": "done"},
		{"id": 9, "name": "iota", "status": "new"},
	}

	first, err := SmartMerge(tbl, batch, "id")
	if err != nil {
		t.Fatalf("first SmartMerge() error = %v", err)
	}
	if first.Updated != 1 || first.Appended != 1 {
		t.Fatalf("first pass = (%d updated, %d appended), want (1, 1)", first.Updated, first.Appended)
	}

	// Re-applying the same batch appends nothing: every record now matches.
	second, err := SmartMerge(tbl, batch, "id")
	if err != nil {
		t.Fatalf("second SmartMerge() error = %v", err)
	}
	if second.Appended != 0 {
		t.Errorf("second pass Appended = %d, want 0", second.Appended)
	}
	if second.Updated != 2 {
		t.Errorf("second pass Updated = %d, want 2", second.Updated)
	}
}

func TestSmartMerge_RecordWithNoColumnOverlap(t *testing.T) {
	tbl := sampleTable()

	res, err := SmartMerge(tbl, []Row{{"sku": "X-1", "qty": 5}}, "id")
	if err != nil {
		t.Fatalf("SmartMerge() error = %v", err)
	}
	if res.Appended != 1 {
		t.Errorf("Appended = %d, want 1", res.Appended)
	}
	rec := tbl.Records()[3]
	for _, c := range tbl.Columns {
		if rec[c] != nil {
			t.Errorf("column %q = %v, want nil in an all-null appended row", c, rec[c])
		}
	}
}

func TestConditionalUpdate_Cumulative(t *testing.T) {
	tbl := sampleTable()

	res, err := ConditionalUpdate(tbl, []UpdateSpec{
		{ConditionColumn: "status", ConditionValue: "open", UpdateColumn: "status", NewValue: "closed"},
		{ConditionColumn: "id", ConditionValue: 1, UpdateColumn: "name", NewValue: "renamed"},
	})
	if err != nil {
		t.Fatalf("ConditionalUpdate() error = %v", err)
	}

	// Three rows from the first tuple plus one from the second; rows touched
	// by multiple tuples count multiple times.
	if res.Updated != 4 {
		t.Errorf("Updated = %d, want 4", res.Updated)
	}
	if tbl.Rows[0]["name"] != "renamed" {
		t.Errorf("row 0 name = %v, want %q", tbl.Rows[0]["name"], "renamed")
	}
}

func TestConditionalUpdate_LaterTuplesSeeEarlierEffects(t *testing.T) {
	tbl := sampleTable()

	res, err := ConditionalUpdate(tbl, []UpdateSpec{
		{ConditionColumn: "id", ConditionValue: 1, UpdateColumn: "status", NewValue: "staged"},
		{ConditionColumn: "status", ConditionValue: "staged", UpdateColumn: "name", NewValue: "promoted"},
	})
	if err != nil {
		t.Fatalf("ConditionalUpdate() error = %v", err)
	}
	if res.Updated != 2 {
		t.Errorf("Updated = %d, want 2", res.Updated)
	}
	if tbl.Rows[0]["name"] != "promoted" {
		t.Error("second tuple must see the status written by the first")
	}
}

func TestConditionalUpdate_UnknownConditionColumn(t *testing.T) {
	tbl := sampleTable()
	before := tbl.Clone()

	_, err := ConditionalUpdate(tbl, []UpdateSpec{
		{ConditionColumn: "status", ConditionValue: "open", UpdateColumn: "status", NewValue: "closed"},
		{ConditionColumn: "missing", ConditionValue: 1, UpdateColumn: "name", NewValue: "x"},
	})

	var unknown *UnknownColumnError
	if !errors.As(err, &unknown) {
		t.Fatalf("ConditionalUpdate() error = %v, want UnknownColumnError", err)
	}
	if unknown.Column != "missing" {
		t.Errorf("Column = %q, want %q", unknown.Column, "missing")
	}

	// Validation happens before any mutation: the table is unmodified even
	// though the first tuple's condition column was valid.
	for i, want := range before.Rows {
		for _, c := range tbl.Columns {
			if !Equal(tbl.Rows[i][c], want[c]) {
				t.Errorf("row %d column %q = %v, want %v (table must be untouched)", i, c, tbl.Rows[i][c], want[c])
			}
		}
	}
}

func TestConditionalUpdate_UnknownUpdateColumnIsNoOp(t *testing.T) {
	tbl := sampleTable()

	res, err := ConditionalUpdate(tbl, []UpdateSpec{
		{ConditionColumn: "status", ConditionValue: "open", UpdateColumn: "missing", NewValue: "x"},
	})
	if err != nil {
		t.Fatalf("ConditionalUpdate() error = %v", err)
	}
	if res.Updated != 0 {
		t.Errorf("Updated = %d, want 0 for a tuple with an unknown update column", res.Updated)
	}
}

func TestConditionalUpdate_NullConditionValueTouchesNothing(t *testing.T) {
	tbl := New([]string{"id", "status"})
	tbl.Rows = []Row{
		{"id": nil, "status": "open"},
		{"id": int64(1), "status": "open"},
	}

	res, err := ConditionalUpdate(tbl, []UpdateSpec{
		{ConditionColumn: "id", ConditionValue: nil, UpdateColumn: "status", NewValue: "closed"},
	})
	if err != nil {
		t.Fatalf("ConditionalUpdate() error = %v", err)
	}

	if res.Updated != 0 {
		t.Errorf("Updated = %d, want 0 (null condition value matches no rows)", res.Updated)
	}
	if tbl.Rows[0]["status"] != "open" {
		t.Error("blank-id row must not be touched by a null condition value")
	}
}

func TestConditionalUpdate_EmptyInput(t *testing.T) {
	tbl := sampleTable()
	if _, err := ConditionalUpdate(tbl, nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("ConditionalUpdate(nil) error = %v, want ErrEmptyInput", err)
	}
}

func TestFromRecords_UnionColumns(t *testing.T) {
	tbl, err := FromRecords([]Row{{"a": 1}, {"b": 2}})
	if err != nil {
		t.Fatalf("FromRecords() error = %v", err)
	}

	if len(tbl.Columns) != 2 || tbl.Columns[0] != "a" || tbl.Columns[1] != "b" {
		t.Fatalf("Columns = %v, want [a b] (first-seen order)", tbl.Columns)
	}

	recs := tbl.Records()
	if !Equal(recs[0]["a"], int64(1)) || recs[0]["b"] != nil {
		t.Errorf("row 0 = %v, want {a:1 b:nil}", recs[0])
	}
	if recs[1]["a"] != nil || !Equal(recs[1]["b"], int64(2)) {
		t.Errorf("row 1 = %v, want {a:nil b:2}", recs[1])
	}
}

func TestFromRecords_Empty(t *testing.T) {
	if _, err := FromRecords(nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("FromRecords(nil) error = %v, want ErrEmptyInput", err)
	}
}
