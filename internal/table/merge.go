package table

// merge.go is the merge engine: the logic deciding, per incoming record,
// whether it updates existing rows in place or appends a new one, and how
// conflicting matches are reconciled. Every operation is a single-shot
// transformation of (table, input) into (table, counters); there is no
// engine state between calls.

// UpdateSpec is one conditional update tuple: set UpdateColumn to NewValue
// in every row where ConditionColumn equals ConditionValue. Tuples are
// applied in order against the current table state, so later tuples see the
// effects of earlier ones.
type UpdateSpec struct {
	ConditionColumn string `json:"condition_column"`
	ConditionValue  any    `json:"condition_value"`
	UpdateColumn    string `json:"update_column"`
	NewValue        any    `json:"new_value"`
}

// MergeResult reports the outcome of a merge operation. It is constructed
// fresh per call and never persisted; only the table itself is stored.
type MergeResult struct {
	Updated  int
	Appended int
	Table    *Table
}

// AppendAll appends records to the table in input order. Existing rows are
// never reordered or mutated. Unlike SmartMerge's append path, records may
// not introduce keys outside the table's column set: the schema is fixed by
// the existing table and is never silently widened.
func AppendAll(t *Table, records []Row) (*MergeResult, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	for i, rec := range records {
		for _, k := range keysInOrder(rec) {
			if !t.HasColumn(k) {
				return nil, &SchemaMismatchError{Column: k, Record: i}
			}
		}
	}

	for _, rec := range records {
		t.Rows = append(t.Rows, projectRow(rec, t.Columns))
	}
	return &MergeResult{Appended: len(records), Table: t}, nil
}

// SmartMerge applies the update-or-append policy to each record in input
// order. A record updates when matchColumn is set, exists in both the
// record and the table, and at least one row's value in that column equals
// the record's (strict equality on normalized values); otherwise it
// appends. All matching rows are overwritten and each counts once toward
// the updated counter, so a single record matching three rows reports three
// updates. A null match value matches nothing: it never pairs with blank
// cells, so such records always append. Matching runs against the evolving
// table state: later records in a batch observe rows appended or updated by
// earlier ones.
func SmartMerge(t *Table, records []Row, matchColumn string) (*MergeResult, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	res := &MergeResult{Table: t}
	for _, rec := range records {
		matchValue, inRecord := rec[matchColumn]
		if matchColumn == "" || !inRecord || !t.HasColumn(matchColumn) {
			t.Rows = append(t.Rows, projectRow(rec, t.Columns))
			res.Appended++
			continue
		}

		matchValue = Normalize(matchValue)
		matched := 0
		if matchValue != nil {
			for _, row := range t.Rows {
				if !Equal(row[matchColumn], matchValue) {
					continue
				}
				for k, v := range rec {
					if t.HasColumn(k) {
						row[k] = Normalize(v)
					}
				}
				matched++
			}
		}

		if matched > 0 {
			res.Updated += matched
		} else {
			t.Rows = append(t.Rows, projectRow(rec, t.Columns))
			res.Appended++
		}
	}
	return res, nil
}

// ConditionalUpdate applies each tuple in order: every row whose condition
// column equals the condition value gets the update column set to the new
// value. Counts are cumulative across tuples; a row touched by two tuples
// counts twice. A tuple whose update column is not in the table is a no-op,
// and so is a null condition value: it never pairs with blank cells.
// Condition columns are validated up front so a failing batch leaves the
// table untouched.
func ConditionalUpdate(t *Table, specs []UpdateSpec) (*MergeResult, error) {
	if len(specs) == 0 {
		return nil, ErrEmptyInput
	}

	for _, spec := range specs {
		if !t.HasColumn(spec.ConditionColumn) {
			return nil, &UnknownColumnError{Column: spec.ConditionColumn}
		}
	}

	res := &MergeResult{Table: t}
	for _, spec := range specs {
		if !t.HasColumn(spec.UpdateColumn) {
			continue
		}
		want := Normalize(spec.ConditionValue)
		if want == nil {
			continue
		}
		newValue := Normalize(spec.NewValue)
		for _, row := range t.Rows {
			if Equal(row[spec.ConditionColumn], want) {
				row[spec.UpdateColumn] = newValue
				res.Updated++
			}
		}
	}
	return res, nil
}

// projectRow copies rec keeping only the table's columns, normalizing
// values. Keys outside the column set are dropped, matching the behavior of
// building a fixed-column row from a loose record.
func projectRow(rec Row, columns []string) Row {
	row := make(Row, len(columns))
	for _, c := range columns {
		if v, ok := rec[c]; ok {
			row[c] = Normalize(v)
		}
	}
	return row
}
