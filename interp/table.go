package interp

// Intern is the shared string table described in SPEC_FULL §3/§4.2,
// grounded on original_source/Table.c's TableStrRegister family. PicoC
// interns every identifier and string literal so that later comparisons
// are pointer comparisons; Go strings are immutable values compared by
// content, so every lookup here (Table keys, the type registry's
// identifier match in GetMatching) gives the same result whether or not
// its key was interned; Register still hands back one canonical instance
// per spelling.
type Intern struct {
	strs map[string]string
}

func newIntern() *Intern {
	return &Intern{strs: make(map[string]string)}
}

// Register returns the canonical copy of s, registering it on first sight.
func (in *Intern) Register(s string) string {
	if canon, ok := in.strs[s]; ok {
		return canon
	}
	in.strs[s] = s
	return s
}

// declEntry carries the declaration-site metadata Table.c stores alongside
// every symbol (DeclFileName/DeclLine/DeclColumn) so redeclaration errors
// and debugger listings can point back at the first definition.
type declEntry struct {
	val      *Value
	fileName string
	line     int
	col      int
}

// Table is a symbol table: an identifier-to-Value map plus declaration
// metadata. original_source/Table.c backs this with an open-hashed array
// of TableEntry chains; a Go map is the idiomatic restatement of the same
// contract (TableSet/TableGet/TableDelete) since Go's runtime hash table
// already gives amortized O(1) lookup without hand-rolled chaining.
type Table struct {
	entries map[string]*declEntry
}

func newTable() *Table {
	return &Table{entries: make(map[string]*declEntry)}
}

// Set adds key->val if key is not already present, returning false if it
// was (mirrors TableSet's redeclaration-detection return value). Key must
// already be interned.
func (t *Table) Set(key string, val *Value, fileName string, line, col int) bool {
	if _, ok := t.entries[key]; ok {
		return false
	}
	t.entries[key] = &declEntry{val: val, fileName: fileName, line: line, col: col}
	return true
}

// Get looks up key, returning (value, declSite, true) or (nil, _, false).
func (t *Table) Get(key string) (*Value, string, int, int, bool) {
	e, ok := t.entries[key]
	if !ok {
		return nil, "", 0, 0, false
	}
	return e.val, e.fileName, e.line, e.col, true
}

// Delete removes key, returning its value if present (mirrors TableDelete).
func (t *Table) Delete(key string) *Value {
	e, ok := t.entries[key]
	if !ok {
		return nil
	}
	delete(t.entries, key)
	return e.val
}

// Each visits every entry, used to walk a struct/union's member-template
// table when building a zero-initialized instance of it (see zeroValue).
func (t *Table) Each(fn func(key string, val *Value)) {
	for k, e := range t.entries {
		fn(k, e.val)
	}
}
