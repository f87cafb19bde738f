package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/andreyvit/keycoder"
)

type DumpFlags uint64

const (
	DumpCollectionHeaders = DumpFlags(1 << iota)
	DumpRows
	DumpStats
	DumpIndexes
	DumpIndexRows

	DumpAll = DumpFlags(0xFFFFFFFFFFFFFFFF)
)

var (
	dumpSep1 = strings.Repeat("=", 80)
	dumpSep2 = strings.Repeat("-", 60)
)

func (f DumpFlags) Contains(v DumpFlags) bool {
	return (f & v) == v
}

// Dump renders the contents of the given collections for debugging.
func (tx *Tx) Dump(f DumpFlags, colls ...*Collection) string {
	var buf strings.Builder
	for _, c := range colls {
		tx.dumpCollection(&buf, f, c)
	}
	return buf.String()
}

func (tx *Tx) dumpCollection(w *strings.Builder, f DumpFlags, c *Collection) {
	prefix := c.Name()
	s, err := tx.CollectionStats(c)
	if err != nil {
		fmt.Fprintf(w, "%s ** ERROR: %v\n", prefix, err)
		return
	}

	if f.Contains(DumpCollectionHeaders) {
		fmt.Fprintln(w, dumpSep1)
		fmt.Fprintf(w, "%s (%d rows)\n", prefix, s.Rows)
	}
	if f.Contains(DumpStats) {
		fmt.Fprintf(w, "%s.stats: index_rows = %d, data_size = %d, index_size = %d, total_size = %d\n", prefix, s.IndexRows, s.DataSize, s.IndexSize, s.TotalSize())
	}

	if f.Contains(DumpRows) {
		if f.Contains(DumpStats) {
			fmt.Fprintln(w, dumpSep2)
		}
		cur := tx.Scan(c, OO())
		var rowPos int
		for cur.Next() {
			rowPos++
			fmt.Fprintf(w, "%s.%d %v = %s\n", prefix, rowPos, cur.Key(), loggableRow(c, cur))
		}
		cur.Close()
		if err := cur.Err(); err != nil {
			fmt.Fprintf(w, "%s ** ERROR: %v\n", prefix, err)
		}
	}

	if f.Contains(DumpIndexes) {
		for _, idx := range c.indexes {
			tx.dumpIndex(w, f, idx)
		}
	}
}

func (tx *Tx) dumpIndex(w *strings.Builder, f DumpFlags, idx *Index) {
	fmt.Fprintln(w, dumpSep2)
	prefix := idx.FullName()
	n, _ := tx.CountIndex(idx, OO())
	fmt.Fprintf(w, "%s (%d entries)\n", prefix, n)

	if f.Contains(DumpIndexRows) {
		cur := tx.Lookup(idx, OO())
		var rowPos int
		for cur.Next() {
			rowPos++
			fmt.Fprintf(w, "%s.%d: %v => %v\n", prefix, rowPos, cur.IndexKey(), cur.Key())
		}
		cur.Close()
		if err := cur.Err(); err != nil {
			fmt.Fprintf(w, "%s ** ERROR: %v\n", prefix, err)
		}
	}
}

func loggableRow(c *Collection, cur *Cursor) string {
	if c.enc == KeyCoder {
		var v keycoder.Value
		if err := cur.Decode(&v); err != nil {
			return "** ERROR: " + err.Error()
		}
		return v.String()
	}
	var v any
	if err := cur.Decode(&v); err != nil {
		return "** ERROR: " + err.Error()
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}
