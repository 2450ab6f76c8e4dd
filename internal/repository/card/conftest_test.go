package card

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/yz-create/magicsearch/internal/db"
)

// fakeStore is an in-memory stand-in for the Postgres store. It dispatches
// on the repository's SQL and mirrors the schema's cascade rules, so the
// aggregate round trip runs against the real query/write code paths.
type fakeStore struct {
	nextCardID int64
	cards      map[int64][]any

	nextLookupID int64
	lookupIDs    map[string]map[string]int64
	lookupNames  map[string]map[int64]string

	joins      map[string]map[int64][]int64
	legalities map[int64]map[string]int64
	purchases  map[int64][][2]string
	foreign    map[int64][][5]string
	rulings    map[int64][][2]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cards:       map[int64][]any{},
		lookupIDs:   map[string]map[string]int64{},
		lookupNames: map[string]map[int64]string{},
		joins:       map[string]map[int64][]int64{},
		legalities:  map[int64]map[string]int64{},
		purchases:   map[int64][][2]string{},
		foreign:     map[int64][][5]string{},
		rulings:     map[int64][][2]string{},
	}
}

func (f *fakeStore) InTx(_ context.Context, fn func(q db.Querier) error) error {
	return fn(f)
}

func (f *fakeStore) QueryRow(_ context.Context, sqlText string, args ...any) db.Row {
	switch {
	case strings.HasPrefix(sqlText, "INSERT INTO cards"):
		f.nextCardID++
		f.cards[f.nextCardID] = append([]any(nil), args...)
		return fakeRow{vals: []any{f.nextCardID}}

	case strings.Contains(sqlText, "FROM cards WHERE id"):
		id := args[0].(int64)
		stored, ok := f.cards[id]
		if !ok {
			return fakeRow{err: db.ErrNoRows}
		}
		return fakeRow{vals: cardVals(id, stored)}

	case strings.HasPrefix(sqlText, "INSERT INTO ") && strings.Contains(sqlText, "(name)"):
		table := strings.Fields(sqlText)[2]
		return fakeRow{vals: []any{f.lookupID(table, args[0].(string))}}
	}
	return fakeRow{err: fmt.Errorf("unhandled query row: %s", sqlText)}
}

func (f *fakeStore) Query(_ context.Context, sqlText string, args ...any) (db.Rows, error) {
	switch {
	case strings.Contains(sqlText, "FROM cards WHERE name"):
		name := args[0].(string)
		ids := make([]int64, 0, len(f.cards))
		for id := range f.cards {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		rows := [][]any{}
		for _, id := range ids {
			if f.cards[id][0].(string) == name {
				rows = append(rows, cardVals(id, f.cards[id]))
			}
		}
		return &fakeRows{rows: rows}, nil

	case strings.HasPrefix(sqlText, "SELECT l.name FROM"):
		fields := strings.Fields(sqlText)
		joinTable, lookupTable := fields[3], fields[6]
		id := args[0].(int64)
		names := []string{}
		for _, lookupID := range f.joins[joinTable][id] {
			names = append(names, f.lookupNames[lookupTable][lookupID])
		}
		sort.Strings(names)
		rows := [][]any{}
		for _, name := range names {
			rows = append(rows, []any{name})
		}
		return &fakeRows{rows: rows}, nil

	case strings.Contains(sqlText, "FROM card_legalities"):
		id := args[0].(int64)
		rows := [][]any{}
		for format, typeID := range f.legalities[id] {
			rows = append(rows, []any{format, f.lookupNames["legality_types"][typeID]})
		}
		return &fakeRows{rows: rows}, nil

	case strings.Contains(sqlText, "FROM card_purchase_urls"):
		id := args[0].(int64)
		rows := [][]any{}
		for _, p := range f.purchases[id] {
			rows = append(rows, []any{p[0], p[1]})
		}
		return &fakeRows{rows: rows}, nil

	case strings.Contains(sqlText, "FROM card_foreign_data"):
		id := args[0].(int64)
		entries := append([][5]string(nil), f.foreign[id]...)
		sort.Slice(entries, func(i, j int) bool { return entries[i][0] < entries[j][0] })
		rows := [][]any{}
		for _, e := range entries {
			rows = append(rows, []any{e[0], e[1], e[2], e[3], e[4]})
		}
		return &fakeRows{rows: rows}, nil

	case strings.Contains(sqlText, "FROM card_rulings"):
		id := args[0].(int64)
		rows := [][]any{}
		for _, rl := range f.rulings[id] {
			rows = append(rows, []any{rl[0], rl[1]})
		}
		return &fakeRows{rows: rows}, nil
	}
	return nil, fmt.Errorf("unhandled query: %s", sqlText)
}

func (f *fakeStore) Exec(_ context.Context, sqlText string, args ...any) (int64, error) {
	switch {
	case strings.HasPrefix(sqlText, "UPDATE cards SET"):
		id := args[len(args)-1].(int64)
		if _, ok := f.cards[id]; !ok {
			return 0, nil
		}
		f.cards[id] = append([]any(nil), args[:len(args)-1]...)
		return 1, nil

	case strings.HasPrefix(sqlText, "DELETE FROM cards "):
		id := args[0].(int64)
		if _, ok := f.cards[id]; !ok {
			return 0, nil
		}
		delete(f.cards, id)
		f.cascadeDelete(id)
		return 1, nil

	case strings.HasPrefix(sqlText, "DELETE FROM "):
		f.clearTable(strings.Fields(sqlText)[2], args[0].(int64))
		return 0, nil

	case strings.Contains(sqlText, "INSERT INTO card_legalities"):
		id := args[0].(int64)
		if f.legalities[id] == nil {
			f.legalities[id] = map[string]int64{}
		}
		f.legalities[id][args[1].(string)] = args[2].(int64)
		return 1, nil

	case strings.Contains(sqlText, "INSERT INTO card_purchase_urls"):
		id := args[0].(int64)
		f.purchases[id] = append(f.purchases[id], [2]string{args[1].(string), args[2].(string)})
		return 1, nil

	case strings.Contains(sqlText, "INSERT INTO card_foreign_data"):
		id := args[0].(int64)
		f.foreign[id] = append(f.foreign[id], [5]string{
			args[1].(string), args[2].(string), args[3].(string),
			args[4].(string), args[5].(string),
		})
		return 1, nil

	case strings.Contains(sqlText, "INSERT INTO card_rulings"):
		id := args[0].(int64)
		f.rulings[id] = append(f.rulings[id], [2]string{args[1].(string), args[2].(string)})
		return 1, nil

	case strings.HasPrefix(sqlText, "INSERT INTO card_"):
		table := strings.Fields(sqlText)[2]
		f.addJoin(table, args[0].(int64), args[1].(int64))
		return 1, nil
	}
	return 0, fmt.Errorf("unhandled exec: %s", sqlText)
}

func (f *fakeStore) lookupID(table, name string) int64 {
	if f.lookupIDs[table] == nil {
		f.lookupIDs[table] = map[string]int64{}
		f.lookupNames[table] = map[int64]string{}
	}
	if id, ok := f.lookupIDs[table][name]; ok {
		return id
	}
	f.nextLookupID++
	f.lookupIDs[table][name] = f.nextLookupID
	f.lookupNames[table][f.nextLookupID] = name
	return f.nextLookupID
}

// addJoin skips duplicates, matching ON CONFLICT DO NOTHING.
func (f *fakeStore) addJoin(table string, cardID, lookupID int64) {
	if f.joins[table] == nil {
		f.joins[table] = map[int64][]int64{}
	}
	for _, existing := range f.joins[table][cardID] {
		if existing == lookupID {
			return
		}
	}
	f.joins[table][cardID] = append(f.joins[table][cardID], lookupID)
}

func (f *fakeStore) clearTable(table string, cardID int64) {
	switch table {
	case "card_legalities":
		delete(f.legalities, cardID)
	case "card_purchase_urls":
		delete(f.purchases, cardID)
	case "card_foreign_data":
		delete(f.foreign, cardID)
	case "card_rulings":
		delete(f.rulings, cardID)
	default:
		delete(f.joins[table], cardID)
	}
}

// cascadeDelete mirrors the schema's ON DELETE CASCADE.
func (f *fakeStore) cascadeDelete(cardID int64) {
	for table := range f.joins {
		delete(f.joins[table], cardID)
	}
	delete(f.legalities, cardID)
	delete(f.purchases, cardID)
	delete(f.foreign, cardID)
	delete(f.rulings, cardID)
}

// cardVals rebuilds the scalar select row: the id followed by the stored
// insert args minus the trailing embedding.
func cardVals(id int64, stored []any) []any {
	return append([]any{id}, stored[:len(stored)-1]...)
}

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		if err := scanVal(d, r.vals[i]); err != nil {
			return err
		}
	}
	return nil
}

type fakeRows struct {
	rows [][]any
	i    int
}

func (r *fakeRows) Next() bool {
	r.i++
	return r.i <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	return fakeRow{vals: r.rows[r.i-1]}.Scan(dest...)
}

func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Close()     {}

func scanVal(dest, val any) error {
	switch d := dest.(type) {
	case *int64:
		*d = val.(int64)
	case *string:
		*d = val.(string)
	case *float64:
		*d = val.(float64)
	case *bool:
		*d = val.(bool)
	case *sql.NullInt32:
		if val == nil {
			*d = sql.NullInt32{}
		} else {
			*d = sql.NullInt32{Int32: int32(val.(int)), Valid: true}
		}
	case *sql.NullFloat64:
		if val == nil {
			*d = sql.NullFloat64{}
		} else {
			*d = sql.NullFloat64{Float64: val.(float64), Valid: true}
		}
	default:
		return fmt.Errorf("unsupported scan dest %T", dest)
	}
	return nil
}
