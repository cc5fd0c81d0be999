package locations

import (
	"sort"
	"strconv"
	"unicode"
)

type WarehouseNode struct {
	Name    string       `json:"name"`
	Sectors []SectorNode `json:"sectors"`
}

type SectorNode struct {
	Name string    `json:"name"`
	Rows []RowNode `json:"rows"`
}

type RowNode struct {
	Name    string       `json:"name"`
	Columns []ColumnNode `json:"columns"`
}

type ColumnNode struct {
	Name  string         `json:"name"`
	Slots []LocationView `json:"slots"`
}

// BuildWarehouseMap groups locations warehouse → sector → row → column.
// Every level is ordered naturally, so "2" sorts before "10" and "A2"
// before "A10"; slots inside a column are ordered by shelf then position.
func BuildWarehouseMap(locations []LocationView) []WarehouseNode {
	type rowKey struct{ warehouse, sector, row string }

	columns := map[rowKey]map[string][]LocationView{}
	sectors := map[string]map[string]map[string]struct{}{}

	for _, l := range locations {
		key := rowKey{l.Warehouse, l.Sector, l.Row}
		if columns[key] == nil {
			columns[key] = map[string][]LocationView{}
		}
		columns[key][l.Column] = append(columns[key][l.Column], l)

		if sectors[l.Warehouse] == nil {
			sectors[l.Warehouse] = map[string]map[string]struct{}{}
		}
		if sectors[l.Warehouse][l.Sector] == nil {
			sectors[l.Warehouse][l.Sector] = map[string]struct{}{}
		}
		sectors[l.Warehouse][l.Sector][l.Row] = struct{}{}
	}

	warehouses := make([]WarehouseNode, 0, len(sectors))
	for _, warehouse := range sortedKeys(sectors) {
		node := WarehouseNode{Name: warehouse}
		for _, sector := range sortedKeys(sectors[warehouse]) {
			sectorNode := SectorNode{Name: sector}
			for _, row := range sortedKeys(sectors[warehouse][sector]) {
				rowNode := RowNode{Name: row}
				byColumn := columns[rowKey{warehouse, sector, row}]
				for _, column := range sortedKeys(byColumn) {
					slots := byColumn[column]
					sort.SliceStable(slots, func(i, j int) bool {
						if slots[i].Shelf != slots[j].Shelf {
							return naturalLess(slots[i].Shelf, slots[j].Shelf)
						}
						return naturalLess(slots[i].Position, slots[j].Position)
					})
					rowNode.Columns = append(rowNode.Columns, ColumnNode{Name: column, Slots: slots})
				}
				sectorNode.Rows = append(sectorNode.Rows, rowNode)
			}
			node.Sectors = append(node.Sectors, sectorNode)
		}
		warehouses = append(warehouses, node)
	}

	return warehouses
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return naturalLess(keys[i], keys[j]) })
	return keys
}

// naturalLess compares digit runs by numeric value and everything else
// byte by byte.
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		ca, cb := rune(a[0]), rune(b[0])
		if unicode.IsDigit(ca) && unicode.IsDigit(cb) {
			na, restA := leadingNumber(a)
			nb, restB := leadingNumber(b)
			if na != nb {
				return na < nb
			}
			a, b = restA, restB
			continue
		}
		if ca != cb {
			return ca < cb
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func leadingNumber(s string) (int, string) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		n = int(^uint(0) >> 1)
	}
	return n, s[end:]
}
