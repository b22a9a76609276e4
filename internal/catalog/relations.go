package catalog

import (
	"github.com/koustreak/pgmeta/internal/errs"
)

// IsJoinTable reports whether t only exists to associate other tables: its
// primary key has two or more columns and every one of them is a foreign key.
func IsJoinTable(t *Table) bool {
	pk := 0
	for _, c := range t.Columns {
		if !c.IsPrimaryKey {
			continue
		}
		if !c.IsForeignKey {
			return false
		}
		pk++
	}
	return pk >= 2
}

// InferRelation derives the relation for one column of owner.
//
// ok is false when the column is not a foreign key. A column flagged as a
// foreign key that lacks either target is a data integrity error.
//
// The type is ManyToMany for a key column of a join table, OneToOne when the
// column is unique on its own, and OneToMany otherwise.
func InferRelation(owner *Table, col *Column) (rel Relation, ok bool, err error) {
	if !col.IsForeignKey {
		return Relation{}, false, nil
	}
	if nonEmpty(col.ForeignTableName) == nil || nonEmpty(col.ForeignColumnName) == nil {
		return Relation{}, false, errs.DataIntegrity("column %s.%s: flagged as foreign key without a target",
			owner.Ref(), col.Name)
	}

	target, _ := col.ForeignTable()
	rel = Relation{
		Table:            target,
		Column:           col.Name,
		ReferencedColumn: *col.ForeignColumnName,
		RelationType:     relationType(owner, col),
	}
	return rel, true, nil
}

func relationType(owner *Table, col *Column) RelationType {
	pkWidth := len(owner.PrimaryKey())
	switch {
	case col.IsPrimaryKey && IsJoinTable(owner):
		return ManyToMany
	case col.IsPrimaryKey && pkWidth == 1:
		return OneToOne
	case col.IsUnique && !(col.IsPrimaryKey && pkWidth > 1):
		return OneToOne
	default:
		return OneToMany
	}
}

// InferRelations attaches a relation to every table for each of its foreign
// key columns. For every join table it also links each pair of tables its
// primary key references with a ManyToMany relation through it; those land
// on the referenced tables that are present in tables.
func InferRelations(tables []Table) error {
	index := make(map[TableRef]int, len(tables))
	for i := range tables {
		index[tables[i].Ref()] = i
	}

	for i := range tables {
		owner := &tables[i]
		var keys []*Column
		for j := range owner.Columns {
			rel, ok, err := InferRelation(owner, &owner.Columns[j])
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			owner.Relations = appendRelation(owner.Relations, rel)
			if owner.Columns[j].IsPrimaryKey {
				keys = append(keys, &owner.Columns[j])
			}
		}

		if !IsJoinTable(owner) {
			continue
		}
		through := owner.Ref()
		for _, a := range keys {
			for _, b := range keys {
				if a == b {
					continue
				}
				refA, _ := a.ForeignTable()
				refB, _ := b.ForeignTable()
				k, ok := index[refA]
				if !ok {
					continue
				}
				tables[k].Relations = appendRelation(tables[k].Relations, Relation{
					Table:            refB,
					Column:           *a.ForeignColumnName,
					ReferencedColumn: *b.ForeignColumnName,
					RelationType:     ManyToMany,
					Through:          &through,
				})
			}
		}
	}
	return nil
}

func appendRelation(rels []Relation, rel Relation) []Relation {
	for _, r := range rels {
		if sameRelation(r, rel) {
			return rels
		}
	}
	return append(rels, rel)
}

func sameRelation(a, b Relation) bool {
	if a.Table != b.Table || a.Column != b.Column ||
		a.ReferencedColumn != b.ReferencedColumn || a.RelationType != b.RelationType {
		return false
	}
	if a.Through == nil || b.Through == nil {
		return a.Through == b.Through
	}
	return *a.Through == *b.Through
}
