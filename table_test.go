package stash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/stash"
)

func catsStore(t *testing.T) (*stash.Store, *stash.Table) {
	t.Helper()
	s := stash.New()
	cats, err := s.NewTableFrom("cats", map[stash.ColumnName][]stash.Value{
		"name": {stash.String("Cleo"), stash.String("PJ")},
		"age":  {stash.Int(3), stash.Int(5)},
	})
	assert.New(t).Nil(err)
	return s, cats
}

func TestTableConstruction(t *testing.T) {
	as := assert.New(t)
	s := stash.New()

	tbl, err := s.NewTable("empty")
	as.Nil(tbl)
	as.ErrorIs(err, stash.ErrNoColumns)

	tbl, err = s.NewTable("dup", "color", "b", "color")
	as.Nil(tbl)
	as.ErrorIs(err, stash.ErrDuplicateColumn)
	as.Contains(err.Error(), "color")

	tbl, err = s.NewTable("reserved", "a", stash.PKColumn)
	as.Nil(tbl)
	as.ErrorIs(err, stash.ErrReservedColumn)

	tbl, err = s.NewTable("ok", "a", "b")
	as.NotNil(tbl)
	as.Nil(err)

	tbl, err = s.NewTable("ok", "c")
	as.Nil(tbl)
	as.ErrorIs(err, stash.ErrDuplicateName)

	tbl, err = s.NewTableFrom("ragged", map[stash.ColumnName][]stash.Value{
		"a": {stash.Int(1), stash.Int(2)},
		"b": {stash.Int(1)},
	})
	as.Nil(tbl)
	as.ErrorIs(err, stash.ErrColumnLengths)
}

func TestCats(t *testing.T) {
	as := assert.New(t)
	_, cats := catsStore(t)

	rows := cats.Find(stash.All())
	as.Len(rows, 2)
	as.Equal(int64(1), rows[0].PK())
	as.Equal(int64(2), rows[1].PK())

	row, ok, err := cats.InsertOne(stash.Row{
		"name": stash.String("Stinky"),
		"age":  stash.Int(2),
	})
	as.True(ok)
	as.Nil(err)
	as.Equal(int64(3), row.PK())
	name, _ := row["name"].Str()
	as.Equal("Stinky", name)

	as.True(cats.DeleteOne(stash.Eq(stash.Row{
		"name": stash.String("Stinky"),
	})))
	as.Equal(2, cats.Count(stash.All()))
}

func TestPKMonotonicity(t *testing.T) {
	as := assert.New(t)
	s := stash.New()
	tbl, _ := s.NewTable("numbers", "n")

	for i := 1; i <= 5; i++ {
		row, ok, err := tbl.InsertOne(stash.Row{"n": stash.Int(int64(i))})
		as.True(ok)
		as.Nil(err)
		as.Equal(int64(i), row.PK())
	}

	// deleting rows never recycles their keys
	as.Equal(5, tbl.DeleteMany(stash.All(), true))
	row, _, _ := tbl.InsertOne(stash.Row{"n": stash.Int(0)})
	as.Equal(int64(6), row.PK())

	// clear without reset preserves the counter
	tbl.Clear(false)
	row, _, _ = tbl.InsertOne(stash.Row{"n": stash.Int(0)})
	as.Equal(int64(7), row.PK())

	// clear with reset restarts it
	tbl.Clear(true)
	row, _, _ = tbl.InsertOne(stash.Row{"n": stash.Int(0)})
	as.Equal(int64(1), row.PK())
}

func TestInsertValidation(t *testing.T) {
	as := assert.New(t)
	_, cats := catsStore(t)

	_, ok, err := cats.InsertOne(stash.Row{"name": stash.String("Tom")})
	as.False(ok)
	as.ErrorIs(err, stash.ErrMissingColumn)

	_, ok, err = cats.InsertOne(stash.Row{
		"name":  stash.String("Tom"),
		"age":   stash.Int(1),
		"breed": stash.String("alley"),
	})
	as.False(ok)
	as.ErrorIs(err, stash.ErrUnknownColumn)

	// a primary key in the input row is ignored, not rejected
	row, ok, err := cats.InsertOne(stash.Row{
		stash.PKColumn: stash.Int(99),
		"name":         stash.String("Tom"),
		"age":          stash.Int(1),
	})
	as.True(ok)
	as.Nil(err)
	as.Equal(int64(3), row.PK())
}

func TestInsertMany(t *testing.T) {
	as := assert.New(t)
	_, cats := catsStore(t)

	// one bad row poisons the whole batch before anything commits
	rows, err := cats.InsertMany([]stash.Row{
		{"name": stash.String("a"), "age": stash.Int(1)},
		{"name": stash.String("b")},
	}, true)
	as.Empty(rows)
	as.ErrorIs(err, stash.ErrMissingColumn)
	as.Equal(2, cats.Count(stash.All()))

	rows, err = cats.InsertMany([]stash.Row{
		{"name": stash.String("a"), "age": stash.Int(1)},
		{"name": stash.String("b"), "age": stash.Int(2)},
	}, true)
	as.Nil(err)
	as.Len(rows, 2)
	as.Equal(int64(3), rows[0].PK())
	as.Equal(int64(4), rows[1].PK())
	as.Equal(4, cats.Count(stash.All()))
}

func TestQuerySymmetry(t *testing.T) {
	as := assert.New(t)
	_, cats := catsStore(t)

	specs := []stash.Where{
		stash.All(),
		stash.None(),
		stash.Eq(stash.Row{"name": stash.String("PJ")}),
		stash.Eq(stash.Row{"name": stash.String("nobody")}),
		stash.Eq(stash.Row{}),
		stash.Match(func(r stash.Row) bool {
			age, _ := r["age"].Int64()
			return age > 3
		}),
	}
	for _, w := range specs {
		as.Equal(len(cats.Find(w)), cats.Count(w))
	}
}

func TestWhereResolution(t *testing.T) {
	as := assert.New(t)
	_, cats := catsStore(t)

	// the zero Where selects everything
	var w stash.Where
	as.Equal(2, cats.Count(w))

	// empty equality map selects nothing; it is not match-all
	as.Equal(0, cats.Count(stash.Eq(stash.Row{})))

	// unknown column in a Where is silent, not an error
	bogus := stash.Eq(stash.Row{"breed": stash.String("alley")})
	as.Empty(cats.Find(bogus))
	as.Equal(0, cats.Count(bogus))
	n, err := cats.UpdateMany(bogus, stash.Row{"age": stash.Int(1)}, true)
	as.Equal(0, n)
	as.Nil(err)
	as.Equal(0, cats.DeleteMany(bogus, true))

	// the same unknown column in a patch is an error
	_, err = cats.UpdateMany(
		stash.All(), stash.Row{"breed": stash.String("alley")}, true,
	)
	as.ErrorIs(err, stash.ErrUnknownColumn)

	// matching on the system column works
	as.Equal(1, cats.Count(stash.Eq(stash.Row{
		stash.PKColumn: stash.Int(2),
	})))
}

func TestFindByPK(t *testing.T) {
	as := assert.New(t)
	_, cats := catsStore(t)

	row, ok := cats.FindByPK(2)
	as.True(ok)
	name, _ := row["name"].Str()
	as.Equal("PJ", name)

	_, ok = cats.FindByPK(99)
	as.False(ok)

	row, ok = cats.FindOne(stash.Eq(stash.Row{"name": stash.String("Cleo")}))
	as.True(ok)
	as.Equal(int64(1), row.PK())

	_, ok = cats.FindOne(stash.None())
	as.False(ok)
}

func TestUpdateByPK(t *testing.T) {
	as := assert.New(t)
	_, cats := catsStore(t)

	row, ok, err := cats.UpdateByPK(2, stash.Row{"age": stash.Int(6)})
	as.True(ok)
	as.Nil(err)
	age, _ := row["age"].Int64()
	as.Equal(int64(6), age)
	name, _ := row["name"].Str()
	as.Equal("PJ", name)
	as.Equal(int64(2), row.PK())

	// the primary key cannot be patched
	row, ok, _ = cats.UpdateByPK(2, stash.Row{
		stash.PKColumn: stash.Int(42),
		"age":          stash.Int(7),
	})
	as.True(ok)
	as.Equal(int64(2), row.PK())

	_, ok, err = cats.UpdateByPK(99, stash.Row{"age": stash.Int(1)})
	as.False(ok)
	as.Nil(err)

	_, _, err = cats.UpdateByPK(2, stash.Row{"breed": stash.String("x")})
	as.ErrorIs(err, stash.ErrUnknownColumn)
}

func TestUpdateMany(t *testing.T) {
	as := assert.New(t)
	_, cats := catsStore(t)

	n, err := cats.UpdateMany(stash.All(), stash.Row{
		"age": stash.Int(10),
	}, true)
	as.Nil(err)
	as.Equal(2, n)
	as.Equal(2, cats.Count(stash.Eq(stash.Row{"age": stash.Int(10)})))
}

func TestDeletes(t *testing.T) {
	as := assert.New(t)
	_, cats := catsStore(t)

	as.False(cats.DeleteByPK(99))
	as.True(cats.DeleteByPK(1))
	as.Equal(1, cats.Count(stash.All()))

	as.False(cats.DeleteOne(stash.None()))
	as.False(cats.DeleteOne(stash.Eq(stash.Row{})))

	// delete-all is the caller explicitly passing All
	as.Equal(1, cats.DeleteMany(stash.All(), true))
	as.Equal(0, cats.Count(stash.All()))
}

func TestColumnNames(t *testing.T) {
	as := assert.New(t)
	s := stash.New()
	tbl, _ := s.NewTable("things", "zebra", "apple", "mango")

	as.Equal(
		[]stash.ColumnName{"apple", "mango", "zebra"},
		tbl.ColumnNames(),
	)
	as.Equal("things", tbl.Name())
}
