package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableDropColumns(t *testing.T) {
	tbl := &Table{
		Header:  []string{"id", "license", "name", "neighbourhood_group"},
		Records: [][]string{{"1", "", "A", ""}, {"2", "", "B", ""}},
	}

	dropped := tbl.DropColumns(ColLicense, ColNeighbourhoodGroup, "not_there")

	assert.Equal(t, []string{ColLicense, ColNeighbourhoodGroup}, dropped)
	assert.Equal(t, []string{"id", "name"}, tbl.Header)
	assert.Equal(t, [][]string{{"1", "A"}, {"2", "B"}}, tbl.Records)
	assert.Nil(t, tbl.DropColumns("not_there"))
}

func TestTableCloneIsDeep(t *testing.T) {
	tbl := &Table{Header: []string{"id"}, Records: [][]string{{"1"}}}
	c := tbl.Clone()

	c.Header[0] = "changed"
	c.Records[0][0] = "changed"

	assert.Equal(t, "id", tbl.Header[0])
	assert.Equal(t, "1", tbl.Records[0][0])
}

func TestTableIndex(t *testing.T) {
	tbl := &Table{Header: []string{"id", "name"}}
	assert.Equal(t, 1, tbl.Index("name"))
	assert.Equal(t, -1, tbl.Index("license"))
	assert.True(t, tbl.Has("id"))
	assert.Equal(t, 0, tbl.Len())
}
