package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sized(id string, size SizeClass) Widget {
	return Widget{ID: id, Size: size}
}

func rowIDs(rows []Row) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		for _, w := range row.Widgets {
			out[i] = append(out[i], w.ID)
		}
	}
	return out
}

func TestPackRowsDefaultLayout(t *testing.T) {
	rows := PackRows([]Widget{
		sized("revenue", SizeLarge),
		sized("top", SizeSmall),
		sized("orders", SizeLarge),
		sized("activity", SizeSmall),
	})
	assert.Equal(t, [][]string{{"revenue", "top"}, {"orders", "activity"}}, rowIDs(rows))
	assert.Equal(t, "3fr 1fr", rows[0].Columns())
	assert.Equal(t, 4, rows[0].Weight)
}

func TestPackRowsLargeClosesSharedRow(t *testing.T) {
	rows := PackRows([]Widget{
		sized("a", SizeSmall),
		sized("b", SizeLarge),
		sized("c", SizeSmall),
	})
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, rowIDs(rows))
	assert.Equal(t, "1fr 3fr", rows[0].Columns())
	assert.Equal(t, "1fr", rows[1].Columns())
}

func TestPackRowsSmallCards(t *testing.T) {
	rows := PackRows([]Widget{
		sized("a", SizeSmall), sized("b", SizeSmall), sized("c", SizeSmall),
		sized("d", SizeSmall), sized("e", SizeSmall),
	})
	assert.Equal(t, [][]string{{"a", "b", "c", "d"}, {"e"}}, rowIDs(rows))
	assert.Equal(t, "1fr 1fr 1fr 1fr", rows[0].Columns())
}

func TestPackRowsMediumAndOverflow(t *testing.T) {
	rows := PackRows([]Widget{
		sized("m1", SizeMedium),
		sized("m2", SizeMedium),
		sized("m3", SizeMedium),
		sized("l", SizeLarge),
	})
	assert.Equal(t, [][]string{{"m1", "m2"}, {"m3"}, {"l"}}, rowIDs(rows))
	assert.Equal(t, "1fr 1fr", rows[0].Columns())
}

func TestPackRowsInvariants(t *testing.T) {
	sizes := []SizeClass{SizeSmall, SizeLarge, SizeMedium, SizeSmall, SizeSmall, SizeLarge, SizeMedium, SizeSmall}
	var widgets []Widget
	for i, size := range sizes {
		widgets = append(widgets, sized(string(rune('a'+i)), size))
	}
	rows := PackRows(widgets)
	var flat []string
	for _, row := range rows {
		assert.NotEmpty(t, row.Widgets)
		assert.LessOrEqual(t, row.Weight, MaxRowWeight)
		for _, w := range row.Widgets {
			flat = append(flat, w.ID)
		}
	}
	var want []string
	for _, w := range widgets {
		want = append(want, w.ID)
	}
	assert.Equal(t, want, flat, "packing must preserve order and keep every widget")
	assert.Empty(t, PackRows(nil))
}
