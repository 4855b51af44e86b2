package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"izakaya-order/internal/models"
)

var (
	itemA = models.MenuItem{ID: "a", Name: "芋焼酎 海", Price: 500, Category: models.CategoryAlcohol}
	itemB = models.MenuItem{ID: "b", Name: "枝豆", Price: 400, Category: models.CategoryFood}
)

func TestCart_MergesIdenticalAdditions(t *testing.T) {
	c := New()
	require.True(t, c.Add(itemA, nil, 1))
	require.True(t, c.Add(itemA, nil, 2))
	require.True(t, c.Add(itemA, []string{}, 4))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].Quantity)
	assert.Equal(t, NewLineKey("a", nil), lines[0].Key)
}

func TestCart_DistinctCustomizationsAreDistinctLines(t *testing.T) {
	c := New()
	c.Add(itemA, nil, 2)
	c.Add(itemA, []string{"割り方: ソーダ割り"}, 1)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 1500, c.TotalPrice())
}

func TestCart_CustomizationOrderDoesNotSplitLines(t *testing.T) {
	c := New()
	c.Add(itemA, []string{"x", "y"}, 1)
	c.Add(itemA, []string{"y", "x"}, 1)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, []string{"x", "y"}, lines[0].Customizations)
}

func TestCart_AddRejectsNonPositiveQuantity(t *testing.T) {
	c := New()
	assert.False(t, c.Add(itemA, nil, 0))
	assert.False(t, c.Add(itemA, nil, -3))
	assert.Equal(t, 0, c.Len())
}

func TestCart_SnapshotsNameAndPriceAtAddTime(t *testing.T) {
	c := New()
	c.Add(itemA, nil, 1)

	changed := itemA
	changed.Price = 9999
	changed.Name = "renamed"
	c.Add(changed, nil, 1)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 500, lines[0].Price)
	assert.Equal(t, "芋焼酎 海", lines[0].Name)
}

func TestCart_UpdateQuantity(t *testing.T) {
	c := New()
	c.Add(itemA, nil, 3)
	key := NewLineKey("a", nil)

	c.UpdateQuantity(key, 2)
	assert.Equal(t, 5, c.Lines()[0].Quantity)

	c.UpdateQuantity(key, -1)
	assert.Equal(t, 4, c.Lines()[0].Quantity)

	c.UpdateQuantity(key, -4)
	assert.Equal(t, 0, c.Len(), "a line reaching zero is removed")
}

func TestCart_OverDecrementRemovesLine(t *testing.T) {
	c := New()
	c.Add(itemA, nil, 2)
	c.Add(itemB, nil, 1)

	c.UpdateQuantity(NewLineKey("a", nil), -10)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "b", lines[0].MenuItemID)
	for _, l := range lines {
		assert.Positive(t, l.Quantity)
	}
}

func TestCart_UpdateUnknownKeyIsNoop(t *testing.T) {
	c := New()
	c.Add(itemA, nil, 1)
	c.UpdateQuantity(NewLineKey("missing", nil), 5)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 500, c.TotalPrice())
}

func TestCart_Remove(t *testing.T) {
	c := New()
	c.Add(itemA, nil, 1)
	c.Add(itemB, nil, 1)

	c.Remove(NewLineKey("a", nil))
	c.Remove(NewLineKey("a", nil))

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 400, c.TotalPrice())
}

func TestCart_TotalPriceTracksMutations(t *testing.T) {
	c := New()
	assert.Equal(t, 0, c.TotalPrice())

	c.Add(itemA, nil, 2)
	assert.Equal(t, 1000, c.TotalPrice())

	c.Add(itemB, nil, 3)
	assert.Equal(t, 2200, c.TotalPrice())

	c.UpdateQuantity(NewLineKey("b", nil), -1)
	assert.Equal(t, 1800, c.TotalPrice())

	c.Clear()
	assert.Equal(t, 0, c.TotalPrice())
}

func TestCart_Drain(t *testing.T) {
	c := New()
	c.Add(itemA, nil, 1)

	lines := c.Drain()
	require.Len(t, lines, 1)
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Drain())
}

func TestCart_LinesAreCopies(t *testing.T) {
	c := New()
	c.Add(itemA, []string{"割り方: ロック"}, 1)

	lines := c.Lines()
	lines[0].Quantity = 100
	lines[0].Customizations[0] = "tampered"

	fresh := c.Lines()
	assert.Equal(t, 1, fresh[0].Quantity)
	assert.Equal(t, "割り方: ロック", fresh[0].Customizations[0])
}

func TestSessions_OneCartPerTable(t *testing.T) {
	s := NewSessions()
	s.For("1").Add(itemA, nil, 1)

	assert.Equal(t, 1, s.For("1").Len())
	assert.Equal(t, 0, s.For("2").Len())

	s.Drop("1")
	assert.Equal(t, 0, s.For("1").Len())
}
