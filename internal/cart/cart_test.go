package cart

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/lojacontrol/internal/money"
)

// TestCart_Add はAdd関数を検証する。
func TestCart_Add(t *testing.T) {
	t.Parallel()

	t.Run("同じ商品を2回追加すると1行で数量2になること", func(t *testing.T) {
		t.Parallel()

		var c Cart
		c.Add(7, "Caneca", 10.5)
		c.Add(7, "Caneca", 10.5)

		want := []Item{{ProductID: 7, Nome: "Caneca", UnitPrice: 10.5, Quantity: 2}}
		if diff := cmp.Diff(want, c.Items()); diff != "" {
			t.Errorf("Items() mismatch (-want +got):\n%s", diff)
		}
		if got := c.Total(); got != 21 {
			t.Errorf("Total() = %v, want 21", got)
		}
		if got := money.Format(c.Total()); got != "R$ 21,00" {
			t.Errorf("Format(Total()) = %q, want %q", got, "R$ 21,00")
		}
	})

	t.Run("異なる商品は追加順に並ぶこと", func(t *testing.T) {
		t.Parallel()

		var c Cart
		c.Add(2, "B", 1)
		c.Add(1, "A", 2)
		c.Add(2, "B", 1)

		items := c.Items()
		if len(items) != 2 || items[0].ProductID != 2 || items[1].ProductID != 1 {
			t.Errorf("Items() = %+v", items)
		}
		if diff := cmp.Diff([]int64{2, 2, 1}, c.ProductIDs()); diff != "" {
			t.Errorf("ProductIDs() mismatch (-want +got):\n%s", diff)
		}
	})
}

// TestCart_RemoveAndClear はRemoveとClearを検証する。
func TestCart_RemoveAndClear(t *testing.T) {
	t.Parallel()

	var c Cart
	c.Add(1, "A", 5)
	c.Add(1, "A", 5)
	c.Add(3, "C", 2.25)

	c.Remove(1)
	if c.Len() != 1 || c.Items()[0].ProductID != 3 {
		t.Errorf("Remove後のItems() = %+v", c.Items())
	}
	c.Remove(99)
	if c.Len() != 1 {
		t.Errorf("存在しない商品のRemoveで行数が変わった: %d", c.Len())
	}

	c.Clear()
	if c.Len() != 0 || c.Total() != 0 || len(c.ProductIDs()) != 0 {
		t.Errorf("Clear後もカートが空でない: %+v", c.Items())
	}
}

// TestCart_ItemsIsCopy はItemsの戻り値を変更してもカートに影響しないことを検証する。
func TestCart_ItemsIsCopy(t *testing.T) {
	t.Parallel()

	var c Cart
	c.Add(1, "A", 5)
	items := c.Items()
	items[0].Quantity = 100

	if c.Items()[0].Quantity != 1 {
		t.Error("Items()の戻り値の変更がカートに反映された")
	}
}
