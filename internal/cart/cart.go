// Package cart はクライアント側だけで保持する買い物カゴを提供する。
// カートは商品IDごとに1行で、ログアウトと購入完了で空になる。
package cart

import "github.com/nao1215/lojacontrol/internal/money"

// Item はカートの1行。
type Item struct {
	// ProductID は商品ID。
	ProductID int64
	// Nome は商品名。
	Nome string
	// UnitPrice は単価。
	UnitPrice float64
	// Quantity は数量。
	Quantity int
}

// Subtotal は単価×数量を返す。
func (i Item) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Cart は追加順を保つ商品IDユニークなカート。
// ゼロ値は空のカートとして使える。並行アクセスには対応しない。
type Cart struct {
	items []Item
}

// Add は商品を1個追加する。すでにある商品は数量を1増やす。
func (c *Cart) Add(productID int64, nome string, unitPrice float64) {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, Item{
		ProductID: productID,
		Nome:      nome,
		UnitPrice: unitPrice,
		Quantity:  1,
	})
}

// Remove は商品の行を数量に関係なく取り除く。
func (c *Cart) Remove(productID int64) {
	kept := c.items[:0]
	for _, item := range c.items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// Clear はカートを空にする。
func (c *Cart) Clear() {
	c.items = nil
}

// Len は行数を返す。
func (c *Cart) Len() int {
	return len(c.items)
}

// Items は行のコピーを追加順に返す。
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Total は合計金額を返す。
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.items {
		total += item.Subtotal()
	}
	return money.Round(total)
}

// ProductIDs は購入APIに送る商品IDの列を返す。数量の分だけ同じIDを繰り返す。
func (c *Cart) ProductIDs() []int64 {
	var ids []int64
	for _, item := range c.items {
		for range item.Quantity {
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}
