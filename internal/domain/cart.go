package domain

// CartLine is one product-quantity-subtotal triple held in the cart.
// Subtotal is always recomputed from Quantity and the snapshot's unit
// price on mutation, never stored independently.
type CartLine struct {
	Product  Product
	Quantity int
	Subtotal Money
}

// Cart is an ordered sequence of lines, one per distinct product ID,
// in insertion order.
type Cart struct {
	Lines []CartLine
}

func (c Cart) TotalItems() int {
	var total int
	for _, line := range c.Lines {
		total += line.Quantity
	}

	return total
}

func (c Cart) TotalPrice() Money {
	var total Money
	for i, line := range c.Lines {
		if i == 0 {
			total = line.Subtotal
			continue
		}

		sum, err := total.Add(line.Subtotal)
		if err != nil {
			// lines of a single cart share one currency
			continue
		}
		total = sum
	}

	return total
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// LineIndex returns the position of the line holding productID, or -1.
func (c Cart) LineIndex(productID int64) int {
	for i, line := range c.Lines {
		if line.Product.ID == productID {
			return i
		}
	}

	return -1
}
