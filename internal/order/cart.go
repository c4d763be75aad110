// Package order holds a customer's cart and the executor that carries out
// procedure calls against it.
package order

// Line is one item in a cart.
type Line struct {
	Item       string
	Quantity   int
	Attributes []string
	Time       string

	// Price is the unit price of the item when it was first added.
	Price int
}

// Subtotal is the quantity times the unit price.
func (l Line) Subtotal() int {
	return l.Quantity * l.Price
}

func (l Line) copy() Line {
	l.Attributes = append([]string(nil), l.Attributes...)
	return l
}

// Cart is the set of items a customer has ordered so far. Lines are kept in
// the order items were first added. The zero value is an empty cart ready to
// use. A Cart is not safe for concurrent use.
type Cart struct {
	lines map[string]*Line
	order []string

	// last is the most recently added or modified item.
	last string
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// Add puts quantity of item into the cart. If the item is already there the
// quantity is added to the existing quantity, attributes are appended, and a
// non-empty time replaces the old one; the price is left as it was. A
// quantity below 1 has no effect. The resulting line is returned.
func (c *Cart) Add(item string, quantity int, attributes []string, time string, price int) Line {
	if c.lines == nil {
		c.lines = map[string]*Line{}
	}

	ln, ok := c.lines[item]
	if !ok {
		if quantity < 1 {
			return Line{Item: item, Price: price}
		}
		ln = &Line{Item: item, Price: price}
		c.lines[item] = ln
		c.order = append(c.order, item)
	}

	if quantity > 0 {
		ln.Quantity += quantity
	}
	ln.Attributes = append(ln.Attributes, attributes...)
	if time != "" {
		ln.Time = time
	}
	c.last = item

	return ln.copy()
}

// Remove takes item out of the cart entirely. It returns false if the item was
// not in the cart.
func (c *Cart) Remove(item string) bool {
	if _, ok := c.lines[item]; !ok {
		return false
	}

	delete(c.lines, item)
	for i := range c.order {
		if c.order[i] == item {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if c.last == item {
		c.last = ""
	}
	return true
}

// SetQuantity replaces the quantity of an item already in the cart. A quantity
// of zero or less removes the item. It returns false if the item was not in the
// cart, in which case nothing changes.
func (c *Cart) SetQuantity(item string, quantity int) bool {
	ln, ok := c.lines[item]
	if !ok {
		return false
	}
	if quantity <= 0 {
		c.Remove(item)
		return true
	}

	ln.Quantity = quantity
	c.last = item
	return true
}

// SetTime sets the delivery time of the most recently added or modified item
// and returns that item. It returns false if there is no such item.
func (c *Cart) SetTime(time string) (string, bool) {
	ln, ok := c.lines[c.last]
	if !ok {
		return "", false
	}
	ln.Time = time
	return ln.Item, true
}

// Get returns the line for item.
func (c *Cart) Get(item string) (Line, bool) {
	ln, ok := c.lines[item]
	if !ok {
		return Line{}, false
	}
	return ln.copy(), true
}

// Last returns the most recently added or modified item that is still in the
// cart, or "" if there is none.
func (c *Cart) Last() string {
	return c.last
}

// Clear removes every item.
func (c *Cart) Clear() {
	c.lines = nil
	c.order = nil
	c.last = ""
}

// Lines returns a copy of every line in the order items were first added.
func (c *Cart) Lines() []Line {
	lines := make([]Line, 0, len(c.order))
	for _, item := range c.order {
		lines = append(lines, c.lines[item].copy())
	}
	return lines
}

// Len returns the number of distinct items in the cart.
func (c *Cart) Len() int {
	return len(c.order)
}

// Total returns the sum of every line's subtotal.
func (c *Cart) Total() int {
	total := 0
	for _, item := range c.order {
		total += c.lines[item].Subtotal()
	}
	return total
}

// Quantities returns the quantity of each item in the cart.
func (c *Cart) Quantities() map[string]int {
	q := make(map[string]int, len(c.lines))
	for item, ln := range c.lines {
		q[item] = ln.Quantity
	}
	return q
}
