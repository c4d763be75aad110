package sqlite

import (
	"fmt"

	"github.com/HienLe2004/menuq/server/dao"
	"github.com/dekarrin/rezi"
)

// cartSnapshot is the REZI binary form of a cart as stored with each
// utterance.
type cartSnapshot []dao.CartLine

func (cs cartSnapshot) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncInt(len(cs))...)
	for _, ln := range cs {
		data = append(data, rezi.EncString(ln.Item)...)
		data = append(data, rezi.EncInt(ln.Quantity)...)
		data = append(data, rezi.EncInt(len(ln.Attributes))...)
		for _, attr := range ln.Attributes {
			data = append(data, rezi.EncString(attr)...)
		}
		data = append(data, rezi.EncString(ln.Time)...)
		data = append(data, rezi.EncInt(ln.Price)...)
	}

	return data, nil
}

func (cs *cartSnapshot) UnmarshalBinary(data []byte) error {
	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("line count: %w", err)
	}
	data = data[n:]
	// every line takes at least one byte
	if count < 0 || count > len(data) {
		return fmt.Errorf("line count: %d is not possible with %d bytes left", count, len(data))
	}

	lines := make([]dao.CartLine, count)
	for i := range lines {
		ln := &lines[i]

		ln.Item, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("line %d: item: %w", i, err)
		}
		data = data[n:]

		ln.Quantity, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("line %d: quantity: %w", i, err)
		}
		data = data[n:]

		var attrCount int
		attrCount, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("line %d: attribute count: %w", i, err)
		}
		data = data[n:]
		if attrCount < 0 || attrCount > len(data) {
			return fmt.Errorf("line %d: attribute count: %d is not possible with %d bytes left", i, attrCount, len(data))
		}

		for j := 0; j < attrCount; j++ {
			var attr string
			attr, n, err = rezi.DecString(data)
			if err != nil {
				return fmt.Errorf("line %d: attribute %d: %w", i, j, err)
			}
			data = data[n:]
			ln.Attributes = append(ln.Attributes, attr)
		}

		ln.Time, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("line %d: time: %w", i, err)
		}
		data = data[n:]

		ln.Price, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("line %d: price: %w", i, err)
		}
		data = data[n:]
	}

	*cs = lines
	return nil
}
