package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_MakeTextList(t *testing.T) {
	testCases := []struct {
		name   string
		input  []string
		expect string
	}{
		{name: "empty", input: nil, expect: ""},
		{name: "one", input: []string{"12 giờ"}, expect: "12 giờ"},
		{name: "two", input: []string{"12 giờ", "7 giờ tối"}, expect: "12 giờ và 7 giờ tối"},
		{name: "three", input: []string{"a", "b", "c"}, expect: "a, b và c"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, MakeTextList(tc.input))
		})
	}
}

func Test_Capitalize(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Phở bò", Capitalize("phở bò"))
	assert.Equal("Ốp la", Capitalize("ốp la"))
	assert.Equal("", Capitalize(""))
}

func Test_Distinct(t *testing.T) {
	assert := assert.New(t)

	actual := Distinct([]string{"b", "", "a", "b", "c", "a"})

	assert.Equal([]string{"b", "a", "c"}, actual)
}

func Test_SortBy(t *testing.T) {
	assert := assert.New(t)

	input := []string{"ccc", "a", "bb", "d"}

	actual := SortBy(input, func(l, r string) bool { return len(l) < len(r) })

	assert.Equal([]string{"a", "d", "bb", "ccc"}, actual)
	assert.Equal([]string{"ccc", "a", "bb", "d"}, input, "input must not be modified")
}

func Test_OrderedKeys(t *testing.T) {
	assert := assert.New(t)

	actual := OrderedKeys(map[string]bool{"trà đá": true, "bánh mì": true, "phở bò": false})

	assert.Equal([]string{"bánh mì", "phở bò", "trà đá"}, actual)
}
