package models

// Category is a body-weight class.
type Category string

// categoryLimits lists the upper bound of each class in ascending order.
// Anything heavier than the last limit is CategoryOpen.
var categoryLimits = []struct {
	Max      float64
	Category Category
}{
	{59, "-59kg"},
	{66, "-66kg"},
	{74, "-74kg"},
	{83, "-83kg"},
	{93, "-93kg"},
	{105, "-105kg"},
	{120, "-120kg"},
}

// CategoryOpen is the unlimited heavyweight class.
const CategoryOpen Category = "+120kg"

// Categories returns every class in ascending order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryLimits)+1)
	for _, c := range categoryLimits {
		out = append(out, c.Category)
	}
	return append(out, CategoryOpen)
}

// CategoryFor maps a body weight in kilograms to its class. Limits are inclusive.
func CategoryFor(bodyWeight float64) Category {
	for _, c := range categoryLimits {
		if bodyWeight <= c.Max {
			return c.Category
		}
	}
	return CategoryOpen
}
