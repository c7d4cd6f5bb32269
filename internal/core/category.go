package core

// Category is one of the fixed expense classifications.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTravel        Category = "Travel"
	CategoryBills         Category = "Bills"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryHealthcare    Category = "Healthcare"
	CategoryOther         Category = "Other"

	// CategoryAll is accepted only as a query value and means "no category constraint".
	CategoryAll Category = "All"

	DefaultCategory = CategoryOther
)

var recordCategories = [...]Category{
	CategoryFood,
	CategoryTravel,
	CategoryBills,
	CategoryShopping,
	CategoryEntertainment,
	CategoryHealthcare,
	CategoryOther,
}

// Categories returns the selectable categories, "All" first.
// The slice is a fresh copy on every call.
func Categories() []Category {
	out := make([]Category, 0, len(recordCategories)+1)
	out = append(out, CategoryAll)
	out = append(out, recordCategories[:]...)
	return out
}

// RecordCategories returns the categories a record may carry.
func RecordCategories() []Category {
	out := make([]Category, len(recordCategories))
	copy(out, recordCategories[:])
	return out
}

// IsValid reports whether c may be stored on a record. "All" is not.
func (c Category) IsValid() bool {
	for _, rc := range recordCategories {
		if c == rc {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }
