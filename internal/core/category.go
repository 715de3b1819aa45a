package core

// CategoryKey identifies a transaction category. The set is closed: adding a
// category means adding a constant here and an entry to the table below.
type CategoryKey string

// Expense/advance categories. Advances share the expense taxonomy because an
// advance is an expense somebody fronted.
const (
	CategoryGroceries      CategoryKey = "groceries"
	CategoryDining         CategoryKey = "dining"
	CategoryDaily          CategoryKey = "daily"
	CategoryMedical        CategoryKey = "medical"
	CategoryHome           CategoryKey = "home"
	CategoryKids           CategoryKey = "kids"
	CategoryTransportation CategoryKey = "transportation"
	CategoryOther          CategoryKey = "other"
)

// Income categories, disjoint from the expense set.
const (
	CategorySalary   CategoryKey = "salary"
	CategorySideline CategoryKey = "sideline"
	CategoryWindfall CategoryKey = "windfall"
	CategorySubsidy  CategoryKey = "subsidy"
)

// Category describes one entry of the taxonomy.
type Category struct {
	Key   CategoryKey
	Label string
	Types []TransactionType
}

var expenseTypes = []TransactionType{TypeExpense, TypeAdvance}
var incomeTypes = []TransactionType{TypeIncome}

// categories is the display order used by forms and breakdowns.
var categories = []Category{
	{Key: CategoryGroceries, Label: "Groceries", Types: expenseTypes},
	{Key: CategoryDining, Label: "Dining out", Types: expenseTypes},
	{Key: CategoryDaily, Label: "Daily goods", Types: expenseTypes},
	{Key: CategoryMedical, Label: "Medical", Types: expenseTypes},
	{Key: CategoryHome, Label: "Home & appliances", Types: expenseTypes},
	{Key: CategoryKids, Label: "Kids", Types: expenseTypes},
	{Key: CategoryTransportation, Label: "Transportation", Types: expenseTypes},
	{Key: CategoryOther, Label: "Other", Types: expenseTypes},
	{Key: CategorySalary, Label: "Salary", Types: incomeTypes},
	{Key: CategorySideline, Label: "Side job", Types: incomeTypes},
	{Key: CategoryWindfall, Label: "Windfall", Types: incomeTypes},
	{Key: CategorySubsidy, Label: "Subsidy", Types: incomeTypes},
}

var categoryByKey = func() map[CategoryKey]Category {
	m := make(map[CategoryKey]Category, len(categories))
	for _, c := range categories {
		m[c.Key] = c
	}
	return m
}()

// CategoriesForType returns the ordered categories usable by transactions of
// the given type.
func CategoriesForType(t TransactionType) []Category {
	var out []Category
	for _, c := range categories {
		for _, ct := range c.Types {
			if ct == t {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// ResolveCategory looks up a category by key. Unknown or empty keys resolve
// to the "other" category so stale records still render.
func ResolveCategory(key CategoryKey) Category {
	if c, ok := categoryByKey[key]; ok {
		return c
	}
	return categoryByKey[CategoryOther]
}

// CategoryAllowed reports whether a category key belongs to the taxonomy of
// the given transaction type.
func CategoryAllowed(key CategoryKey, t TransactionType) bool {
	c, ok := categoryByKey[key]
	if !ok {
		return false
	}
	for _, ct := range c.Types {
		if ct == t {
			return true
		}
	}
	return false
}

// IsExpenseCategory reports whether key belongs to the expense/advance family.
func IsExpenseCategory(key CategoryKey) bool {
	return CategoryAllowed(key, TypeExpense)
}
