package pipeline

// CategoryRule maps a category to the description keywords that select it.
type CategoryRule struct {
	Category string
	Keywords []string
}

// DefaultRules returns the built-in taxonomy. Order is significant: the first
// category with a matching keyword wins, so more specific merchants must be
// declared before generic ones (KROGER FUEL is Food because Food comes first).
func DefaultRules() []CategoryRule {
	return []CategoryRule{
		{Category: "Rent", Keywords: []string{"TRAILS", "APARTMENT", "PROPERTY", "RENT", "RPS"}},
		{Category: "Utilities", Keywords: []string{"ELECTRIC", "WATER", "INTERNET", "GAS", "UTILITY", "GALLATINELECTRC", "ATT BILL", "AT&T"}},
		{Category: "Food", Keywords: []string{
			"KROGER", "WALMART", "CHICK", "MCDONALD", "RESTAURANT", "CAFE", "GROCERY", "PUBLIX",
			"TARGET", "PAPA JOHN", "CULVER", "WENDY", "CRACKER BARREL", "PANERA", "KEKES",
			"WHATABURGER", "WAFFLE HOUSE", "ALDI", "INSTACART", "CHINA BUFFET", "ROUXS CREOLE",
			"STORMING CRAB", "FLAVORS OF INDIA", "BEST DONUTS", "DONUT",
		}},
		{Category: "Subscriptions", Keywords: []string{
			"OPENAI", "NETFLIX", "SPOTIFY", "SUBSCRIPTION", "MEMBERSHIP", "BOLT", "MICROSOFT",
			"APPLE.COM/BILL", "NETWORKSOLU", "APPLE",
		}},
		{Category: "Transfers", Keywords: []string{"VENMO", "ZELLE", "TRANSFER", "XFER", "SCHWAB BROKERAGE", "EB TO SAVINGS", "ATM WITHDRAWAL"}},
		{Category: "Income", Keywords: []string{"EB FROM CHECKING", "PAYROLL", "DEPOSIT", "SALARY", "EARNINGS", "MONTGOMERY ENGIN", "IRS TREAS", "TAX REFUND"}},
		{Category: "Auto & Gas", Keywords: []string{"RACETRAC", "SHELL", "MARATHON", "MURPHY", "KROGER FUEL", "MISTER CAR WASH", "BJ S AUTO"}},
		{Category: "Shopping", Keywords: []string{"AMAZON", "LOWE", "SALLY BEAUTY", "CSC SERVICE"}},
		{Category: "Entertainment", Keywords: []string{"REG INDIAN LAKE", "FANDANGO"}},
		{Category: "Charity", Keywords: []string{"GIV*FIRST CUMBER"}},
	}
}

// Categories returns the category names of rules in declaration order.
func Categories(rules []CategoryRule) []string {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.Category)
	}
	return names
}
