package accounts

// Business forms understood by DefaultChart.
const (
	FormLimitedCompany = "ab"
	FormSoleTrader     = "ef"
)

// DefaultChart returns a BAS based chart of accounts for a business form.
// Unknown forms get the limited company chart.
func DefaultChart(form string) []Account {
	chart := common()
	switch form {
	case FormSoleTrader:
		chart = append(chart,
			Account{Number: 2010, Name: "Eget kapital", Type: TypeEquity, Description: "Owner's equity"},
			Account{Number: 2013, Name: "Egna uttag", Type: TypeEquity, Description: "Owner's withdrawals"},
		)
	default:
		chart = append(chart,
			Account{Number: 2081, Name: "Aktiekapital", Type: TypeEquity, Description: "Share capital"},
			Account{Number: 2099, Name: "Årets resultat", Type: TypeEquity, Description: "Profit for the year"},
		)
	}
	sortByNumber(chart)
	return chart
}

func common() []Account {
	return []Account{
		{Number: 1510, Name: "Kundfordringar", Type: TypeAsset, Description: "Accounts receivable"},
		{Number: 1930, Name: "Företagskonto", Type: TypeAsset, Description: "Business bank account"},
		{Number: 2440, Name: "Leverantörsskulder", Type: TypeLiability, Description: "Accounts payable"},
		{Number: 2611, Name: "Utgående moms 25 %", Type: TypeLiability, VATCode: "25", Description: "Output VAT"},
		{Number: 2640, Name: "Ingående moms", Type: TypeLiability, Description: "Input VAT"},
		{Number: 2650, Name: "Redovisningskonto för moms", Type: TypeLiability, Description: "VAT settlement"},
		{Number: 3001, Name: "Försäljning inom Sverige 25 %", Type: TypeRevenue, VATCode: "25", Description: "Domestic sales"},
		{Number: 3960, Name: "Valutakursvinster", Type: TypeRevenue, Description: "Exchange rate gains"},
		{Number: 4010, Name: "Inköp material och varor", Type: TypeExpense, VATCode: "25", Description: "Purchases"},
		{Number: 5410, Name: "Förbrukningsinventarier", Type: TypeExpense, VATCode: "25", Description: "Equipment"},
		{Number: 6540, Name: "IT-tjänster", Type: TypeExpense, VATCode: "25", Description: "Software and SaaS"},
		{Number: 6570, Name: "Bankkostnader", Type: TypeExpense, Description: "Bank fees"},
		{Number: 7960, Name: "Valutakursförluster", Type: TypeExpense, Description: "Exchange rate losses"},
	}
}
