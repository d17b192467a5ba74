package collector

import (
	"fmt"
	"sort"
	"strings"

	"FinanceHarvester/internal/model"
)

// Fields requested from the fundamentals-timeseries API for each statement.
// Each is sent with the "quarterly" prefix.
var statementFields = map[model.TableKind][]string{
	model.IncomeStatement: {
		"TotalRevenue", "OperatingRevenue", "CostOfRevenue", "GrossProfit",
		"OperatingExpense", "SellingGeneralAndAdministration", "ResearchAndDevelopment",
		"OperatingIncome", "InterestExpense", "InterestIncome", "NetInterestIncome",
		"OtherIncomeExpense", "PretaxIncome", "TaxProvision", "NetIncome",
		"NetIncomeCommonStockholders", "NetIncomeContinuousOperations",
		"BasicEPS", "DilutedEPS", "BasicAverageShares", "DilutedAverageShares",
		"EBIT", "EBITDA", "NormalizedEBITDA", "NormalizedIncome",
		"TotalExpenses", "ReconciledDepreciation", "TaxRateForCalcs",
	},
	model.BalanceSheet: {
		"TotalAssets", "CurrentAssets", "CashAndCashEquivalents",
		"CashCashEquivalentsAndShortTermInvestments", "AccountsReceivable", "Inventory",
		"TotalNonCurrentAssets", "NetPPE", "Goodwill", "GoodwillAndOtherIntangibleAssets",
		"TotalLiabilitiesNetMinorityInterest", "CurrentLiabilities", "AccountsPayable",
		"CurrentDebt", "LongTermDebt", "TotalDebt", "NetDebt",
		"TotalNonCurrentLiabilitiesNetMinorityInterest",
		"StockholdersEquity", "TotalEquityGrossMinorityInterest", "MinorityInterest",
		"RetainedEarnings", "CommonStock", "WorkingCapital", "InvestedCapital",
		"TangibleBookValue", "OrdinarySharesNumber", "ShareIssued",
	},
	model.CashFlow: {
		"OperatingCashFlow", "InvestingCashFlow", "FinancingCashFlow",
		"FreeCashFlow", "CapitalExpenditure", "EndCashPosition", "BeginningCashPosition",
		"ChangesInCash", "EffectOfExchangeRateChanges", "DepreciationAndAmortization",
		"ChangeInWorkingCapital", "StockBasedCompensation", "NetIncomeFromContinuingOperations",
		"IssuanceOfDebt", "RepaymentOfDebt", "RepurchaseOfCapitalStock",
		"CashDividendsPaid", "CommonStockIssuance", "NetBusinessPurchaseAndSale",
		"NetInvestmentPurchaseAndSale", "InterestPaidSupplementalData",
		"IncomeTaxPaidSupplementalData",
	},
}

const quarterlyPrefix = "quarterly"

// timeseriesTypes returns the comma-separated type parameter for a statement kind.
func timeseriesTypes(kind model.TableKind) (string, error) {
	fields, ok := statementFields[kind]
	if !ok {
		return "", fmt.Errorf("unsupported statement kind %q", kind)
	}
	types := make([]string, len(fields))
	for i, f := range fields {
		types[i] = quarterlyPrefix + f
	}
	return strings.Join(types, ","), nil
}

// timeseriesPoint is one reported value in a timeseries result.
type timeseriesPoint struct {
	AsOfDate      string `json:"asOfDate"`
	PeriodType    string `json:"periodType"`
	CurrencyCode  string `json:"currencyCode"`
	ReportedValue *struct {
		Raw *float64 `json:"raw"`
	} `json:"reportedValue"`
}

// pivotKey identifies one statement row.
type pivotKey struct {
	asOfDate   string
	periodType string
}

// pivot accumulates timeseries points into statement rows.
type pivot struct {
	rows  map[pivotKey]*model.StatementRow
	order []pivotKey
}

func newPivot() *pivot {
	return &pivot{rows: make(map[pivotKey]*model.StatementRow)}
}

func (p *pivot) add(field string, pt timeseriesPoint) {
	if pt.AsOfDate == "" {
		return
	}
	k := pivotKey{asOfDate: pt.AsOfDate, periodType: pt.PeriodType}
	r, ok := p.rows[k]
	if !ok {
		r = &model.StatementRow{
			AsOfDate:   pt.AsOfDate,
			PeriodType: pt.PeriodType,
			Values:     make(map[string]float64),
		}
		p.rows[k] = r
		p.order = append(p.order, k)
	}
	if r.CurrencyCode == "" {
		r.CurrencyCode = pt.CurrencyCode
	}
	if pt.ReportedValue != nil && pt.ReportedValue.Raw != nil {
		r.Values[strings.TrimPrefix(field, quarterlyPrefix)] = *pt.ReportedValue.Raw
	}
}

// result returns the accumulated rows sorted by as-of date, then period type.
func (p *pivot) result() []model.StatementRow {
	out := make([]model.StatementRow, 0, len(p.order))
	for _, k := range p.order {
		out = append(out, *p.rows[k])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AsOfDate != out[j].AsOfDate {
			return out[i].AsOfDate < out[j].AsOfDate
		}
		return out[i].PeriodType < out[j].PeriodType
	})
	return out
}
