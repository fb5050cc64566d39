package models

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// VASpecialistThreshold is the loan count at which a lender is flagged as a VA specialist.
const VASpecialistThreshold = 100

// AllStates is the statesServed value given to every imported lender.
var AllStates = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA", "HI", "ID", "IL", "IN", "IA",
	"KS", "KY", "LA", "ME", "MD", "MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC", "SD", "TN", "TX", "UT", "VT",
	"VA", "WA", "WV", "WI", "WY",
}

// knownURLs maps uppercase report names to official lender URLs.
var knownURLs = map[string]string{
	"UNITED WHOLESALE MORTGAGE, LLC":    "https://www.uwm.com",
	"VETERANS UNITED HOME LOANS":        "https://www.veteransunited.com",
	"FREEDOM MORTGAGE CORP":             "https://www.freedommortgage.com/va-loans",
	"ROCKET MORTGAGE, LLC":              "https://www.rocketmortgage.com/learn/va-loan",
	"PENNYMAC LOAN SERVICES LLC":        "https://www.pennymac.com/va-loans",
	"NEWREZ LLC":                        "https://www.newrez.com/loan-options/va-loans",
	"NAVY FEDERAL CREDIT UNION":         "https://www.navyfederal.org",
	"CROSSCOUNTRY MORTGAGE LLC":         "https://www.crosscountrymortgage.com/loan-products/va-loans",
	"USAA FEDERAL SAVINGS BANK":         "https://www.usaa.com/inet/wc/bank-mortgage-va-loan",
	"PENFED CREDIT UNION":               "https://www.penfed.org/mortgages/va-loans",
	"LOANDEPOT.COM, LLC":                "https://www.loandepot.com/va-home-loans",
	"CALIBER HOME LOANS, INC.":          "https://www.caliberhomeloans.com/loans/va-loans",
	"NEWDAY FINANCIAL LLC":              "https://www.newdayusa.com",
	"GUARANTEED RATE, INC.":             "https://www.rate.com/va-loans",
	"GUILD MORTGAGE COMPANY":            "https://www.guildmortgage.com/loan-products/va-loans",
	"FAIRWAY INDEPENDENT MORTGAGE CORP": "https://www.fairwayindependentmc.com/va-loans",
	"WELLS FARGO BANK, N.A.":            "https://www.wellsfargo.com/mortgage/va-loans",
	"JPMORGAN CHASE BANK, N.A.":         "https://www.chase.com/personal/mortgage/va-loans",
	"BANK OF AMERICA, N.A.":             "https://www.bankofamerica.com/mortgage/va-loans",
	"U.S. BANK NATIONAL ASSOCIATION":    "https://www.usbank.com/home-loans/mortgage/va-loans.html",
	"TRUIST BANK":                       "https://www.truist.com/mortgage/va-loans",
}

// titleStopwords stay lowercase unless they open the name.
var titleStopwords = map[string]struct{}{
	"llc": {}, "lp": {}, "inc": {}, "corp": {}, "co": {}, "na": {}, "n.a.": {},
	"fsb": {}, "ltd": {}, "dba": {}, "and": {}, "of": {}, "the": {}, "a": {},
}

// Classification rules, evaluated in order against the uppercase name.
var (
	creditUnionMarkers = []string{"CREDIT UNION", "FCU", "CU "}
	bankMarkers        = []string{"BANK", "SAVINGS", "FSB", "N.A.", "NA "}
)

var countPrinter = message.NewPrinter(language.English)

// LenderRow is one data row of the lender loan volume report.
type LenderRow struct {
	Row       int    `json:"row"` // 1-based sheet row
	Name      string `json:"name"`
	LoanCount int    `json:"loan_count"`
}

// LenderRecord is the payload derived from a [LenderRow].
type LenderRecord struct {
	Key          string     `json:"key"` // uppercase name used for matching
	DisplayName  string     `json:"display_name"`
	LenderType   LenderType `json:"lender_type"`
	URL          string     `json:"url"`
	VASpecialist bool       `json:"va_specialist"`
	LoanCount    int        `json:"loan_count"`
	Description  string     `json:"description"`
}

// NewLenderRecord derives the display name, classification, URL, specialist flag and description for a row.
func NewLenderRecord(row LenderRow) LenderRecord {
	return LenderRecord{
		Key:          NormalizeLenderName(row.Name),
		DisplayName:  TitleCase(row.Name),
		LenderType:   ClassifyLenderType(row.Name),
		URL:          KnownURL(row.Name),
		VASpecialist: IsVASpecialist(row.LoanCount),
		LoanCount:    row.LoanCount,
		Description:  LenderDescription(row.LoanCount),
	}
}

// Lender builds the row inserted for a lender seen for the first time.
func (r LenderRecord) Lender(now time.Time) Lender {
	states := make([]string, len(AllStates))
	copy(states, AllStates)

	return Lender{
		Name:          r.DisplayName,
		LenderType:    r.LenderType,
		StatesServed:  states,
		URL:           r.URL,
		Phone:         "",
		VASpecialist:  r.VASpecialist,
		VerifiedLevel: VerifiedLevelVerified,
		Description:   r.Description,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NormalizeLenderName returns the matching key for a lender name.
func NormalizeLenderName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// TitleCase lowercases name and capitalizes each word except stopwords.
// The first word is always capitalized.
//
//	TitleCase("WELLS FARGO BANK, N.A.") // "Wells Fargo Bank, n.a."
func TitleCase(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, word := range words {
		if _, skip := titleStopwords[word]; i == 0 || !skip {
			words[i] = capitalize(word)
		}
	}
	return strings.Join(words, " ")
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToTitle(r)) + word[size:]
}

// ClassifyLenderType classifies a lender by substring markers in its uppercase name.
// Credit union markers are checked before bank markers; anything else is a direct lender.
func ClassifyLenderType(name string) LenderType {
	upper := strings.ToUpper(name)
	switch {
	case containsAny(upper, creditUnionMarkers):
		return LenderTypeCreditUnion
	case containsAny(upper, bankMarkers):
		return LenderTypeBank
	default:
		return LenderTypeDirect
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// KnownURL returns the official URL for a lender, or "" when the lender is not in the lookup table.
func KnownURL(name string) string {
	return knownURLs[NormalizeLenderName(name)]
}

// IsVASpecialist reports whether loanCount reaches [VASpecialistThreshold].
func IsVASpecialist(loanCount int) bool {
	return loanCount >= VASpecialistThreshold
}

// FormatCount formats n with thousands separators.
func FormatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}

// LenderDescription is the description stored for a lender with the given loan count.
func LenderDescription(loanCount int) string {
	return "VA-approved lender with " + FormatCount(loanCount) +
		" VA loans guaranteed. Source: U.S. Department of Veterans Affairs official lender statistics."
}
