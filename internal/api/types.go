package api

import "github.com/shopspring/decimal"

// Credentials are the login/register request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse is the auth success payload.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// NewInvestorProfile is the request body for a new-investor recommendation.
// The optional filters are sent as empty strings, which the service reads
// as "no filter".
type NewInvestorProfile struct {
	Budget     float64 `json:"budget"`
	RiskLevel  string  `json:"risk_level"`
	AssetClass string  `json:"asset_class"`
	MarketCap  string  `json:"market_cap"`
}

// HeldPosition is the request body for an existing-investor comparison.
// PurchaseDate is formatted YYYY-MM-DD.
type HeldPosition struct {
	SchemeID      int64   `json:"scheme_id"`
	NAVAtPurchase float64 `json:"nav_at_purchase"`
	UnitsHeld     float64 `json:"units_held"`
	PurchaseDate  string  `json:"purchase_date"`
}

// SchemeEntry is one row of the scheme catalog.
type SchemeEntry struct {
	SchemeID int64  `json:"SchemeID"`
	Scheme   string `json:"Scheme"`
}

// Fund is one ranked recommendation for a new investor. Ordering within
// the returned slice is the service's ranking; the client never resorts.
type Fund struct {
	SchemeID         int64           `json:"SchemeID"`
	SchemeName       string          `json:"Scheme_Name"`
	NAV              decimal.Decimal `json:"NAV"`
	UnitsPurchasable decimal.Decimal `json:"Units_Purchasable"`
}

// Comparison is the existing-investor result. Every leaf is a pointer:
// the service legitimately omits any of them (for example the whole
// Recommended_Fund when holding is the suggestion) and absent leaves are
// rendered as placeholders, never treated as errors.
type Comparison struct {
	YourFund        *YourFund        `json:"Your_Fund"`
	Suggestion      *string          `json:"Suggestion"`
	Reason          *string          `json:"Reason"`
	RecommendedFund *RecommendedFund `json:"Recommended_Fund"`
}

// YourFund describes the caller's current holding as the service sees it.
type YourFund struct {
	SchemeID      *int64           `json:"SchemeID"`
	Scheme        *string          `json:"Scheme"`
	NAVAtPurchase *decimal.Decimal `json:"NAV_at_Purchase"`
	CurrentNAV    *decimal.Decimal `json:"Current_NAV"`
	UnitsHeld     *decimal.Decimal `json:"Units_Held"`
	CurrentValue  *decimal.Decimal `json:"Current_Value"`
	CAGR          *decimal.Decimal `json:"CAGR"`
}

// RecommendedFund is the peer fund the service suggests switching to.
// The service sends an empty object when the suggestion is to hold.
type RecommendedFund struct {
	SchemeID *int64           `json:"Recommended_SchemeID"`
	Scheme   *string          `json:"Recommended_Scheme"`
	NAV      *decimal.Decimal `json:"NAV"`
}

// Categorical vocabularies the service recognizes. Risk level is
// mandatory on a new-investor profile; the other two are optional
// filters where "" means "no filter".
var (
	RiskLevels = []string{"Low", "Medium", "High"}

	AssetClasses = []string{
		"Equity", "Debt", "Hybrid", "Gold",
		"Liquid", "Other", "Index/ETF", "Specialized",
	}

	MarketCaps = []string{
		"Large Cap", "Mid Cap", "Small Cap", "Multi Cap",
		"Focused/Value", "Sectoral/Thematic", "Mid/Small Cap", "Other",
	}
)
