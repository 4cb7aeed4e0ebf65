package core

import "time"

// Builtin identifies one of the fixed built-in data sources.
type Builtin string

const (
	BuiltinCAPE    Builtin = "cape"
	BuiltinHome    Builtin = "home"
	BuiltinSP500   Builtin = "sp500"
	BuiltinGold    Builtin = "gold"
	BuiltinBitcoin Builtin = "bitcoin"
)

// Nature describes how an asset's raw series is denominated.
type Nature int

const (
	// NatureUnitless is for pure ratios (CAPE): no real/nominal duality.
	NatureUnitless Nature = iota
	// NatureReal means the raw series already stores inflation-adjusted values.
	NatureReal
	// NatureNominal means the raw series stores unadjusted USD prices.
	NatureNominal
)

// AssetRef addresses exactly one series: either a builtin source or a
// dynamically registered custom ticker.
type AssetRef struct {
	builtin Builtin
	ticker  string
}

// BuiltinRef returns a reference to a built-in asset.
func BuiltinRef(b Builtin) AssetRef {
	return AssetRef{builtin: b}
}

// TickerRef returns a reference to a custom ticker symbol.
func TickerRef(symbol string) AssetRef {
	return AssetRef{ticker: symbol}
}

// IsTicker reports whether the reference addresses a custom ticker.
func (a AssetRef) IsTicker() bool { return a.ticker != "" }

// Builtin returns the builtin source, valid only when !IsTicker().
func (a AssetRef) Builtin() Builtin { return a.builtin }

// Ticker returns the ticker symbol, valid only when IsTicker().
func (a AssetRef) Ticker() string { return a.ticker }

// Key returns a stable map/display key for the reference.
func (a AssetRef) Key() string {
	if a.ticker != "" {
		return "ticker:" + a.ticker
	}
	return string(a.builtin)
}

// Nature returns how the referenced asset's raw series is denominated.
func (a AssetRef) Nature() Nature {
	if a.ticker != "" {
		return NatureNominal
	}
	switch a.builtin {
	case BuiltinCAPE:
		return NatureUnitless
	case BuiltinHome, BuiltinSP500:
		return NatureReal
	default:
		return NatureNominal
	}
}

// DenomKind is the variant tag of a DenominatorSpec.
type DenomKind int

const (
	// DenomNominal expresses values in raw, unadjusted USD.
	DenomNominal DenomKind = iota
	// DenomReal expresses values in inflation-adjusted USD.
	DenomReal
	// DenomRatio expresses values as a ratio to another asset's real price.
	DenomRatio
)

// DenominatorSpec selects the unit an asset's value is expressed in. Ratio
// denominators always resolve through the real form of the referenced asset,
// so a nominal cross-asset ratio is unrepresentable.
type DenominatorSpec struct {
	kind  DenomKind
	asset AssetRef
}

// Nominal returns the raw-USD denominator.
func Nominal() DenominatorSpec { return DenominatorSpec{kind: DenomNominal} }

// Real returns the inflation-adjusted-USD denominator.
func Real() DenominatorSpec { return DenominatorSpec{kind: DenomReal} }

// RatioTo returns a denominator expressing values relative to another asset.
func RatioTo(asset AssetRef) DenominatorSpec {
	return DenominatorSpec{kind: DenomRatio, asset: asset}
}

// Kind returns the variant tag.
func (d DenominatorSpec) Kind() DenomKind { return d.kind }

// Asset returns the ratio target, valid only when Kind() == DenomRatio.
func (d DenominatorSpec) Asset() AssetRef { return d.asset }

// Key returns a stable map/display key for the denominator.
func (d DenominatorSpec) Key() string {
	switch d.kind {
	case DenomReal:
		return "real"
	case DenomRatio:
		return "ratio:" + d.asset.Key()
	default:
		return "nominal"
	}
}

// Observation is one dated row of a normalized series. Field presence depends
// on the source; absent numeric fields are zero. Ingestion guarantees that
// present prices and ratios are finite and strictly positive.
type Observation struct {
	Date time.Time

	// Stock/CAPE source fields.
	SP500    float64
	CAPE     float64
	Dividend float64
	Earnings float64
	CPI      float64

	// Home source fields.
	RealPrice    float64
	BuildingCost float64

	// Gold/Bitcoin/ticker sources.
	Price float64
}

// Raw returns the observation field designated as the asset's raw price or
// level, and whether it is present and positive.
func (o Observation) Raw(a AssetRef) (float64, bool) {
	var v float64
	if a.IsTicker() {
		v = o.Price
	} else {
		switch a.Builtin() {
		case BuiltinCAPE:
			v = o.CAPE
		case BuiltinHome:
			v = o.RealPrice
		case BuiltinSP500:
			v = o.SP500
		default:
			v = o.Price
		}
	}
	if v <= 0 {
		return 0, false
	}
	return v, true
}

// Point is one chart point consumed by the rendering layer.
type Point struct {
	X time.Time `json:"x"`
	Y float64   `json:"y"`
}

// HistoricalEvent is an annotation passed through to the rendering layer
// unmodified; the engine never computes these.
type HistoricalEvent struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
	Color string    `json:"color"`
}
