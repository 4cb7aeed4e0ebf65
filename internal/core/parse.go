package core

import (
	"fmt"
	"strings"
)

// ParseAssetRef resolves a user-supplied asset name. Builtin names are
// matched case-insensitively; anything else is treated as a custom ticker
// symbol, uppercased. The explicit "ticker:" prefix always forces ticker
// interpretation so a symbol that collides with a builtin name stays
// addressable.
func ParseAssetRef(s string) (AssetRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AssetRef{}, WrapError(ErrSeriesNotFound, fmt.Errorf("empty asset name"))
	}

	if sym, ok := strings.CutPrefix(s, "ticker:"); ok {
		if sym == "" {
			return AssetRef{}, WrapError(ErrTickerInvalid, fmt.Errorf("empty ticker symbol"))
		}
		return TickerRef(strings.ToUpper(sym)), nil
	}

	switch Builtin(strings.ToLower(s)) {
	case BuiltinCAPE, BuiltinHome, BuiltinSP500, BuiltinGold, BuiltinBitcoin:
		return BuiltinRef(Builtin(strings.ToLower(s))), nil
	}
	return TickerRef(strings.ToUpper(s)), nil
}

// ParseDenominator resolves a user-supplied denominator name. "nominal" and
// "usd" select raw dollars, "real" selects inflation-adjusted dollars, and
// any asset name selects a ratio to that asset.
func ParseDenominator(s string) (DenominatorSpec, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nominal", "usd":
		return Nominal(), nil
	case "real":
		return Real(), nil
	}
	asset, err := ParseAssetRef(s)
	if err != nil {
		return DenominatorSpec{}, err
	}
	return RatioTo(asset), nil
}
