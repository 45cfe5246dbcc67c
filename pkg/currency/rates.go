// Package currency holds the CAD-based exchange rate table used to quote
// vehicle prices in buyer currencies, and converts amounts between any two
// currencies by way of CAD.
package currency

import "github.com/iwvelando/broker-engine/pkg/constants"

// Rate describes one currency relative to the base currency.
type Rate struct {
	Code   string `json:"code" yaml:"code"`
	Name   string `json:"name" yaml:"name"`
	Symbol string `json:"symbol" yaml:"symbol"`

	// RateFromBase is the number of units of this currency per one CAD.
	RateFromBase float64 `json:"rateFromBase" yaml:"rateFromBase"`
}

// Base is the currency all rates are expressed against.
const Base = constants.BaseCurrency

var defaultRates = []Rate{
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "$", RateFromBase: 1.0},
	{Code: "XOF", Name: "West African CFA Franc", Symbol: "CFA", RateFromBase: 400.0},
	{Code: "XAF", Name: "Central African CFA Franc", Symbol: "FCFA", RateFromBase: 400.0},
	{Code: "NGN", Name: "Nigerian Naira", Symbol: "₦", RateFromBase: 620.0},
	{Code: "GHS", Name: "Ghanaian Cedi", Symbol: "GH₵", RateFromBase: 8.2},
	{Code: "KES", Name: "Kenyan Shilling", Symbol: "KSh", RateFromBase: 93.0},
	{Code: "ZAR", Name: "South African Rand", Symbol: "R", RateFromBase: 13.5},
	{Code: "TZS", Name: "Tanzanian Shilling", Symbol: "TSh", RateFromBase: 1850.0},
	{Code: "UGX", Name: "Ugandan Shilling", Symbol: "USh", RateFromBase: 2750.0},
	{Code: "RWF", Name: "Rwandan Franc", Symbol: "FRw", RateFromBase: 935.0},
	{Code: "ETB", Name: "Ethiopian Birr", Symbol: "Br", RateFromBase: 80.0},
	{Code: "EGP", Name: "Egyptian Pound", Symbol: "E£", RateFromBase: 36.0},
	{Code: "MAD", Name: "Moroccan Dirham", Symbol: "DH", RateFromBase: 7.2},
	{Code: "TND", Name: "Tunisian Dinar", Symbol: "DT", RateFromBase: 2.3},
	{Code: "DZD", Name: "Algerian Dinar", Symbol: "DA", RateFromBase: 99.0},
	{Code: "BWP", Name: "Botswana Pula", Symbol: "P", RateFromBase: 9.9},
	{Code: "ZMW", Name: "Zambian Kwacha", Symbol: "ZK", RateFromBase: 19.5},
	{Code: "MZN", Name: "Mozambican Metical", Symbol: "MT", RateFromBase: 47.0},
	{Code: "AOA", Name: "Angolan Kwanza", Symbol: "Kz", RateFromBase: 620.0},
	{Code: "CDF", Name: "Congolese Franc", Symbol: "FC", RateFromBase: 2050.0},
	{Code: "USD", Name: "US Dollar", Symbol: "US$", RateFromBase: 0.73},
	{Code: "EUR", Name: "Euro", Symbol: "€", RateFromBase: 0.67},
	{Code: "GBP", Name: "British Pound", Symbol: "£", RateFromBase: 0.57},
}
