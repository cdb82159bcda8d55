package currency

import (
	"fmt"
	"strings"
)

// Currency describes one ISO-4217 entry.
type Currency struct {
	Code     string
	Name     string
	Exponent int // number of minor-unit digits
}

// table holds the supported ISO-4217 currencies. Exponents follow the
// ISO-4217 minor-unit column: most currencies use 2, a handful use 0 or 3.
var table = map[string]Currency{
	"AED": {"AED", "UAE Dirham", 2},
	"ARS": {"ARS", "Argentine Peso", 2},
	"AUD": {"AUD", "Australian Dollar", 2},
	"BGN": {"BGN", "Bulgarian Lev", 2},
	"BHD": {"BHD", "Bahraini Dinar", 3},
	"BRL": {"BRL", "Brazilian Real", 2},
	"CAD": {"CAD", "Canadian Dollar", 2},
	"CHF": {"CHF", "Swiss Franc", 2},
	"CLP": {"CLP", "Chilean Peso", 0},
	"CNY": {"CNY", "Yuan Renminbi", 2},
	"COP": {"COP", "Colombian Peso", 2},
	"CZK": {"CZK", "Czech Koruna", 2},
	"DKK": {"DKK", "Danish Krone", 2},
	"EGP": {"EGP", "Egyptian Pound", 2},
	"EUR": {"EUR", "Euro", 2},
	"GBP": {"GBP", "Pound Sterling", 2},
	"GEL": {"GEL", "Lari", 2},
	"HKD": {"HKD", "Hong Kong Dollar", 2},
	"HUF": {"HUF", "Forint", 2},
	"IDR": {"IDR", "Rupiah", 2},
	"ILS": {"ILS", "New Israeli Sheqel", 2},
	"INR": {"INR", "Indian Rupee", 2},
	"IQD": {"IQD", "Iraqi Dinar", 3},
	"ISK": {"ISK", "Iceland Krona", 0},
	"JOD": {"JOD", "Jordanian Dinar", 3},
	"JPY": {"JPY", "Yen", 0},
	"KES": {"KES", "Kenyan Shilling", 2},
	"KRW": {"KRW", "Won", 0},
	"KWD": {"KWD", "Kuwaiti Dinar", 3},
	"LKR": {"LKR", "Sri Lanka Rupee", 2},
	"MAD": {"MAD", "Moroccan Dirham", 2},
	"MXN": {"MXN", "Mexican Peso", 2},
	"MYR": {"MYR", "Malaysian Ringgit", 2},
	"NGN": {"NGN", "Naira", 2},
	"NOK": {"NOK", "Norwegian Krone", 2},
	"NZD": {"NZD", "New Zealand Dollar", 2},
	"OMR": {"OMR", "Rial Omani", 3},
	"PEN": {"PEN", "Sol", 2},
	"PHP": {"PHP", "Philippine Peso", 2},
	"PKR": {"PKR", "Pakistan Rupee", 2},
	"PLN": {"PLN", "Zloty", 2},
	"QAR": {"QAR", "Qatari Rial", 2},
	"RON": {"RON", "Romanian Leu", 2},
	"RSD": {"RSD", "Serbian Dinar", 2},
	"SAR": {"SAR", "Saudi Riyal", 2},
	"SEK": {"SEK", "Swedish Krona", 2},
	"SGD": {"SGD", "Singapore Dollar", 2},
	"THB": {"THB", "Baht", 2},
	"TND": {"TND", "Tunisian Dinar", 3},
	"TRY": {"TRY", "Turkish Lira", 2},
	"TWD": {"TWD", "New Taiwan Dollar", 2},
	"UAH": {"UAH", "Hryvnia", 2},
	"USD": {"USD", "US Dollar", 2},
	"VND": {"VND", "Dong", 0},
	"ZAR": {"ZAR", "Rand", 2},
}

// Lookup resolves a currency by its ISO-4217 alphabetic code.
// The code comparison is case-insensitive.
func Lookup(code string) (Currency, error) {
	c, ok := table[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Currency{}, fmt.Errorf("unknown currency code %q", code)
	}
	return c, nil
}

// IsSupported reports whether a currency code is in the ISO-4217 table.
func IsSupported(code string) bool {
	_, err := Lookup(code)
	return err == nil
}

// Codes returns all supported currency codes, unordered.
func Codes() []string {
	codes := make([]string, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	return codes
}
