package types

import (
	"github.com/shopspring/decimal"
)

// Trade is one simulated purchase.
type Trade struct {
	Week           int             `yaml:"week" csv:"week"`
	Company        string          `yaml:"company" csv:"company"`
	Symbol         string          `yaml:"symbol" csv:"symbol"`
	Price          decimal.Decimal `yaml:"price" csv:"price"`
	SharesBought   decimal.Decimal `yaml:"shares_bought" csv:"shares_bought"`
	AmountInvested decimal.Decimal `yaml:"amount_invested" csv:"amount_invested"`
}
