package param

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.SetAliasTag("json")
	decoder.IgnoreUnknownKeys(true)

	govalidator.TagMap["address"] = govalidator.Validator(common.IsHexAddress)
	govalidator.TagMap["amount"] = govalidator.Validator(func(str string) bool {
		d, err := decimal.NewFromString(str)
		return err == nil && !d.IsNegative() && d.Equal(d.Truncate(0))
	})
}

// Binding decode query values for GET and the json body otherwise, then validate the valid tags
func Binding(r *http.Request, v interface{}) error {
	if r.Method == http.MethodGet {
		if err := decoder.Decode(v, r.URL.Query()); err != nil {
			return err
		}
	} else if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			return err
		}
	}

	if _, err := govalidator.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}

// ErrInvalidAddress not a hex address
var ErrInvalidAddress = errors.New("invalid address")

// Address parse a hex address, empty gives the zero address
func Address(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return common.Address{}, nil
	}

	if !common.IsHexAddress(s) {
		return common.Address{}, ErrInvalidAddress
	}

	return common.HexToAddress(s), nil
}

// Amount parse an integer amount, empty gives zero
func Amount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	return decimal.NewFromString(s)
}
