package money

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Amount is a transaction amount in minor units as carried in request payloads.
//
// A JSON number is taken as minor units and must be an integer. A JSON string is
// taken as a decimal amount in major units and converted with ParseMinorUnits,
// so {"amount": 10500} and {"amount": "10.50"} are equivalent.
type Amount int64

// Minor returns the amount in minor units.
func (a Amount) Minor() int64 { return int64(a) }

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		minor, err := ParseMinorUnits(s)
		if err != nil {
			return err
		}
		*a = Amount(minor)
		return nil
	}
	minor, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("amount must be an integer number of minor units or a decimal string")
	}
	*a = Amount(minor)
	return nil
}

// MarshalJSON implements json.Marshaler. Amounts are always written as minor units.
func (a Amount) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(a), 10), nil
}
