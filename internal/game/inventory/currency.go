package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/minidnd/internal/game/rules"
)

// Denomination names one of the five coin types.
type Denomination string

const (
	Copper   Denomination = "copper"
	Silver   Denomination = "silver"
	Electrum Denomination = "ep"
	Gold     Denomination = "gold"
	Platinum Denomination = "pp"
)

// ErrUnknownDenomination is returned for denominations outside the five coin types.
var ErrUnknownDenomination = errors.New("unknown denomination")

// copperValues is the exchange table: 1 pp = 10 gp = 20 ep = 100 sp = 1000 cp.
var copperValues = map[Denomination]int{
	Copper:   1,
	Silver:   10,
	Electrum: 50,
	Gold:     100,
	Platinum: 1000,
}

// Denominations lists every coin type from most to least valuable.
var Denominations = []Denomination{Platinum, Gold, Electrum, Silver, Copper}

// CopperValue returns how many copper pieces one coin of d is worth.
func (d Denomination) CopperValue() (int, error) {
	v, ok := copperValues[d]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDenomination, string(d))
	}
	return v, nil
}

// ParseDenomination accepts the canonical names plus the usual abbreviations.
func ParseDenomination(s string) (Denomination, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "copper", "cp":
		return Copper, nil
	case "silver", "sp":
		return Silver, nil
	case "ep", "electrum":
		return Electrum, nil
	case "gold", "gp":
		return Gold, nil
	case "pp", "platinum":
		return Platinum, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDenomination, s)
}

// Coins is a purse holding all five denominations.
type Coins struct {
	Gold     int `json:"gold" yaml:"gold"`
	Silver   int `json:"silver" yaml:"silver"`
	Copper   int `json:"copper" yaml:"copper"`
	Electrum int `json:"ep" yaml:"ep"`
	Platinum int `json:"pp" yaml:"pp"`
}

// DefaultCoins returns the starting purse: 10 gold, 50 silver, 100 copper.
func DefaultCoins() Coins {
	return Coins{Gold: 10, Silver: 50, Copper: 100}
}

// CopperValue normalizes the purse to its copper-equivalent total.
//
// Postcondition: Returns gold*100 + silver*10 + copper + ep*50 + pp*1000.
func (c Coins) CopperValue() int {
	return c.Gold*copperValues[Gold] +
		c.Silver*copperValues[Silver] +
		c.Copper +
		c.Electrum*copperValues[Electrum] +
		c.Platinum*copperValues[Platinum]
}

// ToDenomination re-expresses the purse as whole coins of target plus a copper remainder.
//
// Postcondition: whole*value(target) + remainder == c.CopperValue(); 0 <= remainder < value(target).
// Returns rules.ErrNegativePurse when the copper total is negative.
func ToDenomination(c Coins, target Denomination) (whole, remainder int, err error) {
	value, err := target.CopperValue()
	if err != nil {
		return 0, 0, err
	}
	total := c.CopperValue()
	if total < 0 {
		return 0, 0, fmt.Errorf("%w: %d copper", rules.ErrNegativePurse, total)
	}
	whole = total / value
	return whole, total - value*whole, nil
}

// Decompose breaks a non-negative copper total into the fewest coins, richest first.
//
// Precondition: total >= 0.
// Postcondition: the returned purse's CopperValue() == total.
func Decompose(total int) Coins {
	var c Coins
	for _, d := range Denominations {
		v := copperValues[d]
		n := total / v
		total -= n * v
		switch d {
		case Platinum:
			c.Platinum = n
		case Gold:
			c.Gold = n
		case Electrum:
			c.Electrum = n
		case Silver:
			c.Silver = n
		case Copper:
			c.Copper = n
		}
	}
	return c
}

// FormatCoins returns a human-readable purse such as "1 pp, 10 gp, 5 cp",
// omitting empty denominations.
func FormatCoins(c Coins) string {
	amounts := []struct {
		n     int
		label string
	}{
		{c.Platinum, "pp"},
		{c.Gold, "gp"},
		{c.Electrum, "ep"},
		{c.Silver, "sp"},
		{c.Copper, "cp"},
	}
	var parts []string
	for _, a := range amounts {
		if a.n != 0 {
			parts = append(parts, fmt.Sprintf("%d %s", a.n, a.label))
		}
	}
	if len(parts) == 0 {
		return "0 cp"
	}
	return strings.Join(parts, ", ")
}
