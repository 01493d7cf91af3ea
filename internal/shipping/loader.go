package shipping

import (
	"fmt"

	"github.com/dukerupert/tradedesk/internal/tax"
	"github.com/spf13/viper"
)

// LoadRateTable reads a rate table file (YAML, JSON or TOML, by extension).
//
// Example YAML:
//
//	countries:
//	  IE:
//	    - cost: "12.50"
//	    - min_subtotal: "500"
//	      cost: "0"
//	regions:
//	  domestic:
//	    - cost: "8.95"
//	  eu:
//	    - cost: "25"
func LoadRateTable(path string, rules *tax.Rules) (*RateTable, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read shipping rates %s: %w", path, err)
	}

	var cfg RateTableConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode shipping rates %s: %w", path, err)
	}

	table, err := NewRateTable(rules, cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid shipping rates %s: %w", path, err)
	}
	return table, nil
}
