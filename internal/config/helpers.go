package config

import (
	"strings"

	"github.com/emsqi/spc/internal/analytics/spc"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// Enabled reports whether results should be cached at all
func (c *CacheConfig) Enabled() bool {
	t := strings.ToLower(c.Type)
	return t != "" && t != "none"
}

// Rules returns the special-cause rule battery described by the configuration
func (c *SPCConfig) Rules() []spc.Rule {
	rules := []spc.Rule{
		spc.BeyondLimitsRule{},
		spc.RunRule{Length: c.RunLength},
	}
	if c.TrendLength > 0 {
		rules = append(rules, spc.TrendRule{Length: c.TrendLength})
	}
	return rules
}
