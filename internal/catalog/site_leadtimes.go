package catalog

import (
	"fmt"
	"strings"
)

// Generic lead-time keys whose value depends on the site profile.
const (
	KeyTransformer = "transformer"
	KeySIS         = "sis"
)

// VoltageForMW estimates the interconnection voltage (kV) for a load size.
func VoltageForMW(mw int) int {
	switch {
	case mw >= 500:
		return 345
	case mw >= 200:
		return 230
	case mw >= 100:
		return 138
	default:
		return 69
	}
}

// TransformerKey returns the voltage-specific transformer lead-time key.
func TransformerKey(voltageKV int) string {
	switch {
	case voltageKV >= 500:
		return "transformer_500kv"
	case voltageKV >= 345:
		return "transformer_345kv"
	case voltageKV >= 230:
		return "transformer_230kv"
	case voltageKV >= 138:
		return "transformer_138kv"
	default:
		return "transformer_69kv"
	}
}

// SISKey returns the ISO-specific system impact study key, e.g. "sis_pjm".
func SISKey(iso string) string {
	iso = strings.ToLower(strings.TrimSpace(iso))
	if iso == "" {
		return KeySIS
	}
	return fmt.Sprintf("%s_%s", KeySIS, iso)
}

// SiteLeadTimes returns typical lead times for the generic keys adjusted to
// the site's voltage and ISO. Keys whose site-specific variant is not in the
// table are omitted so the template default applies.
func (c *Catalog) SiteLeadTimes(voltageKV int, iso string) map[string]int {
	out := make(map[string]int, 2)
	if voltageKV > 0 {
		if lt, ok := c.leadTimes[TransformerKey(voltageKV)]; ok {
			out[KeyTransformer] = lt.Typical
		}
	}
	if key := SISKey(iso); key != KeySIS {
		if lt, ok := c.leadTimes[key]; ok {
			out[KeySIS] = lt.Typical
		}
	}
	return out
}
