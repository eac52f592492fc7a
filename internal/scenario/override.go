package scenario

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/critpath/internal/domain"
)

// ApplyOverride applies a single override to data in place. A rejected
// override returns a *domain.ValidationError or *domain.LookupError and
// leaves data unchanged.
func ApplyOverride(data *domain.CriticalPathData, o domain.Override) error {
	switch {
	case o.ConfigKey != "" && o.MilestoneID != "":
		return &domain.ValidationError{Field: o.Target(), Value: o.Value, Message: "override must target either a milestone or a config key"}
	case o.ConfigKey != "":
		return applyConfig(&data.Config, o.ConfigKey, o.Value)
	case o.MilestoneID != "":
		inst, ok := data.Milestones[o.MilestoneID]
		if !ok || inst == nil {
			return &domain.LookupError{Kind: "milestone", ID: o.MilestoneID}
		}
		return applyMilestone(inst, o)
	default:
		return &domain.ValidationError{Field: "override", Value: o.Value, Message: "override has no target"}
	}
}

func applyMilestone(inst *domain.MilestoneInstance, o domain.Override) error {
	field := o.Target()
	switch o.Field {
	case domain.FieldDurationOverride:
		if o.Value == nil {
			inst.DurationOverride = nil
			return nil
		}
		weeks, err := domain.NonNegativeInt(field, o.Value)
		if err != nil {
			return err
		}
		inst.DurationOverride = &weeks
	case domain.FieldStatus:
		s, ok := o.Value.(domain.MilestoneStatus)
		if !ok {
			str, isStr := o.Value.(string)
			if !isStr {
				return &domain.ValidationError{Field: field, Value: o.Value, Message: "status must be a string"}
			}
			s, ok = domain.ParseStatus(str)
		}
		if !ok || !domain.ValidStatuses[s] {
			return &domain.ValidationError{Field: field, Value: o.Value, Message: "unknown status"}
		}
		inst.Status = s
	case domain.FieldActive:
		b, err := asBool(field, o.Value)
		if err != nil {
			return err
		}
		inst.Active = b
	case domain.FieldOwnerOverride:
		if o.Value == nil {
			inst.OwnerOverride = nil
			return nil
		}
		owner, err := asOwner(field, o.Value)
		if err != nil {
			return err
		}
		inst.OwnerOverride = &owner
	default:
		return &domain.ValidationError{Field: field, Value: o.Value, Message: "unknown milestone field"}
	}
	return nil
}

func applyConfig(cfg *domain.CriticalPathConfig, key string, v any) error {
	field := "config." + key
	switch {
	case key == domain.ConfigProjectStart:
		t, err := asOptionalDate(field, v)
		if err != nil {
			return err
		}
		cfg.ProjectStart = t
	case key == domain.ConfigTargetEnergization:
		t, err := asOptionalDate(field, v)
		if err != nil {
			return err
		}
		cfg.TargetEnergization = t
	case key == domain.ConfigTargetMW:
		n, err := domain.NonNegativeInt(field, v)
		if err != nil {
			return err
		}
		cfg.TargetMW = n
	case key == domain.ConfigVoltageKV:
		n, err := domain.NonNegativeInt(field, v)
		if err != nil {
			return err
		}
		cfg.VoltageKV = n
	case key == domain.ConfigISO:
		s, ok := v.(string)
		if !ok {
			return &domain.ValidationError{Field: field, Value: v, Message: "must be a string"}
		}
		cfg.ISO = strings.ToUpper(strings.TrimSpace(s))
	case key == domain.ConfigIncludeBTM:
		b, err := asBool(field, v)
		if err != nil {
			return err
		}
		cfg.IncludeBTM = b
	case strings.HasPrefix(key, domain.ConfigLeadTimePrefix):
		leadKey := strings.TrimPrefix(key, domain.ConfigLeadTimePrefix)
		if leadKey == "" {
			return &domain.ValidationError{Field: field, Value: v, Message: "missing lead time key"}
		}
		if v == nil {
			delete(cfg.LeadTimeOverrides, leadKey)
			return nil
		}
		weeks, err := domain.NonNegativeInt(field, v)
		if err != nil {
			return err
		}
		if cfg.LeadTimeOverrides == nil {
			cfg.LeadTimeOverrides = map[string]int{}
		}
		cfg.LeadTimeOverrides[leadKey] = weeks
	default:
		return &domain.ValidationError{Field: field, Value: v, Message: "unknown config key"}
	}
	return nil
}

func asBool(field string, v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err == nil {
			return b, nil
		}
	}
	return false, &domain.ValidationError{Field: field, Value: v, Message: "must be a boolean"}
}

func asOwner(field string, v any) (domain.Owner, error) {
	var owner domain.Owner
	switch t := v.(type) {
	case domain.Owner:
		owner = t
	case string:
		owner = domain.Owner(strings.TrimSpace(t))
	}
	if !domain.ValidOwners[owner] {
		return "", &domain.ValidationError{Field: field, Value: v, Message: "unknown owner"}
	}
	return owner, nil
}

func asOptionalDate(field string, v any) (*time.Time, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		d := domain.CivilDate(t)
		return &d, nil
	case *time.Time:
		if t == nil {
			return nil, nil
		}
		d := domain.CivilDate(*t)
		return &d, nil
	case string:
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(t))
		if err != nil {
			return nil, &domain.ValidationError{Field: field, Value: v, Message: fmt.Sprintf("invalid date %q (expected YYYY-MM-DD)", t)}
		}
		return &parsed, nil
	}
	return nil, &domain.ValidationError{Field: field, Value: v, Message: "must be a date"}
}
