package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/spf13/pflag"
)

var fieldAliases = map[string]domain.OverrideField{
	"duration":          domain.FieldDurationOverride,
	"duration_override": domain.FieldDurationOverride,
	"weeks":             domain.FieldDurationOverride,
	"status":            domain.FieldStatus,
	"active":            domain.FieldActive,
	"is_active":         domain.FieldActive,
	"owner":             domain.FieldOwnerOverride,
	"owner_override":    domain.FieldOwnerOverride,
}

// parseOverride reads MILESTONE.field=value or config.key=value. The values
// "none" and "null" clear the target.
func parseOverride(s string) (domain.Override, error) {
	target, raw, ok := strings.Cut(s, "=")
	if !ok {
		return domain.Override{}, fmt.Errorf("override %q: expected TARGET=VALUE", s)
	}
	head, field, ok := strings.Cut(strings.TrimSpace(target), ".")
	if !ok || head == "" || field == "" {
		return domain.Override{}, fmt.Errorf("override %q: expected MILESTONE.field or config.key", s)
	}

	var value any = strings.TrimSpace(raw)
	switch strings.ToLower(value.(string)) {
	case "none", "null":
		value = nil
	}

	if strings.EqualFold(head, "config") {
		return domain.Override{ConfigKey: strings.ToLower(field), Value: value}, nil
	}
	f, ok := fieldAliases[strings.ToLower(field)]
	if !ok {
		return domain.Override{}, fmt.Errorf("override %q: unknown field %q", s, field)
	}
	return domain.Override{MilestoneID: strings.ToUpper(head), Field: f, Value: value}, nil
}

// overrideList is a repeatable --override flag.
type overrideList []domain.Override

var _ pflag.Value = (*overrideList)(nil)

func (l *overrideList) String() string {
	parts := make([]string, len(*l))
	for i, o := range *l {
		parts[i] = fmt.Sprintf("%s=%v", o.Target(), o.Value)
	}
	return strings.Join(parts, ",")
}

func (l *overrideList) Set(s string) error {
	o, err := parseOverride(s)
	if err != nil {
		return err
	}
	*l = append(*l, o)
	return nil
}

func (l *overrideList) Type() string { return "override" }
