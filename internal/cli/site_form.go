package cli

import (
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/critpath/internal/catalog"
	"github.com/alexanderramin/critpath/internal/cli/formatter"
	"github.com/alexanderramin/critpath/internal/contract"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func critpathHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// siteFormInput holds the raw form values. Flags given on the command line
// pre-fill it.
type siteFormInput struct {
	Name   string
	MW     string
	ISO    string
	Start  string
	Target string
	BTM    bool
}

// isoOptions lists the ISOs with a study lead time in the catalog.
func isoOptions(cat *catalog.Catalog) []string {
	prefix := catalog.KeySIS + "_"
	var out []string
	for key := range cat.LeadTimes() {
		if iso, ok := strings.CutPrefix(key, prefix); ok {
			out = append(out, strings.ToUpper(iso))
		}
	}
	sort.Strings(out)
	return out
}

func siteForm(cat *catalog.Catalog, in *siteFormInput) *huh.Form {
	options := huh.NewOptions(isoOptions(cat)...)
	if in.ISO == "" {
		in.ISO = "SPP"
	}
	in.ISO = strings.ToUpper(in.ISO)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Site name").
				Value(&in.Name).
				Validate(huh.ValidateNotEmpty()),
			huh.NewInput().
				Title("Target load (MW)").
				Placeholder("300").
				Value(&in.MW).
				Validate(validatePositiveInt),
			huh.NewSelect[string]().
				Title("ISO / RTO").
				Options(options...).
				Value(&in.ISO),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Project start (YYYY-MM-DD, blank for today)").
				Value(&in.Start).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Target energization (YYYY-MM-DD, blank for none)").
				Value(&in.Target).
				Validate(validateOptionalDate),
			huh.NewConfirm().
				Title("Include behind-the-meter generation?").
				Affirmative("Yes").
				Negative("No").
				Value(&in.BTM),
		),
	).WithTheme(critpathHuhTheme()).WithShowHelp(false)
}

// toRequest converts validated form values into a create request.
func (in siteFormInput) toRequest() (contract.CreateSiteRequest, error) {
	req := contract.CreateSiteRequest{
		Name:       strings.TrimSpace(in.Name),
		ISO:        in.ISO,
		IncludeBTM: in.BTM,
	}
	if in.MW != "" {
		mw, err := strconv.Atoi(in.MW)
		if err != nil {
			return req, err
		}
		req.TargetMW = mw
	}
	var err error
	if req.ProjectStart, err = parseOptionalDate("start", in.Start); err != nil {
		return req, err
	}
	if req.TargetEnergization, err = parseOptionalDate("target", in.Target); err != nil {
		return req, err
	}
	return req, nil
}

var runSiteForm = func(cat *catalog.Catalog, in siteFormInput) (contract.CreateSiteRequest, error) {
	if err := siteForm(cat, &in).Run(); err != nil {
		return contract.CreateSiteRequest{}, err
	}
	return in.toRequest()
}
