package metrics

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/procolombia/territory-profile/internal/frame"
	"github.com/procolombia/territory-profile/internal/territory"
)

// PDETLabel describes PDET membership from the sub-region column.
func PDETLabel(r frame.Row) (string, error) {
	sub, err := r.String(territory.ColPDETSubregion)
	if err != nil {
		return "", err
	}
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return "No es territorio PDET", nil
	}
	return "Es territorio PDET - Subregión " + cases.Title(language.Spanish).String(sub), nil
}

// ZOMACLabel describes ZOMAC membership; the flag is 1 for members.
func ZOMACLabel(r frame.Row) (string, error) {
	if r.IsNull(territory.ColZOMAC) {
		if _, err := r.Value(territory.ColZOMAC); err != nil {
			return "", err
		}
		return "No es territorio ZOMAC", nil
	}
	flag, err := r.Int(territory.ColZOMAC)
	if err != nil {
		return "", err
	}
	if flag == 1 {
		return "Es territorio ZOMAC", nil
	}
	return "No es territorio ZOMAC", nil
}
