package provider

import (
	"fmt"
	"strings"
)

// Provider names an external data source with its own native identifiers.
type Provider string

const (
	APIFootball Provider = "api_football"
	FotMob      Provider = "fotmob"
	SofaScore   Provider = "sofascore"
)

var Known = map[Provider]struct{}{
	APIFootball: {},
	FotMob:      {},
	SofaScore:   {},
}

// Parse accepts the canonical names plus a few spellings seen in job payloads.
func Parse(raw string) (Provider, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.NewReplacer("-", "_", " ", "_").Replace(value)
	switch value {
	case "api_football", "apifootball":
		return APIFootball, nil
	case "fotmob", "fot_mob":
		return FotMob, nil
	case "sofascore", "sofa_score":
		return SofaScore, nil
	default:
		return "", fmt.Errorf("unknown provider %q", raw)
	}
}

func (p Provider) Validate() error {
	if _, ok := Known[p]; !ok {
		return fmt.Errorf("unknown provider %q", string(p))
	}
	return nil
}

func (p Provider) String() string {
	return string(p)
}
