package competition

import (
	"fmt"
	"strings"
)

// MaxTier is the weakest competition tier. Tier 0 means untiered.
const MaxTier = 6

// Competition is a league or cup whose players are rated together.
type Competition struct {
	ID          string
	Name        string
	CountryCode string
	Tier        int
}

func (c Competition) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("competition id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("competition name is required")
	}
	if c.Tier < 0 || c.Tier > MaxTier {
		return fmt.Errorf("competition tier must be within [0,%d], got %d", MaxTier, c.Tier)
	}

	return nil
}
