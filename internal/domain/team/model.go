package team

import "fmt"

// Team is a club inside a competition. NormalizedName is the team name with
// club suffixes stripped, used to match provider team names.
type Team struct {
	ID             string
	CompetitionID  string
	Name           string
	Short          string
	NormalizedName string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.CompetitionID == "" {
		return fmt.Errorf("team competition id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
