package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/riskibarqy/scout-core/internal/domain/provider"
)

func TestProviderRecordValidate(t *testing.T) {
	valid := ProviderRecord{Provider: provider.FotMob, ProviderPlayerID: "123", Name: "Steven Bergwijn", BirthDate: "1997-10-08"}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*ProviderRecord)
	}{
		{"unknown provider", func(r *ProviderRecord) { r.Provider = "transfermarkt" }},
		{"missing id", func(r *ProviderRecord) { r.ProviderPlayerID = " " }},
		{"missing name", func(r *ProviderRecord) { r.Name = "" }},
		{"bad birth date", func(r *ProviderRecord) { r.BirthDate = "08/10/1997" }},
	}
	for _, tc := range cases {
		record := valid
		tc.mutate(&record)
		assert.Error(t, record.Validate(), tc.name)
	}
}

func TestResultNeedsReview(t *testing.T) {
	assert.False(t, Result{Outcome: OutcomeMatched}.NeedsReview())
	assert.False(t, Result{Outcome: OutcomeNew, Reason: ReasonNoCandidates}.NeedsReview())
	assert.True(t, Result{Outcome: OutcomeNew, Candidates: []ScoredCandidate{{PlayerID: "pl-1"}}}.NeedsReview())
	assert.True(t, Result{Outcome: OutcomeAmbiguous}.NeedsReview())
}

func TestLinkValidate(t *testing.T) {
	link := Link{Provider: provider.SofaScore, ProviderPlayerID: "9", PlayerID: "pl-1", Confidence: 1}
	assert.NoError(t, link.Validate())

	link.Confidence = 1.2
	assert.Error(t, link.Validate())
}
