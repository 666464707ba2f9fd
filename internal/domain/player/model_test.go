package player

import (
	"testing"

	"github.com/riskibarqy/scout-core/internal/domain/provider"
)

func TestCanonicalPlayer_Validate(t *testing.T) {
	valid := CanonicalPlayer{
		ID:             "pl-1",
		DisplayName:    "Steven Bergwijn",
		NormalizedName: "steven bergwijn",
		BirthDate:      "1997-10-08",
		PositionGroup:  PositionGroupAttacker,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid player, got %v", err)
	}

	bad := valid
	bad.BirthDate = "08/10/1997"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected birth date error")
	}

	bad = valid
	bad.PositionGroup = "WING"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected position group error")
	}
}

func TestCanonicalPlayer_CloneIsDeep(t *testing.T) {
	h := 183.0
	p := CanonicalPlayer{
		HeightCm:     &h,
		FieldSources: map[Field]provider.Provider{FieldHeightCm: provider.SofaScore},
	}
	c := p.Clone()
	*c.HeightCm = 170
	c.FieldSources[FieldHeightCm] = provider.FotMob

	if *p.HeightCm != 183 {
		t.Fatalf("clone shares height pointer")
	}
	if p.SourceOf(FieldHeightCm) != provider.SofaScore {
		t.Fatalf("clone shares field source map")
	}
}

func TestParsePositionGroup(t *testing.T) {
	if g, ok := ParsePositionGroup(" fwd "); !ok || g != PositionGroupAttacker {
		t.Fatalf("expected FWD to map to ATT, got %s %v", g, ok)
	}
	if _, ok := ParsePositionGroup("striker"); ok {
		t.Fatalf("expected unknown group")
	}
}
