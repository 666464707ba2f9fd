package providers

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/scout-core/internal/domain/player"
	"github.com/riskibarqy/scout-core/internal/domain/profile"
	"github.com/riskibarqy/scout-core/internal/domain/provider"
)

var (
	ErrEmptyPayload       = crerr.New("provider payload is empty")
	ErrUnsupportedPayload = crerr.New("provider payload is not supported")
)

// Profile is a decoded provider player payload. The concrete types are
// APIFootballProfile, FotMobProfile and SofaScoreProfile; only Normalize output
// ever reaches the merge engine.
type Profile interface {
	Provider() provider.Provider
	NativeID() string
	Normalize() profile.NormalizedProfile
	sealed()
}

// Decoder adapts Decode to callers that only need the normalized profile.
type Decoder struct{}

func (Decoder) DecodeProfile(p provider.Provider, raw []byte) (profile.NormalizedProfile, error) {
	decoded, err := Decode(p, raw)
	if err != nil {
		return profile.NormalizedProfile{}, err
	}
	return decoded.Normalize(), nil
}

// Decode parses raw as the payload shape of p.
func Decode(p provider.Provider, raw []byte) (Profile, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, ErrEmptyPayload
	}

	switch p {
	case provider.APIFootball:
		var out APIFootballProfile
		if err := sonic.Unmarshal(raw, &out); err != nil {
			return nil, crerr.Wrapf(err, "decode %s payload", p)
		}
		return out, nil
	case provider.FotMob:
		var out FotMobProfile
		if err := sonic.Unmarshal(raw, &out); err != nil {
			return nil, crerr.Wrapf(err, "decode %s payload", p)
		}
		return out, nil
	case provider.SofaScore:
		var out SofaScoreProfile
		if err := sonic.Unmarshal(raw, &out); err != nil {
			return nil, crerr.Wrapf(err, "decode %s payload", p)
		}
		return out, nil
	default:
		return nil, crerr.Wrapf(ErrUnsupportedPayload, "provider=%s", p)
	}
}

var measureRegex = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// parseMeasure reads the first number in values like "183 cm" or "76kg".
func parseMeasure(raw string) *float64 {
	match := measureRegex.FindString(strings.TrimSpace(raw))
	if match == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", "."), 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

func positiveFloat(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}

// normalizeBirthDate accepts a plain date or an RFC 3339 timestamp.
func normalizeBirthDate(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	if t, err := time.Parse(player.BirthDateLayout, value); err == nil {
		return t.Format(player.BirthDateLayout)
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC().Format(player.BirthDateLayout)
	}
	if len(value) >= 10 {
		if t, err := time.Parse(player.BirthDateLayout, value[:10]); err == nil {
			return t.Format(player.BirthDateLayout)
		}
	}
	return ""
}

func normalizeFoot(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "left", "l":
		return "left"
	case "right", "r":
		return "right"
	case "both", "either", "two-footed":
		return "both"
	default:
		return ""
	}
}

func positionGroupFromLabel(value string) player.PositionGroup {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "g", "gk", "goalkeeper", "keeper", "goalie":
		return player.PositionGroupGoalkeeper
	case "d", "def", "defender", "centre-back", "center-back", "centre back", "center back",
		"full-back", "left back", "right back", "wing-back", "left wing-back", "right wing-back":
		return player.PositionGroupDefender
	case "m", "mid", "midfielder", "defensive midfielder", "central midfielder",
		"attacking midfielder", "left midfielder", "right midfielder":
		return player.PositionGroupMidfielder
	case "f", "fwd", "att", "forward", "attacker", "striker", "centre forward", "center forward",
		"winger", "left winger", "right winger", "second striker":
		return player.PositionGroupAttacker
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if strings.TrimSpace(item) != "" {
			return strings.TrimSpace(item)
		}
	}
	return ""
}
