package normalize

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
)

// NormalizeInjuryFeed maps the league injuries feed (injuries[] per team,
// each with nested injuries[] of athlete + status) into injury rows.
// Entries without a usable date are stamped with asof.
func (n *Normalizer) NormalizeInjuryFeed(payload any, source string, asof time.Time) ([]models.InjuryRow, error) {
	m := asMap(payload)
	teams, ok := m["injuries"].([]any)
	if !ok {
		return nil, errors.Wrap(ErrUnknownShape, "injury feed")
	}

	var out []models.InjuryRow
	for _, t := range teams {
		tm := asMap(t)
		teamAbbr := firstNonBlank(
			StringOf(tm["abbreviation"]),
			StringOf(dig(tm, "team", "abbreviation")),
		)

		for _, inj := range asSlice(tm["injuries"]) {
			im := asMap(inj)
			athlete := asMap(im["athlete"])

			raw := StringOf(n.rules.Value(im, FieldStatus))
			if raw == "" {
				raw = StringOf(dig(im, "type", "description"))
			}

			row := models.InjuryRow{
				PlayerID:   StringOf(n.rules.Value(athlete, FieldPlayerID)),
				PlayerName: StringOf(n.rules.Value(athlete, FieldPlayerName)),
				Team: firstNonBlank(
					StringOf(dig(athlete, "team", "abbreviation")),
					teamAbbr,
					StringOf(tm["displayName"]),
				),
				Status:    NormalizeInjuryStatus(raw),
				StatusRaw: raw,
				Detail:    injuryDetail(im),
				Source:    source,
				AsOf:      ParseAsOf(n.rules.Value(im, FieldAsOf)),
			}
			if !row.AsOf.Valid {
				row.AsOf = models.Time(asof)
			}
			if row.PlayerID == "" && row.PlayerName == "" {
				continue
			}
			out = append(out, row)
		}
	}
	return out, nil
}

func injuryDetail(im map[string]any) string {
	if d := asMap(im["details"]); d != nil {
		return firstNonBlank(StringOf(d["detail"]), StringOf(d["type"]), StringOf(im["shortComment"]))
	}
	return firstNonBlank(StringOf(im["shortComment"]), StringOf(im["longComment"]))
}
