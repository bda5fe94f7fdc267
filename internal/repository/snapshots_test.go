package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/models"
)

func TestCreateTableSQL(t *testing.T) {
	got := createTableSQL("goalie_matrix", []string{"player_id", "sv_pct"})
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "goalie_matrix" ("player_id" text, "sv_pct" text)`, got)
}

func TestTextRow(t *testing.T) {
	asof := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
	row := models.GoalieRow{
		PlayerID:    "8480280",
		GoalieName:  "Jeremy Swayman",
		Team:        "BOS",
		SvPct:       models.Float(0.914),
		StarterProb: models.Float(0.6),
		AsOf:        models.Time(asof),
	}

	got := textRow(row.Values())
	assert.Len(t, got, len(models.Columns(row)))
	assert.Equal(t, "8480280", got[0])
	assert.Equal(t, "0.914", got[3])
	assert.Nil(t, got[5], "null sv_pct_ev")
	assert.Equal(t, "2024-03-01T17:00:00Z", got[len(got)-1])
}

func TestTextValue(t *testing.T) {
	assert.Nil(t, textValue(nil))
	assert.Nil(t, textValue(models.NullInt{}))
	assert.Equal(t, "82", textValue(models.Int(82)))
	assert.Equal(t, "true", textValue(true))
	assert.Equal(t, "9.24", textValue(9.24))
	assert.Equal(t, "BOS", textValue("BOS"))
}
