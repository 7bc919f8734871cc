package news

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"MarketFlash/internal/model"
)

func items(titles ...string) []model.NewsItem {
	out := make([]model.NewsItem, len(titles))
	for i, t := range titles {
		out[i] = model.NewsItem{Title: t}
	}
	return out
}

func TestFilterCompany(t *testing.T) {
	in := items(
		"TotalEnergies relève sa guidance annuelle",
		"Le CAC 40 termine en hausse",
		"TTE.PA : analyse technique du jour",
		"Résultats : TotalEnergies dépasse les attentes",
	)
	kept := FilterCompany("TTE.PA", "TotalEnergies SE", in)
	assert.Len(t, kept, 3, "index-level headline dropped, leading-word matches kept")
}

func TestSummarize_Empty(t *testing.T) {
	txt, score := Summarize(nil)
	assert.Contains(t, txt, "technique")
	assert.Zero(t, score)
}

func TestSummarize_PositiveAndNegative(t *testing.T) {
	txt, score := Summarize(items(
		"Le groupe relève sa guidance",
		"Nouveau contrat record signé",
	))
	assert.Greater(t, score, 0.15)
	assert.Contains(t, txt, "positives")

	txt, score = Summarize(items(
		"Profit warning sur l'exercice",
		"Une amende et une enquête en cours",
	))
	assert.Less(t, score, -0.15)
	assert.Contains(t, txt, "défavorables")
}

func TestSummarize_MixedIsNeutral(t *testing.T) {
	txt, score := Summarize(items(
		"Résultats en hausse",     // positive
		"Procès en appel retardé", // negative
	))
	assert.InDelta(t, 0, score, 0.1500001)
	assert.Contains(t, txt, "mitigée")
}
