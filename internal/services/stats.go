package services

import (
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/models"
	"github.com/google/uuid"
)

// Enrich joins the catalog with one user's progress records. The result has one entry per
// technique in catalog order; techniques without a record get the zero progress state.
func Enrich(techniques []models.Technique, records []models.ProgressRecord) []dto.EnrichedTechnique {
	byTechnique := make(map[uuid.UUID]models.ProgressRecord, len(records))
	for _, r := range records {
		byTechnique[r.TechniqueID] = r
	}

	out := make([]dto.EnrichedTechnique, 0, len(techniques))
	for _, t := range techniques {
		item := dto.EnrichedTechnique{
			ID:        t.ID,
			Name:      t.Name,
			Category:  t.Category,
			VideoURL:  t.VideoURL,
			Note:      t.Note,
			CreatedAt: t.CreatedAt,
		}
		if r, ok := byTechnique[t.ID]; ok {
			id := r.ID
			item.Learned = r.Learned
			item.LearnedAt = r.LearnedAt
			item.Notes = r.Notes
			item.ProgressID = &id
		}
		out = append(out, item)
	}
	return out
}

// FilterByCategory keeps the techniques whose category matches exactly, in order.
func FilterByCategory(techniques []models.Technique, category string) []models.Technique {
	out := make([]models.Technique, 0)
	for _, t := range techniques {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Summarize computes overall and per-category completion. Categories are listed in the
// order they first appear in items.
func Summarize(items []dto.EnrichedTechnique) dto.ProgressSummary {
	summary := dto.ProgressSummary{Categories: []dto.CategoryProgress{}}
	index := make(map[string]int)

	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(summary.Categories)
			index[item.Category] = i
			summary.Categories = append(summary.Categories, dto.CategoryProgress{Category: item.Category})
		}

		summary.Categories[i].Total++
		summary.Overall.Total++
		if item.Learned {
			summary.Categories[i].Learned++
			summary.Overall.Learned++
		}
	}

	summary.Overall.Percentage = Percentage(summary.Overall.Learned, summary.Overall.Total)
	for i := range summary.Categories {
		c := &summary.Categories[i]
		c.Percentage = Percentage(c.Learned, c.Total)
	}
	return summary
}

// Percentage rounds learned/total to the nearest whole percent, halves up.
// An empty set is 0%.
func Percentage(learned, total int) int {
	if total <= 0 {
		return 0
	}
	// Integer form of floor(learned*100/total + 0.5).
	return (learned*200 + total) / (2 * total)
}
