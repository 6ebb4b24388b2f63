package assistant

import (
	"context"
	"fmt"
	"strings"

	"ControlMed/models"
)

const (
	summaryRecordLimit      = 5
	summaryBudgetLimit      = 3
	summaryObservationWidth = 80
)

// SummaryReader assembles a read-only digest of a patient for informational
// queries: demographics, recent clinical notes, affected teeth, and recent
// budgets. The digest renders as a short Spanish text block; sections with no
// content are omitted.
type SummaryReader struct {
	records     RecordStore
	odontograms OdontogramStore
	budgets     BudgetStore
}

func NewSummaryReader(records RecordStore, odontograms OdontogramStore, budgets BudgetStore) *SummaryReader {
	return &SummaryReader{records: records, odontograms: odontograms, budgets: budgets}
}

// Summarize builds the digest for an already-resolved patient. Unreadable
// stored odontogram data yields an empty teeth section, never an error.
func (s *SummaryReader) Summarize(ctx context.Context, clinicID string, patient *models.Patient) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "📋 %s\n", patient.Name)
	demographics := make([]string, 0, 3)
	if patient.DNI != "" {
		demographics = append(demographics, "DNI: "+patient.DNI)
	}
	if patient.Email != "" {
		demographics = append(demographics, "Email: "+patient.Email)
	}
	if patient.Phone != "" {
		demographics = append(demographics, "Tel: "+patient.Phone)
	}
	if len(demographics) > 0 {
		b.WriteString(strings.Join(demographics, " | "))
		b.WriteString("\n")
	}

	state, err := s.odontograms.Load(ctx, clinicID, patient.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load odontogram: %w", err)
	}
	if affected := AffectedTeeth(state); len(affected) > 0 {
		b.WriteString("\n🦷 Dientes con tratamiento:\n")
		for _, tooth := range affected {
			entry := state.Teeth[tooth]
			fmt.Fprintf(&b, "- Pieza %s: %s", tooth, entry.Status)
			if entry.Notes != "" {
				fmt.Fprintf(&b, " (%s)", entry.Notes)
			}
			b.WriteString("\n")
		}
	}

	records, err := s.records.RecentByPatient(ctx, clinicID, patient.ID, summaryRecordLimit)
	if err != nil {
		return "", fmt.Errorf("failed to load clinical records: %w", err)
	}
	if len(records) > 0 {
		b.WriteString("\n📖 Últimas notas clínicas:\n")
		for _, record := range records {
			payload := DecodeRecordPayload(record.Text)
			fmt.Fprintf(&b, "- %s", record.Date.Format("02/01/2006"))
			if payload.Treatment != "" {
				fmt.Fprintf(&b, " · %s", payload.Treatment)
			}
			if payload.Observation != "" {
				fmt.Fprintf(&b, ": %s", truncate(payload.Observation, summaryObservationWidth))
			}
			b.WriteString("\n")
		}
	}

	budgets, err := s.budgets.RecentByPatient(ctx, clinicID, patient.ID, summaryBudgetLimit)
	if err != nil {
		return "", fmt.Errorf("failed to load budgets: %w", err)
	}
	if len(budgets) > 0 {
		total := 0.0
		for _, budget := range budgets {
			total += budget.TotalAmount
		}
		fmt.Fprintf(&b, "\n💶 Presupuestos recientes (%d) · total %.2f€:\n", len(budgets), total)
		for _, budget := range budgets {
			fmt.Fprintf(&b, "- %s · %s · %.2f€\n", budget.Date.Format("02/01/2006"), budget.Status, budget.TotalAmount)
		}
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width]) + "…"
}
