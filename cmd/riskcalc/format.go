package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/wacky6382/diabetes-risk-calculator/internal/application/dto"
)

const progressWidth = 20

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}

func printAssessment(w io.Writer, r dto.AssessmentResponse) {
	fmt.Fprintf(w, "Model:     %s (%s v%s)\n", r.ModelName, r.ModelID, r.ModelVersion)
	fmt.Fprintf(w, "BMI:       %s\n", r.BMI)
	fmt.Fprintf(w, "WHR:       %s\n", r.WHR)
	if r.EducationBand != "" {
		fmt.Fprintf(w, "Education: %s\n", r.EducationBand)
	}

	if r.Link == "logistic" {
		fmt.Fprintf(w, "Probability: %s (linear predictor %s)\n", r.Value, r.LinearPredictor)
	} else {
		fmt.Fprintf(w, "Score:     %s\n", r.Value)
	}
	fmt.Fprintf(w, "Category:  %s (%s)\n", r.Category, r.CategoryLabel)
	fmt.Fprintf(w, "Progress:  %s %d%%\n", progressBar(r.ProgressPercent), r.ProgressPercent)
	fmt.Fprintln(w)

	printContributions(w, r.Contributions)
	fmt.Fprintf(w, "  %-16s %8s\n", "non-modifiable", r.NonModifiableTotal)
	fmt.Fprintf(w, "  %-16s %8s\n", "modifiable", r.ModifiableTotal)
	fmt.Fprintln(w)

	if p := r.Projection; p != nil {
		fmt.Fprintf(w, "At BMI %s: %s (%s), change %s\n", p.TargetBMI, p.ProjectedValue, p.ProjectedCategory, p.Delta)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Assessment %s\n", r.ID)
	fmt.Fprintf(w, "NOTE: %s\n", r.Disclaimer)
}

func printPointScore(w io.Writer, r dto.PointScoreResponse) {
	fmt.Fprintf(w, "Model:     %s v%s\n", r.ModelID, r.ModelVersion)
	fmt.Fprintf(w, "Points:    %d\n", r.Points)
	fmt.Fprintf(w, "Category:  %s (%s)\n", r.Category, r.CategoryLabel)
	fmt.Fprintf(w, "Progress:  %s %d%%\n", progressBar(r.ProgressPercent), r.ProgressPercent)
	fmt.Fprintln(w)

	printContributions(w, r.Contributions)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Assessment %s\n", r.ID)
	fmt.Fprintf(w, "NOTE: %s\n", r.Disclaimer)
}

func printContributions(w io.Writer, cs []dto.ContributionDTO) {
	fmt.Fprintln(w, "Contributions:")
	for _, c := range cs {
		marker := " "
		if c.Modifiable {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-16s %8s   (input %s)\n", marker, c.Factor, c.Value, c.Input)
	}
	fmt.Fprintln(w, "  (* modifiable)")
}

func printModels(w io.Writer, models []dto.ModelSummary, defaultModel string) {
	for _, m := range models {
		marker := " "
		if m.ID == defaultModel {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-22s v%-4s %-13s %s\n", marker, m.ID, m.Version, m.Link, m.Name)
		fmt.Fprintf(w, "    cutoffs: %s\n", m.Cutoffs)
		fmt.Fprintf(w, "    factors: %s\n", strings.Join(m.Factors, ", "))
		if m.Citation != "" {
			fmt.Fprintf(w, "    source:  %s\n", m.Citation)
		}
	}
}

func progressBar(pct int) string {
	pct = max(0, min(pct, 100))
	filled := pct * progressWidth / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", progressWidth-filled) + "]"
}
