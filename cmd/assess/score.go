package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"trajectory-assessment-api/pkg/models"
	"trajectory-assessment-api/pkg/scoring"
	"trajectory-assessment-api/pkg/services"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	var (
		answersFile string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an answers file",
		Long: `Reads {"answers": {"Q1": 1..5, ...}} from a JSON file ("-" for stdin)
and prints domain averages, the avatar and suggested actions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readSubmitRequest(cmd.InOrStdin(), answersFile)
			if err != nil {
				return err
			}
			answers, err := services.ValidateAnswers(req.Answers)
			if err != nil {
				return err
			}
			result := scoring.ScoreDomains(answers)
			resp := models.SubmitResponse{
				ModuleID:        req.ModuleID,
				Overall:         result.Overall,
				Avatar:          result.Avatar,
				DomainScores:    result.DomainScores,
				LowestDomains:   result.LowestTwoDomains,
				Labels:          scoring.DomainLabels(result.DomainScores),
				Actions:         scoring.SuggestedActions(result.LowestTwoDomains),
				AnsweredDomains: scoring.AnsweredDomains(answers),
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			renderScore(cmd.OutOrStdout(), resp, newStyles())
			return nil
		},
	}
	cmd.Flags().StringVarP(&answersFile, "answers", "a", "", "Path to answers JSON (- for stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

func readSubmitRequest(stdin io.Reader, path string) (models.SubmitRequest, error) {
	var req models.SubmitRequest
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return req, fmt.Errorf("error reading answers: %w", err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("error parsing answers: %w", err)
	}
	return req, nil
}

func renderScore(w io.Writer, resp models.SubmitResponse, st styles) {
	fmt.Fprintln(w, st.header.Render("Assessment result"))
	fmt.Fprintf(w, "  Overall  %.2f  %s\n", resp.Overall, resp.Avatar)
	if resp.AnsweredDomains < len(scoring.Domains()) {
		fmt.Fprintln(w, st.dim.Render(fmt.Sprintf("  %d of %d domains answered; the rest score 0", resp.AnsweredDomains, len(scoring.Domains()))))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.header.Render("Domains"))
	for _, d := range scoring.Domains() {
		score := resp.DomainScores[d]
		label := resp.Labels[d]
		fmt.Fprintf(w, "  %-10s %5.2f  %s\n", d, score, labelStyle(st, label).Render(string(label)))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.header.Render(fmt.Sprintf("Focus: %s, %s", resp.LowestDomains[0], resp.LowestDomains[1])))
	fmt.Fprintln(w, "  Next 7 days")
	for _, a := range resp.Actions.SevenDay {
		fmt.Fprintf(w, "    - %s\n", a)
	}
	fmt.Fprintln(w, "  Next 30 days")
	for _, a := range resp.Actions.ThirtyDay {
		fmt.Fprintf(w, "    - %s\n", a)
	}
}

func labelStyle(st styles, label scoring.Label) lipgloss.Style {
	switch label {
	case scoring.Unacceptable:
		return st.low
	case scoring.Acceptable:
		return st.mid
	default:
		return st.high
	}
}
