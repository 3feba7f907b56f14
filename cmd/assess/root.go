package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "assess",
		Short: "Trajectory assessment scoring tools",
		Long: `assess runs the domain scorer locally against an answers file and
validates question catalogs before they are deployed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newScoreCmd(), newValidateQuestionsCmd())
	return root
}

type styles struct {
	header lipgloss.Style
	low    lipgloss.Style
	mid    lipgloss.Style
	high   lipgloss.Style
	dim    lipgloss.Style
}

func newStyles() styles {
	return styles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		low:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		mid:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		high:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}
