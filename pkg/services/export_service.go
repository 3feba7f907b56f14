package services

import (
	"fmt"
	"io"
	"time"

	"trajectory-assessment-api/pkg/models"
	"trajectory-assessment-api/pkg/scoring"

	"github.com/xuri/excelize/v2"
)

const (
	SubmissionsSheet = "Submissions"
	ActionsSheet     = "Actions"
)

// ExportService は提出データを管理者向けのExcelファイルに書き出します。
type ExportService struct{}

// NewExportService は新しいExportServiceを生成します。
func NewExportService() *ExportService {
	return &ExportService{}
}

// submissionHeader はSubmissionsシートの列見出し
func submissionHeader() []interface{} {
	header := []interface{}{"ID", "Module", "Created At"}
	for _, d := range scoring.Domains() {
		header = append(header, string(d))
	}
	return append(header, "Overall", "Avatar", "Lowest 1", "Lowest 2")
}

// WriteSubmissionsXLSX は subs を2シート構成のxlsxとして w に書き込みます。
func (e *ExportService) WriteSubmissionsXLSX(w io.Writer, subs []*models.Submission) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SubmissionsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(ActionsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	header := submissionHeader()
	if err := f.SetSheetRow(SubmissionsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	actionsHeader := []interface{}{"ID", "Horizon", "Action 1", "Action 2", "Action 3"}
	if err := f.SetSheetRow(ActionsSheet, "A1", &actionsHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	actionRow := 2
	for i, sub := range subs {
		row := []interface{}{sub.ID, sub.ModuleID, sub.CreatedAt.Format(time.RFC3339)}
		for _, d := range scoring.Domains() {
			row = append(row, sub.Result.DomainScores[d])
		}
		row = append(row,
			sub.Result.Overall,
			string(sub.Result.Avatar),
			string(sub.Result.LowestTwoDomains[0]),
			string(sub.Result.LowestTwoDomains[1]),
		)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SubmissionsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}

		actions := scoring.SuggestedActions(sub.Result.LowestTwoDomains)
		for _, horizon := range []struct {
			name  string
			items [3]string
		}{
			{"7-day", actions.SevenDay},
			{"30-day", actions.ThirtyDay},
		} {
			cell, err := excelize.CoordinatesToCellName(1, actionRow)
			if err != nil {
				return err
			}
			arow := []interface{}{sub.ID, horizon.name, horizon.items[0], horizon.items[1], horizon.items[2]}
			if err := f.SetSheetRow(ActionsSheet, cell, &arow); err != nil {
				return fmt.Errorf("write actions row %d: %w", actionRow, err)
			}
			actionRow++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
