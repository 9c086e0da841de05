package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/triplettes/internal/config"
	"github.com/derekprior/triplettes/internal/roster"
	"github.com/derekprior/triplettes/internal/schedule"
)

const (
	PlanSheet       = "Tournament Plan"
	EncountersSheet = "Primary Encounters"
	// ByeCourt marks a team that sits out a round with an odd team count.
	ByeCourt = "Bye"
)

// RoundSheet names the flat per-round sheet the validator reads back.
func RoundSheet(n int) string {
	return fmt.Sprintf("Round %d", n)
}

// RoundSheetHeaders returns the column headers of a round sheet.
func RoundSheetHeaders(labels config.RoleLabels) []string {
	headers := []string{"Court", "Team A"}
	for _, role := range roster.Roles {
		headers = append(headers, "A "+labels.Label(role))
	}
	headers = append(headers, "Team B")
	for _, role := range roster.Roles {
		headers = append(headers, "B "+labels.Label(role))
	}
	return headers
}

type styles struct {
	title, header, roundHeader, matchHeader, cell, centered int
}

func newStyles(f *excelize.File) styles {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	left := &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true}

	var s styles
	s.title, _ = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Color: "#1F497D", Family: "Arial"},
		Alignment: center,
	})
	s.header, _ = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4F81BD"}},
		Alignment: center,
		Border:    border,
	})
	s.roundHeader, _ = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "#FFFFFF", Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1F497D"}},
		Alignment: center,
	})
	s.matchHeader, _ = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#76933C"}},
		Alignment: center,
		Border:    border,
	})
	s.cell, _ = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial"},
		Alignment: left,
		Border:    border,
	})
	s.centered, _ = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial"},
		Alignment: center,
		Border:    border,
	})
	return s
}

// Generate creates a workbook with the tournament plan, the primary
// encounters and one flat sheet per round. It refuses an incomplete
// tournament so no partial schedule is ever published.
func Generate(cfg *config.Config, t *schedule.Tournament) (*excelize.File, error) {
	if !t.Complete() {
		return nil, fmt.Errorf("tournament %s is incomplete: %d of %d rounds scheduled",
			t.ID(), len(t.Rounds()), t.NumRounds())
	}

	f := excelize.NewFile()
	f.SetDefaultFont("Arial")

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:      "Triplettes tournament plan",
		Creator:    "triplettes",
		Identifier: t.ID().String(),
		Description: fmt.Sprintf("%d players, %d teams, %d courts, %d rounds",
			t.Roster().Len(), t.NumTeams(), t.NumCourts(), t.NumRounds()),
	}); err != nil {
		return nil, fmt.Errorf("setting document properties: %w", err)
	}

	st := newStyles(f)
	rounds := t.Rounds()

	if err := writePlanSheet(f, st, cfg.RoleLabels, rounds); err != nil {
		return nil, fmt.Errorf("writing plan sheet: %w", err)
	}
	if err := writeEncountersSheet(f, st, cfg.RoleLabels, rounds); err != nil {
		return nil, fmt.Errorf("writing encounters sheet: %w", err)
	}
	for _, r := range rounds {
		if err := writeRoundSheet(f, st, cfg.RoleLabels, r); err != nil {
			return nil, fmt.Errorf("writing round %d sheet: %w", r.Number, err)
		}
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func writePlanSheet(f *excelize.File, st styles, labels config.RoleLabels, rounds []schedule.Round) error {
	sheet := PlanSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	if err := f.MergeCell(sheet, "A1", "E1"); err != nil {
		return err
	}
	f.SetCellValue(sheet, "A1", "TRIPLETTES TOURNAMENT - FULL PLAN")
	f.SetCellStyle(sheet, "A1", "E1", st.title)

	headers := []string{"Round", "Team", labels.Primary, labels.Secondary, labels.Tertiary}
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 3), h)
	}
	f.SetCellStyle(sheet, "A3", "E3", st.header)

	row := 4
	for _, r := range rounds {
		if err := bannerRow(f, sheet, row, fmt.Sprintf("ROUND %d", r.Number), st.roundHeader); err != nil {
			return err
		}
		row++

		for _, team := range r.Teams {
			f.SetCellValue(sheet, cellRef(1, row), fmt.Sprintf("R%d", r.Number))
			f.SetCellValue(sheet, cellRef(2, row), fmt.Sprintf("Team %d", team.ID))
			for i, role := range roster.Roles {
				f.SetCellValue(sheet, cellRef(3+i, row), team.Player(role).Name)
			}
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(1, row), st.centered)
			f.SetCellStyle(sheet, cellRef(2, row), cellRef(5, row), st.cell)
			row++
		}

		if err := bannerRow(f, sheet, row, fmt.Sprintf("ROUND %d MATCHES", r.Number), st.roundHeader); err != nil {
			return err
		}
		row++

		for i, h := range []string{"Court", "Team A", "", "Team B", ""} {
			if h != "" {
				f.SetCellValue(sheet, cellRef(i+1, row), h)
			}
		}
		f.SetCellStyle(sheet, cellRef(1, row), cellRef(5, row), st.matchHeader)
		row++

		for _, m := range r.Matches {
			f.SetCellValue(sheet, cellRef(1, row), fmt.Sprintf("C%d", m.Court))
			f.SetCellValue(sheet, cellRef(2, row), teamInfo(m.A, labels))
			f.SetCellValue(sheet, cellRef(3, row), "vs")
			f.SetCellValue(sheet, cellRef(4, row), teamInfo(m.B, labels))
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(5, row), st.cell)
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(1, row), st.centered)
			f.SetCellStyle(sheet, cellRef(3, row), cellRef(3, row), st.centered)
			row++
		}

		row += 2
	}

	widths := map[string]float64{"A": 8, "B": 24, "C": 20, "D": 24, "E": 20}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

func bannerRow(f *excelize.File, sheet string, row int, text string, style int) error {
	if err := f.MergeCell(sheet, cellRef(1, row), cellRef(5, row)); err != nil {
		return err
	}
	f.SetCellValue(sheet, cellRef(1, row), text)
	return f.SetCellStyle(sheet, cellRef(1, row), cellRef(5, row), style)
}

// teamInfo is the multi-line team description used in match rows.
func teamInfo(t schedule.Team, labels config.RoleLabels) string {
	lines := []string{fmt.Sprintf("Team %d", t.ID)}
	for _, role := range roster.Roles {
		lines = append(lines, fmt.Sprintf("%s: %s", labels.Label(role), t.Player(role).Name))
	}
	return strings.Join(lines, "\n")
}

func writeEncountersSheet(f *excelize.File, st styles, labels config.RoleLabels, rounds []schedule.Round) error {
	sheet := EncountersSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	if err := f.MergeCell(sheet, "A1", "C1"); err != nil {
		return err
	}
	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s ENCOUNTERS", strings.ToUpper(labels.Primary)))
	f.SetCellStyle(sheet, "A1", "C1", st.title)

	headers := []string{"Round", labels.Primary + " 1", labels.Primary + " 2"}
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 3), h)
	}
	f.SetCellStyle(sheet, "A3", "C3", st.header)

	row := 4
	for _, r := range rounds {
		for _, m := range r.Matches {
			f.SetCellValue(sheet, cellRef(1, row), fmt.Sprintf("Round %d", r.Number))
			f.SetCellValue(sheet, cellRef(2, row), m.A.Primary.Name)
			f.SetCellValue(sheet, cellRef(3, row), m.B.Primary.Name)
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(3, row), st.cell)
			row++
		}
	}

	f.SetColWidth(sheet, "A", "C", 25)
	return nil
}

func writeRoundSheet(f *excelize.File, st styles, labels config.RoleLabels, r schedule.Round) error {
	sheet := RoundSheet(r.Number)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := RoundSheetHeaders(labels)
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}
	f.SetCellStyle(sheet, cellRef(1, 1), cellRef(len(headers), 1), st.header)

	playing := make(map[int]bool)
	row := 2
	writeTeam := func(col int, t schedule.Team) {
		f.SetCellValue(sheet, cellRef(col, row), t.ID)
		for i, role := range roster.Roles {
			f.SetCellValue(sheet, cellRef(col+1+i, row), t.Player(role).Name)
		}
	}

	for _, m := range r.Matches {
		f.SetCellValue(sheet, cellRef(1, row), m.Court)
		writeTeam(2, m.A)
		writeTeam(6, m.B)
		playing[m.A.ID] = true
		playing[m.B.ID] = true
		f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(headers), row), st.cell)
		row++
	}
	for _, t := range r.Teams {
		if playing[t.ID] {
			continue
		}
		f.SetCellValue(sheet, cellRef(1, row), ByeCourt)
		writeTeam(2, t)
		f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(headers), row), st.cell)
		row++
	}

	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", colLetter(len(headers)), 16)
	return nil
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
