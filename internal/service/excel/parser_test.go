package excel_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hranalyse/internal/model"
	"hranalyse/internal/service/excel"
)

func TestLoadXLSXAndBuildDataset(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, "Personal",
		[]interface{}{"Personalnummer", "Jahrgang", "Eintritt", "Abteilung", "Notiz"},
		[]interface{}{"P1", 1970, 2000, "IT"},
		[]interface{}{},
		[]interface{}{"P2", 1985, 2015, "HR", "neu"},
	)

	p := excel.NewParser()
	require.NoError(t, p.LoadFile("mitarbeiter.xlsx", bytes.NewReader(data)))
	sheet, err := p.Sheet()
	require.NoError(t, err)
	assert.Equal(t, "Personal", sheet.Name)

	ds, res, err := excel.BuildDataset(p.FileName(), sheet, nil)
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len(), "blank row must be dropped")
	assert.Equal(t, 2, ds.Records[0].RowNo)
	assert.Equal(t, 4, ds.Records[1].RowNo)
	assert.Equal(t, "P2", ds.ID(1))
	assert.Equal(t, "", ds.Text(0, model.FieldLevel))
	assert.True(t, ds.Has(model.FieldBirthYear))
	assert.False(t, ds.Has(model.FieldSalary))
	assert.Equal(t, "Jahrgang", ds.Header(model.FieldBirthYear))
	assert.Equal(t, []string{"Notiz"}, res.Unmapped)
	assert.Len(t, ds.Records[0].Cells, 5)
}

func TestLoadFile_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	err := excel.NewParser().LoadFile("daten.csv", strings.NewReader("a,b"))
	require.ErrorIs(t, err, excel.ErrUnsupportedFormat)
}

func TestLoadFile_Unreadable(t *testing.T) {
	t.Parallel()

	err := excel.NewParser().LoadFile("kaputt.xlsx", strings.NewReader("not a zip"))
	require.ErrorIs(t, err, excel.ErrUnreadable)
}

func TestLoadXLSAndBuildDataset(t *testing.T) {
	t.Parallel()

	p := excel.NewParser()
	require.NoError(t, p.LoadFile("mitarbeiter.xls", openFixture(t, "mitarbeiter.xls")))
	sheet, err := p.Sheet()
	require.NoError(t, err)

	// Deckblatt hat keine erkennbaren Spalten, die Personaldaten stehen im zweiten Blatt
	assert.Equal(t, "Personal", sheet.Name)
	assert.Equal(t, []excel.SheetRecognition{
		{Name: "Deckblatt", Fields: 0},
		{Name: "Personal", Fields: 6},
	}, p.Recognitions())
	assert.Equal(t, []string{"Mitarbeiter_ID", "Geburtsjahr", "Eintrittsjahr", "Geschlecht", "Abteilung", "Gehalt"}, sheet.Header())

	ds, res, err := excel.BuildDataset(p.FileName(), sheet, nil)
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())
	assert.Empty(t, res.Unmapped)
	assert.Equal(t, []string{"A1", "1960", "1990", "w", "Produktion", "52000.5"}, ds.Records[0].Cells)
	assert.Equal(t, "", ds.Text(1, model.FieldDepartment))
	assert.Equal(t, "Qualitätssicherung", ds.Text(2, model.FieldDepartment))
	assert.Equal(t, "2018", ds.Text(2, model.FieldHireYear))
}

func TestLoadXLS_Corrupted(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		"corrupted.xls",    // Workbook-Stream mit überschriebenen Bytes
		"sst_overflow.xls", // SST meldet 4 Mrd. Einträge
	} {
		err := excel.NewParser().LoadFile(name, openFixture(t, name))
		require.ErrorIs(t, err, excel.ErrUnreadable, name)
	}

	err := excel.NewParser().LoadFile("leer.xls", strings.NewReader("kein OLE-Container"))
	require.ErrorIs(t, err, excel.ErrUnreadable)
}

func TestLoadXLSX_PicksSheetWithMostFields(t *testing.T) {
	t.Parallel()

	wb := excelize.NewFile()
	defer wb.Close()
	require.NoError(t, wb.SetSheetName("Sheet1", "Hinweise"))
	require.NoError(t, wb.SetCellValue("Hinweise", "A1", "Bitte nicht ändern"))
	_, err := wb.NewSheet("Daten")
	require.NoError(t, err)
	require.NoError(t, wb.SetSheetRow("Daten", "A1", &[]interface{}{"Personalnummer", "Jahrgang", "Abteilung"}))
	require.NoError(t, wb.SetSheetRow("Daten", "A2", &[]interface{}{"P1", 1970, "IT"}))
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)

	p := excel.NewParser()
	require.NoError(t, p.LoadFile("mehrere.xlsx", bytes.NewReader(buf.Bytes())))
	sheet, err := p.Sheet()
	require.NoError(t, err)
	assert.Equal(t, "Daten", sheet.Name)
	assert.Equal(t, [][]string{{"Personalnummer", "Jahrgang", "Abteilung"}, {"P1", "1970", "IT"}}, sheet.Rows)
	assert.Len(t, p.Recognitions(), 2)
}

func TestLoadXLSX_TieKeepsFirstSheet(t *testing.T) {
	t.Parallel()

	wb := excelize.NewFile()
	defer wb.Close()
	require.NoError(t, wb.SetCellValue("Sheet1", "A1", "Notiz"))
	_, err := wb.NewSheet("Sheet2")
	require.NoError(t, err)
	require.NoError(t, wb.SetCellValue("Sheet2", "A1", "Kommentar"))
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)

	p := excel.NewParser()
	require.NoError(t, p.LoadFile("ohne.xlsx", bytes.NewReader(buf.Bytes())))
	sheet, err := p.Sheet()
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", sheet.Name)
}

func TestBuildDataset_OnlyBlankRows(t *testing.T) {
	t.Parallel()

	sheet := &excel.Sheet{Name: "S", Rows: [][]string{{"Geburtsjahr"}, {" "}, {""}}}
	_, _, err := excel.BuildDataset("leer.xlsx", sheet, nil)
	require.ErrorIs(t, err, excel.ErrEmptyDataset)
}

func TestSupportedFormat(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]bool{
		"a.xlsx": true,
		"B.XLS":  true,
		"c.xlsm": true,
		"d.ods":  false,
		"e":      false,
	} {
		if got := excel.SupportedFormat(name); got != want {
			t.Fatalf("SupportedFormat(%q)=%v, want %v", name, got, want)
		}
	}
}

func buildWorkbook(t *testing.T, sheet string, rows ...[]interface{}) []byte {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()
	if err := wb.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("SetSheetName failed: %v", err)
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := wb.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf.Bytes()
}

func openFixture(t *testing.T, name string) *bytes.Reader {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return bytes.NewReader(data)
}
