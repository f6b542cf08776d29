package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hranalyse/internal/exporter"
	"hranalyse/internal/service/excel"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeEmployees(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"Mitarbeiter_ID", "Geburtsjahr", "Eintrittsjahr", "Geschlecht", "Abteilung"},
		{"A1", 1960, 1990, "w", "Produktion"},
		{"A2", 1975, 2005, "m", "Produktion"},
		{"A3", 1990, 2018, "d", "Vertrieb"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "mitarbeiter.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestTemplateCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), excel.TemplateFileName)

	stdout, _, err := execute(t, "template", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Vorlage gespeichert")

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(excel.TemplateSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Mitarbeiter_ID", v)
}

func TestAnalyzeCommand_WritesBundle(t *testing.T) {
	out := filepath.Join(t.TempDir(), exporter.BundleFileName)

	stdout, _, err := execute(t, "analyze", writeEmployees(t), "--retirement-age", "65", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "3 Mitarbeiter wurden erfolgreich geladen")
	assert.Contains(t, stdout, "Mitarbeiter:           3")
	assert.Contains(t, stdout, "Ergebnisse gespeichert")

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()
	names := make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names[exporter.ReportFileName])
	assert.True(t, names[exporter.SummaryFileName])
}

func TestAnalyzeCommand_UserErrors(t *testing.T) {
	tpl := filepath.Join(t.TempDir(), excel.TemplateFileName)
	_, _, err := execute(t, "template", "--out", tpl)
	require.NoError(t, err)

	_, stderr, err := execute(t, "analyze", tpl, "--no-bundle")
	require.Error(t, err)
	assert.Contains(t, stderr, "leer")

	_, stderr, err = execute(t, "analyze", writeEmployees(t), "--no-bundle", "--retirement-age", "75")
	require.Error(t, err)
	assert.Contains(t, stderr, "zwischen 60 und 70")

	_, _, err = execute(t, "analyze")
	require.Error(t, err)
}

func TestConfigShowAndInit(t *testing.T) {
	stdout, _, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Standardwerte")
	assert.Contains(t, stdout, "retirement_age = 67")

	path := filepath.Join(t.TempDir(), "config.toml")
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", path, "config", "init"})
	require.NoError(t, root.Execute())

	root = newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", path, "config", "init"})
	assert.Error(t, root.Execute())
}
