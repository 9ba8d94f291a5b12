package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/ragkeeper/internal/server/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryFromName(t *testing.T) {
	tests := map[string]policy.Category{
		"engineering_master_doc.md":  policy.CategoryEngineering,
		"financial_summary.md":       policy.CategoryFinance,
		"quarterly_finance_2024.txt": policy.CategoryFinance,
		"hr_data.md":                 policy.CategoryHR,
		"employee_handbook.md":       policy.CategoryHR,
		"marketing_report_q4.md":     policy.CategoryMarketing,
		"market_analysis.txt":        policy.CategoryMarketing,
		"chrome_setup.md":            policy.CategoryGeneral,
		"company_faq.md":             policy.CategoryGeneral,
		"Engineering-Notes.MD":       policy.CategoryEngineering,
	}
	for name, want := range tests {
		assert.Equal(t, want, CategoryFromName(name), name)
	}
}

func TestLoadDocuments(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	write("marketing_report.md", "Campaigns.")
	write("employee_handbook.txt", "Leave.")
	write("image.png", "binary")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.md"), 0o700))

	docs, err := LoadDocuments(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "employee_handbook.txt", docs[0].Source)
	assert.Equal(t, policy.CategoryHR, docs[0].Category)
	assert.Equal(t, "Leave.", docs[0].Text)
	assert.Equal(t, "marketing_report.md", docs[1].Source)
	assert.Equal(t, policy.CategoryMarketing, docs[1].Category)
}

func TestLoadDocuments_MissingDir(t *testing.T) {
	_, err := LoadDocuments(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
