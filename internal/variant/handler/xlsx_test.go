package handler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
)

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf := &bytes.Buffer{}
	require.NoError(t, f.Write(buf))
	return buf
}

func TestParseVariantsSheet(t *testing.T) {
	buf := workbook(t,
		[]interface{}{"Branch_ID", "product_id", "color", "stock", "min_stock", "images"},
		[]interface{}{1, 4, "VERDE", 12, "", " a.jpg , ,b.jpg"},
		[]interface{}{"", "", "", "", "", ""},
		[]interface{}{2, 4, "", "", 0, ""},
	)

	specs, err := parseVariantsSheet(buf)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, int64(4), specs[0].ProductID)
	assert.Equal(t, int64(1), *specs[0].BranchID)
	assert.Equal(t, "VERDE", *specs[0].Color)
	assert.Equal(t, 12, specs[0].Stock)
	assert.Nil(t, specs[0].MinStock)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, specs[0].Images)

	assert.Nil(t, specs[1].Color)
	assert.Equal(t, 0, specs[1].Stock)
	require.NotNil(t, specs[1].MinStock)
	assert.Equal(t, 0, *specs[1].MinStock)
}

func TestParseVariantsSheetErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   *bytes.Buffer
		wantMsg string
	}{
		{
			"not a workbook",
			bytes.NewBufferString("product_id,branch_id\n1,1\n"),
			"could not read spreadsheet: not a valid .xlsx file",
		},
		{
			"missing branch column",
			workbook(t, []interface{}{"product_id", "stock"}, []interface{}{1, 2}),
			"spreadsheet is missing the branch_id column",
		},
		{
			"bad stock",
			workbook(t, []interface{}{"product_id", "branch_id", "stock"}, []interface{}{1, 1, "many"}),
			`row 2: invalid stock "many"`,
		},
		{
			"header only",
			workbook(t, []interface{}{"product_id", "branch_id"}),
			"spreadsheet has no variant rows",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseVariantsSheet(tt.input)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
			assert.True(t, strings.HasPrefix(apperr.PublicMessage(err), tt.wantMsg), apperr.PublicMessage(err))
		})
	}
}
