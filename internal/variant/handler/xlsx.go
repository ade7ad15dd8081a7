package handler

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/variant/dto"
)

const imageSeparator = ","

var sheetHeader = []interface{}{
	"id",
	"product_id",
	"sku",
	"color",
	"size",
	"size_unit",
	"unit",
	"branch_id",
	"stock",
	"min_stock",
	"images",
}

// writeVariantsSheet renders variants as an xlsx workbook whose layout is
// accepted back by parseVariantsSheet.
func writeVariantsSheet(variants []model.ProductVariant) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetRow(sheet, "A1", &sheetHeader); err != nil {
		return nil, err
	}

	for i, v := range variants {
		urls := make([]string, 0, len(v.Images))
		for _, img := range v.Images {
			urls = append(urls, img.ImageURL)
		}
		row := []interface{}{
			v.ID,
			v.ProductID,
			v.SKU,
			deref(v.Color),
			deref(v.Size),
			deref(v.SizeUnit),
			deref(v.Unit),
			derefID(v.BranchID),
			v.Stock,
			v.MinStock,
			strings.Join(urls, imageSeparator),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// parseVariantsSheet reads the first sheet of an xlsx workbook into variant
// specs. Columns are matched by header name; product_id and branch_id are
// required, the id and sku columns are ignored. Blank rows are skipped.
func parseVariantsSheet(r io.Reader) ([]dto.VariantSpec, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Validation("could not read spreadsheet: not a valid .xlsx file")
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil || len(rows) < 2 {
		return nil, apperr.Validation("spreadsheet has no variant rows")
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"product_id", "branch_id"} {
		if _, ok := cols[required]; !ok {
			return nil, apperr.Validation("spreadsheet is missing the %s column", required)
		}
	}

	var specs []dto.VariantSpec
	for i := 1; i < len(rows); i++ {
		row := sheetRow{cells: rows[i], cols: cols, line: i + 1}
		if row.blank() {
			continue
		}
		spec, err := row.spec()
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil, apperr.Validation("spreadsheet has no variant rows")
	}
	return specs, nil
}

type sheetRow struct {
	cells []string
	cols  map[string]int
	line  int
}

func (r sheetRow) get(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r sheetRow) blank() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (r sheetRow) spec() (dto.VariantSpec, error) {
	productID, err := r.id("product_id")
	if err != nil {
		return dto.VariantSpec{}, err
	}
	branchID, err := r.id("branch_id")
	if err != nil {
		return dto.VariantSpec{}, err
	}

	spec := dto.VariantSpec{
		ProductID: productID,
		BranchID:  &branchID,
		Color:     optional[string](r.get("color")),
		Size:      optional[string](r.get("size")),
		SizeUnit:  optional[model.SizeUnit](r.get("size_unit")),
		Unit:      optional[model.Unit](r.get("unit")),
	}

	if raw := r.get("stock"); raw != "" {
		if spec.Stock, err = strconv.Atoi(raw); err != nil {
			return dto.VariantSpec{}, apperr.Validation("row %d: invalid stock %q", r.line, raw)
		}
	}
	if raw := r.get("min_stock"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return dto.VariantSpec{}, apperr.Validation("row %d: invalid min_stock %q", r.line, raw)
		}
		spec.MinStock = &n
	}
	if raw := r.get("images"); raw != "" {
		for _, u := range strings.Split(raw, imageSeparator) {
			if u = strings.TrimSpace(u); u != "" {
				spec.Images = append(spec.Images, u)
			}
		}
	}
	return spec, nil
}

func (r sheetRow) id(name string) (int64, error) {
	raw := r.get(name)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Validation("row %d: invalid %s %q", r.line, name, raw)
	}
	return n, nil
}

// optional maps an empty cell to an absent attribute.
func optional[T ~string](raw string) *T {
	if raw == "" {
		return nil
	}
	v := T(raw)
	return &v
}

func deref[T ~string](v *T) string {
	if v == nil {
		return ""
	}
	return string(*v)
}

func derefID(v *int64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
