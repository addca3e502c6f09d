package registry

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/corredora-austral/policy-cli/internal/mapper"
	"github.com/corredora-austral/policy-cli/internal/model"
)

// LoadWorkbook reads reference lists from an XLSX workbook: one sheet per
// list type (sheet name = list type, case-insensitive), columns id, name,
// code, with one header row. Sheets that do not name a known list type are
// skipped; rule tables do not travel in workbooks.
func LoadWorkbook(path string) (mapper.ReferenceData, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return mapper.ReferenceData{}, eris.Wrap(err, "registry: open workbook")
	}

	known := make(map[string]bool, len(model.ListTypes))
	for _, t := range model.ListTypes {
		known[t] = true
	}

	refs := mapper.ReferenceData{Lists: make(map[string][]model.ReferenceItem)}
	for _, sheet := range f.Sheets {
		listType := strings.ToLower(strings.TrimSpace(sheet.Name))
		if !known[listType] {
			continue
		}

		items, err := sheetItems(sheet)
		if err != nil {
			return mapper.ReferenceData{}, eris.Wrapf(err, "registry: sheet %s", sheet.Name)
		}
		refs.Lists[listType] = items
	}

	if len(refs.Lists) == 0 {
		return mapper.ReferenceData{}, eris.Errorf("registry: workbook %s has no known list sheets", path)
	}
	return refs, nil
}

func sheetItems(sheet *xlsx.Sheet) ([]model.ReferenceItem, error) {
	var items []model.ReferenceItem
	for i, row := range sheet.Rows {
		if i == 0 {
			continue // header
		}
		cells := rowStrings(row)
		if len(cells) < 2 || (cells[0] == "" && cells[1] == "") {
			continue
		}
		item := model.ReferenceItem{
			ID:   strings.TrimSpace(cells[0]),
			Name: strings.TrimSpace(cells[1]),
		}
		if len(cells) > 2 {
			item.Code = strings.TrimSpace(cells[2])
		}
		if item.ID == "" || item.Name == "" {
			return nil, eris.Errorf("row %d: id and name are required", i+1)
		}
		items = append(items, item)
	}
	return items, nil
}

func rowStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
