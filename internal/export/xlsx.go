package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheet = "Sheet1"

// PostersXLSX writes the poster export as a spreadsheet. The poster_url
// column is rendered as a clickable hyperlink, not plain text.
func PostersXLSX(w io.Writer, rows []PosterRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeHeader(f, posterHeader); err != nil {
		return err
	}
	urlCol := columnOf(posterHeader, "poster_url")
	for i, r := range rows {
		rowNum := i + 2
		if err := writeRecord(f, rowNum, posterRecord(r)); err != nil {
			return err
		}
		if r.PosterURL != "" {
			if err := setLink(f, urlCol, rowNum, r.PosterURL); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// GrantsXLSX writes the grants export as a spreadsheet with upload cells
// as clickable hyperlinks.
func GrantsXLSX(w io.Writer, rows []GrantRow) error {
	f := excelize.NewFile()
	defer f.Close()

	header := grantHeader()
	if err := writeHeader(f, header); err != nil {
		return err
	}
	for i, r := range rows {
		rowNum := i + 2
		if err := writeRecord(f, rowNum, grantRecord(r)); err != nil {
			return err
		}
		for _, kind := range UploadKinds {
			url := r.UploadURLs[kind]
			if url == "" {
				continue
			}
			if err := setLink(f, columnOf(header, "upload_"+kind), rowNum, url); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, header []string) error {
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("header %s: %w", name, err)
		}
	}
	return nil
}

func writeRecord(f *excelize.File, rowNum int, record []string) error {
	for col, v := range record {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return fmt.Errorf("cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("row %d col %d: %w", rowNum, col+1, err)
		}
	}
	return nil
}

func setLink(f *excelize.File, col, rowNum int, url string) error {
	cell, err := excelize.CoordinatesToCellName(col, rowNum)
	if err != nil {
		return fmt.Errorf("link cell: %w", err)
	}
	if err := f.SetCellHyperLink(sheet, cell, url, "External"); err != nil {
		return fmt.Errorf("hyperlink %s: %w", cell, err)
	}
	return nil
}

// columnOf returns the 1-based column index of name in header.
func columnOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i + 1
		}
	}
	return 0
}
