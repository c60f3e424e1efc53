package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/02loveslollipop/yakchatja/internal/models"
)

// DefaultSheet is the sheet name used when none is given.
const DefaultSheet = "약국"

var headers = []interface{}{
	"약국명", "주소", "전화번호", "오늘 영업시간", "영업중", "남은 시간",
	"야간", "일요일", "공휴일", "거리(km)", "거리",
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

// WritePharmacies writes the list as an xlsx workbook to w.
func WritePharmacies(w io.Writer, data []models.Annotated, sheetName string) error {
	f, err := build(data, sheetName)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteTo(w)
	return err
}

// SavePharmacies writes the list as an xlsx workbook to path.
func SavePharmacies(path string, data []models.Annotated, sheetName string) error {
	f, err := build(data, sheetName)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.SaveAs(path)
}

func build(data []models.Annotated, sheetName string) (*excelize.File, error) {
	if sheetName == "" {
		sheetName = DefaultSheet
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, err
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := sw.SetRow("A1", headers); err != nil {
		f.Close()
		return nil, err
	}

	for i, r := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)

		today := ""
		if r.Hours.Today != nil {
			today = r.Hours.Today.String()
		}
		var km interface{}
		if r.DistanceKm != nil {
			km = *r.DistanceKm
		}

		row := []interface{}{
			r.Pharmacy.Name, r.Pharmacy.Address, r.Pharmacy.Phone,
			today, yesNo(r.Hours.OpenNow), r.Hours.Remaining,
			yesNo(r.Hours.Night), yesNo(r.Hours.Sunday), yesNo(r.Hours.Holiday),
			km, r.Distance,
		}
		if err := sw.SetRow(cell, row); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := sw.Flush(); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}
	return f, nil
}
