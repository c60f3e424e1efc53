package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/02loveslollipop/yakchatja/internal/finder"
	"github.com/02loveslollipop/yakchatja/internal/geo"
	"github.com/02loveslollipop/yakchatja/internal/models"
)

func sample() []models.Annotated {
	p := models.Pharmacy{Name: "가나약국", Address: "서울특별시 종로구 1", Phone: "02-000-0000", Lat: "37.5670", Lng: "126.9780"}
	p.SetDutyTime(1, "900", "2300")
	q := models.Pharmacy{Name: "위치없는약국", Address: "서울특별시 종로구 2"}

	monday := time.Date(2024, time.January, 1, 21, 0, 0, 0, time.UTC)
	ref := geo.Coordinate{Lat: 37.5665, Lng: 126.9780}
	return finder.Annotate([]models.Pharmacy{p, q}, monday, &ref)
}

func TestWritePharmacies(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePharmacies(&buf, sample(), ""))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DefaultSheet}, f.GetSheetList())

	rows, err := f.GetRows(DefaultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "약국명", rows[0][0])
	assert.Equal(t, "가나약국", rows[1][0])
	assert.Equal(t, "09:00~23:00", rows[1][3])
	assert.Equal(t, "Y", rows[1][4])
	assert.Equal(t, "2시간 후 마감", rows[1][5])
	assert.Equal(t, "Y", rows[1][6])
	assert.Equal(t, "56m", rows[1][10])

	assert.Equal(t, "위치없는약국", rows[2][0])
	assert.Equal(t, "N", rows[2][4])
}

func TestSavePharmacies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, SavePharmacies(path, sample(), "결과"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("결과")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
