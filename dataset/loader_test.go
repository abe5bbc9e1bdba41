package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbhayKTS/sales-prediction/pkg/errors"
)

const validCSV = `TV,Radio,Newspaper,Sales
230.1,37.8,69.2,22.1
44.5,39.3,45.1,10.4
17.2,45.9,69.3,9.3
151.5,41.3,58.5,18.5
180.8,10.8,58.4,12.9
8.7,48.9,75.0,7.2
57.5,32.8,23.5,11.8
120.2,19.6,11.6,13.2
8.6,2.1,1.0,4.8
199.8,2.6,21.2,10.6
`

func TestLoad(t *testing.T) {
	table, err := Load(strings.NewReader(validCSV))
	require.NoError(t, err)

	assert.Equal(t, 10, table.Len())
	assert.InDelta(t, 230.1, table.TV[0], 1e-12)
	assert.InDelta(t, 2.6, table.Radio[9], 1e-12)
	assert.InDelta(t, 22.1, table.Sales[0], 1e-12)
}

func TestLoad_DropsMalformedRows(t *testing.T) {
	csv := validCSV +
		"not,a,number,row\n" + // non-numeric field
		"1.0,2.0,3.0\n" + // too few fields
		"NaN,2.0,3.0,4.0\n" + // non-finite
		"10.0,20.0,30.0,5.5\n" // valid

	table, err := Load(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 11, table.Len())
	assert.InDelta(t, 5.5, table.Sales[10], 1e-12)
}

func TestLoad_InsufficientData(t *testing.T) {
	csv := "TV,Radio,Newspaper,Sales\n1,2,3,4\n5,6,7,8\n"

	_, err := Load(strings.NewReader(csv))
	require.Error(t, err)

	var insufficient *errors.InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, MinRows, insufficient.Required)
	assert.Equal(t, 2, insufficient.Got)
}

func TestLoad_EmptyInput(t *testing.T) {
	_, err := Load(strings.NewReader(""))
	require.Error(t, err)
}

func TestTable_FeaturesAndTarget(t *testing.T) {
	table, err := Load(strings.NewReader(validCSV))
	require.NoError(t, err)

	x := table.Features()
	r, c := x.Dims()
	assert.Equal(t, 10, r)
	assert.Equal(t, 3, c)
	assert.InDelta(t, 37.8, x.At(0, 1), 1e-12)

	y := table.Target()
	assert.Equal(t, 10, y.Len())
	assert.InDelta(t, 10.4, y.AtVec(1), 1e-12)

	// Target returns a copy; mutating it must not touch the table.
	y.SetVec(0, -1)
	assert.InDelta(t, 22.1, table.Sales[0], 1e-12)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("testdata/does-not-exist.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUpstreamUnavailable))
}
