package casestudy

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: a small result set with awkward cell contents
func sampleStudies() []CaseStudy {
	return []CaseStudy{
		New(Ptr("Building a brand"), Ptr("How one charity rebranded"), Ptr("https://example.org/a/"), "First paragraph\nSecond paragraph"),
		New(Ptr(`Quotes "inside", commas`), nil, Ptr("https://example.org/b/"), ""),
		New(nil, Ptr("Summary only"), nil, ""),
	}
}

// TestWriteCSV_HeaderAndRows verifies the header row and one row per study
func TestWriteCSV_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleStudies()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Title,Summary,URL,Full Text\n"))
	assert.Contains(t, out, `"Quotes ""inside"", commas"`, "should escape quotes and commas")
	assert.Contains(t, out, "\"First paragraph\nSecond paragraph\"", "should quote multi-line text")
	assert.Contains(t, out, ",Summary only,,\n", "nil fields should be empty cells")
}

// TestWriteCSV_Empty verifies an empty result set still has a header
func TestWriteCSV_Empty(t *testing.T) {
	data, err := MarshalCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "Title,Summary,URL,Full Text\n", string(data))
}

// TestCSVRoundTrip verifies decode(encode(x)) preserves every field
func TestCSVRoundTrip(t *testing.T) {
	studies := append(sampleStudies(),
		New(Ptr("Carriage return"), nil, nil, "Line one\rLine two"),
	)

	data, err := MarshalCSV(studies)
	require.NoError(t, err)

	decoded, err := ReadCSV(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, decoded, len(studies))

	for i := range studies {
		assert.Equal(t, studies[i].Row(), decoded[i].Row(), "row %d", i)
		assert.Equal(t, studies[i].Title == nil, decoded[i].Title == nil, "title nil-ness row %d", i)
		assert.Equal(t, studies[i].Summary == nil, decoded[i].Summary == nil, "summary nil-ness row %d", i)
		assert.Equal(t, studies[i].URL == nil, decoded[i].URL == nil, "url nil-ness row %d", i)
	}
}

// TestReadCSV_BadHeader verifies foreign CSV is rejected
func TestReadCSV_BadHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b,c,d\n1,2,3,4\n"))
	assert.ErrorIs(t, err, ErrBadHeader)

	_, err = ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrBadHeader)
}

// TestReadCSV_WrongFieldCount verifies short rows are an error
func TestReadCSV_WrongFieldCount(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Title,Summary,URL,Full Text\nonly,three,cells\n"))
	assert.Error(t, err)
}

// TestReadCSV_HeaderOnly verifies a header-only file yields an empty slice
func TestReadCSV_HeaderOnly(t *testing.T) {
	studies, err := ReadCSV(strings.NewReader("Title,Summary,URL,Full Text\n"))
	require.NoError(t, err)
	assert.NotNil(t, studies)
	assert.Empty(t, studies)
}

// TestRow verifies nil fields render as empty cells
func TestRow(t *testing.T) {
	study := New(nil, nil, nil, "")
	assert.Equal(t, []string{"", "", "", ""}, study.Row())
	assert.Len(t, Columns, 4)
}
