package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory_FileName(t *testing.T) {
	assert.Equal(t, "image.csv", CategoryImage.FileName())
	assert.Equal(t, "note.csv", CategoryNote.FileName())
	assert.Equal(t, "plane.csv", CategoryPlane.FileName())
	assert.Equal(t, "line.csv", CategoryLine.FileName())
	assert.Equal(t, "unknown", Category(42).String())
}

func TestCategories_MergeOrder(t *testing.T) {
	assert.Equal(t, []Category{CategoryImage, CategoryNote, CategoryPlane, CategoryLine}, Categories)
}

func TestColumnNames_KeepLeadingSpace(t *testing.T) {
	for _, col := range ReportColumns[1:] {
		assert.True(t, len(col) > 1 && col[0] == ' ', "column %q should start with a space", col)
	}
	assert.Equal(t, "time", ReportColumns[0])
	assert.Len(t, ReportColumns, 15)
}

func TestParseText(t *testing.T) {
	assert.Equal(t, Text{}, ParseText("anything", false))
	assert.Equal(t, Text{}, ParseText("   ", true))
	assert.Equal(t, Text{Value: "bedding", Valid: true}, ParseText(" bedding ", true))
	assert.Equal(t, "", Text{}.String())
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		raw     string
		present bool
		want    Float
	}{
		{"0", true, Float{Value: 0, Valid: true}},
		{" 35.5", true, Float{Value: 35.5, Valid: true}},
		{"", true, Float{}},
		{"12", false, Float{}},
		{"nan", true, Float{}},
		{"NaN", true, Float{}},
		{"inf", true, Float{}},
		{"north", true, Float{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseFloat(tt.raw, tt.present), "raw %q", tt.raw)
	}
}

func TestFloat_Round1(t *testing.T) {
	assert.Equal(t, "", Float{}.Round1())
	assert.Equal(t, "0.0", Float{Valid: true}.Round1())
	assert.Equal(t, "35.0", Float{Value: 35, Valid: true}.Round1())
	assert.Equal(t, "12.3", Float{Value: 12.34, Valid: true}.Round1())
	assert.Equal(t, "12.4", Float{Value: 12.36, Valid: true}.Round1())
	assert.Equal(t, "-7.2", Float{Value: -7.25, Valid: true}.Round1())
}

func TestFloat_String(t *testing.T) {
	assert.Equal(t, "", Float{}.String())
	assert.Equal(t, "41.123456", Float{Value: 41.123456, Valid: true}.String())
	assert.Equal(t, "0", Float{Valid: true}.String())
}

func TestUnified_Value(t *testing.T) {
	u := Unified{Fields: map[string]string{ColDip: ""}}

	v, ok := u.Value(ColDip)
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = u.Value(ColPlunge)
	assert.False(t, ok)
}

func TestReport_HasLocation(t *testing.T) {
	r := Report{Latitude: Float{Value: 41, Valid: true}}
	assert.False(t, r.HasLocation())

	r.Longitude = Float{Value: 0, Valid: true}
	assert.True(t, r.HasLocation())
}
