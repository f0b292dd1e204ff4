package resolve

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acg-converter/internal/diagnostic"
	"acg-converter/internal/mapping"
	"acg-converter/internal/table"
	"acg-converter/internal/transform"
)

func careHistory() *table.Table {
	return table.FromRecords("Care_History", []string{"PatientID", "Code", "EffectiveDate"}, []map[string]string{
		{"PatientID": "1", "Code": "195967001", "EffectiveDate": "2020-01-15"},
		{"PatientID": "2", "Code": "", "EffectiveDate": "garbage"},
		{"PatientID": "3", "Code": "G30..", "EffectiveDate": ""},
	})
}

func medRule(target, column, fn string) mapping.Rule {
	return mapping.Rule{
		SourceDataset: "Care_History",
		SourceColumn:  column,
		TargetFile:    mapping.TargetMedicalServices,
		TargetColumn:  target,
		Transform:     fn,
		SourceLabel:   "care",
	}
}

func newResolver() *Resolver {
	return New(transform.Builtins(), &diagnostic.Diagnostics{}, zerolog.Nop())
}

func TestColumn_DirectCopyIsIdentity(t *testing.T) {
	src := careHistory()
	r := newResolver()

	for _, col := range src.Columns {
		want, _ := src.Column(col)
		got := r.Column(medRule("out", col, ""), nil, Source{Table: src})
		assert.Equal(t, want, got, col)
	}

	assert.Empty(t, r.Diagnostics().All())
}

func TestColumn_Transform(t *testing.T) {
	r := newResolver()

	got := r.Column(medRule("service_date", "EffectiveDate", transform.NameDate), nil, Source{Table: careHistory()})
	assert.Equal(t, []string{"2020-01-15", "", ""}, got)
}

func TestColumn_GeneratedFromRowIDs(t *testing.T) {
	r := newResolver()
	src := careHistory()

	got := r.Column(medRule("cost", "", transform.NameZeroCost), nil, Source{Table: src})
	assert.Equal(t, []string{"0", "0", "0"}, got)

	var seen []string

	reg := transform.NewRegistry()
	reg.Register("echo", func(in []string) []string {
		seen = in
		return in
	})

	r = New(reg, nil, zerolog.Nop())
	r.Column(medRule("id", "", "echo"), nil, Source{Table: src, RowIDs: []string{"a", "b", "c"}})
	assert.Equal(t, []string{"a", "b", "c"}, seen)

	r.Column(medRule("id", "", "echo"), nil, Source{Table: src})
	assert.Equal(t, []string{"0", "1", "2"}, seen)
}

func TestColumn_MissingSourceColumn(t *testing.T) {
	r := newResolver()

	got := r.Column(medRule("dx_cd_2", "SecondaryCode", ""), nil, Source{Table: careHistory()})
	assert.Equal(t, []string{"", "", ""}, got)

	diags := r.Diagnostics().WithCode(diagnostic.CodeSourceColumnNotFound)
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostic.SeverityWarning, diags[0].Severity)
	assert.Equal(t, "medical_services/care", diags[0].Scope)
	assert.Equal(t, "dx_cd_2", diags[0].Column)
}

func TestColumn_MissingSourceColumnWithTransform(t *testing.T) {
	r := newResolver()

	got := r.Column(medRule("sex", "Gender", transform.NameSex), nil, Source{Table: careHistory()})
	assert.Equal(t, []string{"", "", ""}, got)
	assert.Len(t, r.Diagnostics().WithCode(diagnostic.CodeSourceColumnNotFound), 1)
}

func TestColumn_EmptyRule(t *testing.T) {
	r := newResolver()

	got := r.Column(medRule("placeholder", "", ""), nil, Source{Table: careHistory()})
	assert.Equal(t, []string{"", "", ""}, got)
	assert.Len(t, r.Diagnostics().WithCode(diagnostic.CodeEmptyRule), 1)
}

func TestColumn_UnknownTransform(t *testing.T) {
	r := newResolver()

	got := r.Column(medRule("age", "Code", "calculate_age"), nil, Source{Table: careHistory()})
	assert.Equal(t, []string{"", "", ""}, got)
	assert.Len(t, r.Diagnostics().WithCode(diagnostic.CodeUnknownTransform), 1)
	assert.False(t, r.Diagnostics().HasErrors())
}

func TestColumn_FailingTransform(t *testing.T) {
	reg := transform.NewRegistry()
	reg.Register("boom", func([]string) []string { panic("row 2") })

	r := New(reg, nil, zerolog.Nop())

	got := r.Column(medRule("x", "Code", "boom"), nil, Source{Table: careHistory()})
	assert.Equal(t, []string{"", "", ""}, got)
	assert.Len(t, r.Diagnostics().WithCode(diagnostic.CodeTransformFailed), 1)
}

func TestColumn_DxVersionReadsDxCodeColumn(t *testing.T) {
	group := mapping.Rules{
		medRule("patient_id", "PatientID", ""),
		medRule("dx_cd_1", "Code", ""),
		medRule("dx_version_1", "", transform.NameDxVersion),
	}

	r := newResolver()
	got := r.Column(group[2], group, Source{Table: careHistory()})
	assert.Equal(t, []string{"S", "", "S"}, got)

	// the rule's own source column does not matter
	own := medRule("dx_version_1", "EffectiveDate", transform.NameDxVersion)
	got = r.Column(own, group, Source{Table: careHistory()})
	assert.Equal(t, []string{"S", "", "S"}, got)
	assert.Empty(t, r.Diagnostics().All())
}

func TestColumn_DependencyUnresolved(t *testing.T) {
	tests := []struct {
		name  string
		group mapping.Rules
	}{
		{
			name:  "no dx_cd_1 rule",
			group: mapping.Rules{medRule("patient_id", "PatientID", "")},
		},
		{
			name:  "dx_cd_1 rule without column",
			group: mapping.Rules{medRule("dx_cd_1", "", transform.NameZeroCost)},
		},
		{
			name:  "dx_cd_1 column not in table",
			group: mapping.Rules{medRule("dx_cd_1", "ReadCode", "")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newResolver()
			rule := medRule("dx_version_1", "", transform.NameDxVersion)

			got := r.Column(rule, append(tt.group, rule), Source{Table: careHistory()})
			assert.Equal(t, []string{"", "", ""}, got)

			diags := r.Diagnostics().WithCode(diagnostic.CodeDependencyMissing)
			require.Len(t, diags, 1)
			assert.Equal(t, diagnostic.SeverityError, diags[0].Severity)
		})
	}
}

func TestColumn_RxCodeTypeReadsRxCode(t *testing.T) {
	meds := table.FromRecords("Medication_History", []string{"PatientID", "DrugCode"}, []map[string]string{
		{"PatientID": "1", "DrugCode": "a123."},
		{"PatientID": "2", "DrugCode": ""},
	})

	rx := func(target, column, fn string) mapping.Rule {
		return mapping.Rule{SourceDataset: "Medication_History", SourceColumn: column,
			TargetFile: mapping.TargetPharmacyData, TargetColumn: target, Transform: fn, SourceLabel: "meds"}
	}

	group := mapping.Rules{rx("rx_cd", "DrugCode", ""), rx("rx_code_type", "", transform.NameRxCodeType)}

	got := newResolver().Column(group[1], group, Source{Table: meds})
	assert.Equal(t, []string{transform.RxCodeTypeDefault, ""}, got)
}

func TestColumn_EmptyTable(t *testing.T) {
	r := newResolver()
	empty := table.New("Care_History", "PatientID", "Code")

	assert.Empty(t, r.Column(medRule("dx_cd_1", "Code", ""), nil, Source{Table: empty}))
	assert.Empty(t, r.Column(medRule("cost", "", transform.NameZeroCost), nil, Source{Table: empty}))
}
