// Package mapping provides the mapping table schema, its CSV and YAML
// loaders, rule grouping helpers and structural validation.
//
// The mapping table is the declarative rule set that drives every
// output column. Each row names where a column comes from and how it is
// derived:
//
//	InputConfigKey,InputColumn,TargetACGFile,TargetACGColumn,TransformationFunction,SourceLabel
//	Patient_Details,PatientID,patient_data,patient_id,,
//	Patient_Details,GenderCode,patient_data,sex,transform_sex,
//	Care_History,Code,medical_services,dx_cd_1,,care_history
//	Care_History,,medical_services,dx_version_1,determine_dx_version,care_history
//
// # Columns
//
//   - InputConfigKey: the input dataset the value is read from (required)
//   - InputColumn: the column within that dataset; blank means "no direct source" (required header)
//   - TargetACGFile: patient_data, medical_services or pharmacy_data (required)
//   - TargetACGColumn: the output column (required)
//   - TransformationFunction: a registered transform name; blank means direct copy (optional)
//   - SourceLabel: groups rules of a multi-source file; every label reads exactly one dataset (optional)
//
// # YAML form
//
// The same table may be written as YAML:
//
//	rules:
//	  - input_config_key: Patient_Details
//	    input_column: GenderCode
//	    target_file: patient_data
//	    target_column: sex
//	    transform: transform_sex
//
// # Validation
//
// Loading only checks the table shape. Whether datasets, columns and
// transforms exist is checked when rules are resolved, so one bad rule
// degrades a single column instead of the whole run. Validate reports the
// problems that can be seen from the rules alone.
package mapping
