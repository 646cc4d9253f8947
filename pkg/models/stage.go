package models

import "sort"

// Stage is a named step of a development's workflow that activities are logged against.
type Stage struct {
	ID        int    `json:"id"`
	StageName string `json:"stage_name"`
	StageCode string `json:"stage_code"`
}

// SortStagesByCode orders stages ascending by StageCode (lexicographic).
func SortStagesByCode(stages []Stage) {
	sort.SliceStable(stages, func(i, j int) bool {
		return stages[i].StageCode < stages[j].StageCode
	})
}

// StageFieldConfig declares the dynamic fields of a stage.
// It is replaced wholesale whenever the selected stage changes.
type StageFieldConfig struct {
	StageID          int      `json:"stage_id"`
	StageName        string   `json:"stage_name"`
	StageCode        string   `json:"stage_code"`
	HasDynamicFields bool     `json:"has_dynamic_fields"`
	RequiredFields   []string `json:"required_fields"`
	OptionalFields   []string `json:"optional_fields"`
}

// EmptyStageFieldConfig is the schema used while a stage's configuration is unknown
// or could not be loaded: nothing is required.
func EmptyStageFieldConfig(stageID int) StageFieldConfig {
	return StageFieldConfig{
		StageID:        stageID,
		RequiredFields: []string{},
		OptionalFields: []string{},
	}
}

// Clone returns a copy that does not share field slices with c.
func (c StageFieldConfig) Clone() StageFieldConfig {
	clone := c
	clone.RequiredFields = append([]string{}, c.RequiredFields...)
	clone.OptionalFields = append([]string{}, c.OptionalFields...)

	return clone
}
