package assessment

import (
	"math"
)

// defaultTableData is the published normative data the service classifies against.
var defaultTableData = ReferenceTableData{
	WHR: map[Gender]Bands{
		GenderMale:   {0, 0.85, 0.90, 0.95, math.Inf(1)},
		GenderFemale: {0, 0.75, 0.80, 0.86, math.Inf(1)},
	},

	// body fat %, Essential .. Poor
	BodyFat: map[Gender]map[string]Bands{
		GenderMale: {
			"20-29": {5, 10, 15, 20, 25, 30},
			"30-39": {6, 11, 16, 21, 26, 31},
			"40-49": {7, 12, 17, 22, 27, 32},
			"50-59": {8, 13, 18, 23, 28, 33},
			"60-69": {9, 14, 19, 24, 29, 34},
			"70-79": {10, 15, 20, 25, 30, 35},
		},
		GenderFemale: {
			"20-29": {15, 20, 25, 30, 35, 40},
			"30-39": {16, 21, 26, 31, 36, 41},
			"40-49": {17, 22, 27, 32, 37, 42},
			"50-59": {18, 23, 28, 33, 38, 43},
			"60-69": {19, 24, 29, 34, 39, 44},
			"70-79": {20, 25, 30, 35, 40, 45},
		},
	},

	// watts
	ExplosivePower: map[Gender]map[string]Bands{
		GenderMale: {
			"15-19": {4644, 4185, 3858, 3323, 1500},
			"20-29": {5094, 4640, 4297, 3375, 1500},
			"30-39": {4860, 4389, 3967, 3485, 1500},
			"40-49": {4320, 3700, 3242, 2708, 1500},
			"50-59": {4019, 3567, 2937, 2512, 1500},
			"60-69": {3764, 3291, 2843, 2383, 1500},
		},
		GenderFemale: {
			"15-19": {3167, 2795, 2399, 2156, 1000},
			"20-29": {3250, 2804, 2478, 2271, 1000},
			"30-39": {3193, 2550, 2335, 2147, 1000},
			"40-49": {2675, 2288, 2101, 1688, 1000},
			"50-59": {2559, 2161, 1701, 1386, 1000},
			"60-69": {2475, 1717, 1317, 1197, 1000},
		},
	},

	PushUp: map[Gender]map[string]Bands{
		GenderMale: {
			"15-19": {39, 29, 23, 18, 0},
			"20-29": {36, 29, 22, 17, 0},
			"30-39": {30, 22, 17, 12, 0},
			"40-49": {25, 17, 13, 10, 0},
			"50-59": {21, 13, 10, 7, 0},
			"60-69": {18, 11, 8, 5, 0},
		},
		GenderFemale: {
			"15-19": {33, 25, 18, 12, 0},
			"20-29": {30, 21, 15, 10, 0},
			"30-39": {27, 20, 13, 8, 0},
			"40-49": {24, 15, 11, 6, 0},
			"50-59": {21, 13, 7, 5, 0},
			"60-69": {17, 12, 5, 3, 0},
		},
	},

	Squat: map[Gender]map[string]Bands{
		GenderMale: {
			"15-19": {60, 51, 41, 31, 30},
			"20-29": {55, 47, 38, 28, 27},
			"30-39": {50, 42, 34, 25, 24},
			"40-49": {45, 38, 30, 22, 21},
			"50-59": {40, 34, 26, 18, 17},
			"60-69": {35, 30, 22, 15, 14},
		},
		GenderFemale: {
			"15-19": {50, 41, 31, 21, 20},
			"20-29": {45, 37, 28, 19, 18},
			"30-39": {40, 33, 24, 16, 15},
			"40-49": {35, 29, 20, 14, 13},
			"50-59": {30, 25, 18, 12, 11},
			"60-69": {25, 21, 15, 10, 9},
		},
	},

	// seconds, 10th..100th percentile
	Plank: map[Gender]Bands{
		GenderMale:   {30, 45, 60, 75, 90, 105, 120, 150, 180, 210},
		GenderFemale: {20, 35, 45, 60, 75, 90, 105, 120, 150, 180},
	},

	// seconds
	OLS: map[Gender]map[string]StanceThresholds{
		GenderMale: {
			"20-29": {Open: 44, Closed: 17},
			"30-39": {Open: 44, Closed: 17},
			"40-49": {Open: 42, Closed: 12},
			"50-59": {Open: 42, Closed: 9},
			"60-69": {Open: 34, Closed: 5},
		},
		GenderFemale: {
			"20-29": {Open: 45, Closed: 13},
			"30-39": {Open: 45, Closed: 13},
			"40-49": {Open: 43, Closed: 13},
			"50-59": {Open: 41, Closed: 8},
			"60-69": {Open: 31, Closed: 4},
		},
	},

	// cm, no gender dimension
	ToeTouch: map[string]Bands{
		"15-19": {0, 0, 5, 10},
		"20-29": {0, 1, 6, 11},
		"30-39": {0, 2, 7, 12},
		"40-49": {0, 3, 8, 13},
		"50-59": {0, 4, 9, 14},
		"60-69": {0, 5, 10, 15},
	},
}

var defaultTables = mustReferenceTables(defaultTableData)

// DefaultReferenceTables returns the process-wide normative tables.
// They are built once at package init and never mutated.
func DefaultReferenceTables() *ReferenceTables {
	return defaultTables
}

func mustReferenceTables(data ReferenceTableData) *ReferenceTables {
	t, err := NewReferenceTables(data)
	if err != nil {
		panic(err)
	}
	return t
}
