package semantics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate_Table(t *testing.T) {
	tests := []struct {
		action   string
		features []string
		leaves   int
		want     Status
		message  string
	}{
		{"slice", []string{FeatureSolid}, 1, StatusAccepted, ""},
		{"slice", []string{FeatureLiquid}, 1, StatusRejected, "slicing requires a solid ingredient"},
		{"slice", nil, 1, StatusRejected, "slicing requires a solid ingredient"},

		{"grind", []string{FeatureSolid}, 1, StatusAccepted, ""},
		{"grind", []string{FeatureLiquid}, 1, StatusRejected, "grinding requires a solid ingredient"},
		{"grind", []string{FeatureSolid, FeaturePowder}, 1, StatusWarning, "already powder; grinding may be unnecessary"},

		{"mix", []string{FeatureSolid}, 2, StatusAccepted, ""},
		{"mix", []string{FeatureSolid}, 1, StatusRejected, "mixing requires ≥2 ingredients; combine them first"},
		{"mix", nil, 0, StatusRejected, "mixing requires ≥2 ingredients; combine them first"},

		{"fry", []string{FeatureOil, FeatureSolid}, 2, StatusAccepted, ""},
		{"fry", []string{FeatureOil, FeaturePowder}, 2, StatusAccepted, ""},
		{"fry", []string{FeatureSolid}, 1, StatusRejected, "frying requires oil"},
		{"fry", []string{FeatureOil}, 1, StatusRejected, "frying requires solid or powder"},
		{"fry", []string{FeatureOil, FeatureSolid, FeatureLiquid}, 3, StatusRejected, "frying should not include liquid"},
		// All three sub-conditions fail; the first check wins.
		{"fry", []string{FeatureLiquid}, 1, StatusRejected, "frying requires oil"},

		{"boil", []string{FeatureLiquid}, 1, StatusAccepted, ""},
		{"boil", []string{FeatureSolid}, 1, StatusRejected, "boiling requires a liquid"},

		{"simmer", []string{FeatureLiquid, FeatureSolid}, 2, StatusAccepted, ""},
		{"simmer", []string{FeatureLiquid}, 1, StatusRejected, "simmering requires both liquid and solid"},
		{"simmer", []string{FeatureSolid}, 1, StatusRejected, "simmering requires both liquid and solid"},

		{"put", nil, 0, StatusAccepted, ""},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("%s/%v/%d", tt.action, tt.features, tt.leaves)
		t.Run(name, func(t *testing.T) {
			v := Evaluate(tt.action, NewFeatureSet(tt.features...), tt.leaves)
			assert.Equal(t, tt.want, v.Status)
			assert.Equal(t, tt.message, v.Message)
		})
	}
}

func TestEvaluate_UnknownActionAccepts(t *testing.T) {
	v := Evaluate("ferment", NewFeatureSet(FeatureLiquid), 1)
	assert.Equal(t, StatusAccepted, v.Status)
	assert.Empty(t, v.Message)
}

func allFeatureSubsets() []FeatureSet {
	sets := make([]FeatureSet, 0, 1<<len(KnownFeatures))
	for mask := 0; mask < 1<<len(KnownFeatures); mask++ {
		s := make(FeatureSet)
		for i, tag := range KnownFeatures {
			if mask&(1<<i) != 0 {
				s[tag] = struct{}{}
			}
		}
		sets = append(sets, s)
	}
	return sets
}

func TestEvaluate_BoilAcceptsIffLiquid(t *testing.T) {
	for _, s := range allFeatureSubsets() {
		v := Evaluate("boil", s, 1)
		assert.Equal(t, s.Has(FeatureLiquid), !v.Rejected(), "features %v", s.Sorted())
	}
}

func TestEvaluate_SimmerAcceptsIffLiquidAndSolid(t *testing.T) {
	for _, s := range allFeatureSubsets() {
		v := Evaluate("simmer", s, 1)
		want := s.Has(FeatureLiquid) && s.Has(FeatureSolid)
		assert.Equal(t, want, !v.Rejected(), "features %v", s.Sorted())
	}
}

func TestEvaluate_MixIgnoresFeatures(t *testing.T) {
	for _, s := range allFeatureSubsets() {
		assert.True(t, Evaluate("mix", s, 1).Rejected(), "features %v", s.Sorted())
		assert.False(t, Evaluate("mix", s, 2).Rejected(), "features %v", s.Sorted())
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	s := NewFeatureSet(FeatureOil, FeatureSolid, FeatureLiquid)
	first := Evaluate("fry", s, 2)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate("fry", s, 2))
	}
}
