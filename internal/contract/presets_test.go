package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultContractUnitCenters(t *testing.T) {
	s := DefaultContract(map[string]any{})

	assert.Equal(t, "default_uq", s.Name)
	assert.InDelta(t, 0.90, s.Intervals["confinement_mult"].Lo, 1e-12)
	assert.InDelta(t, 1.10, s.Intervals["confinement_mult"].Hi, 1e-12)
	assert.InDelta(t, 0.80, s.Intervals["lambda_q_mult"].Lo, 1e-12)
	assert.InDelta(t, 1.20, s.Intervals["lambda_q_mult"].Hi, 1e-12)
	assert.InDelta(t, 0.90, s.Intervals["hts_Jc_mult"].Lo, 1e-12)
	assert.InDelta(t, 1.10, s.Intervals["hts_Jc_mult"].Hi, 1e-12)
}

func TestDefaultContractScalesWithBaseMultipliers(t *testing.T) {
	base := map[string]any{
		"confinement_mult": 1.2,
		"lambda_q_mult":    "0.5",
		"hts_Jc_mult":      2,
	}

	s := DefaultContract(base)

	assert.InDelta(t, 0.90*1.2, s.Intervals["confinement_mult"].Lo, 1e-12)
	assert.InDelta(t, 1.10*1.2, s.Intervals["confinement_mult"].Hi, 1e-12)
	assert.InDelta(t, 0.80*0.5, s.Intervals["lambda_q_mult"].Lo, 1e-12)
	assert.InDelta(t, 1.20*0.5, s.Intervals["lambda_q_mult"].Hi, 1e-12)
	assert.InDelta(t, 0.90*2, s.Intervals["hts_Jc_mult"].Lo, 1e-12)
	assert.InDelta(t, 1.10*2, s.Intervals["hts_Jc_mult"].Hi, 1e-12)
}

func TestOptimisticContractShiftsCentersUp(t *testing.T) {
	s := OptimisticContract(map[string]any{})

	assert.Equal(t, "optimistic_uq", s.Name)
	assert.InDelta(t, 0.95*1.08, s.Intervals["confinement_mult"].Lo, 1e-12)
	assert.InDelta(t, 1.05*1.08, s.Intervals["confinement_mult"].Hi, 1e-12)
	assert.InDelta(t, 0.90*1.10, s.Intervals["lambda_q_mult"].Lo, 1e-12)
	assert.InDelta(t, 1.10*1.10, s.Intervals["lambda_q_mult"].Hi, 1e-12)
}

func TestRobustContractWidensIntervals(t *testing.T) {
	def := DefaultContract(map[string]any{})
	rob := RobustContract(map[string]any{})

	assert.Equal(t, "robust_uq", rob.Name)
	for k := range def.Intervals {
		require.Contains(t, rob.Intervals, k)
		assert.Less(t, rob.Intervals[k].Lo, def.Intervals[k].Lo, "%s lower bound should widen", k)
		assert.Greater(t, rob.Intervals[k].Hi, def.Intervals[k].Hi, "%s upper bound should widen", k)
	}
}

func TestPresetsEnumerateUnderDefaultCap(t *testing.T) {
	for _, s := range []*Spec{
		DefaultContract(nil),
		OptimisticContract(nil),
		RobustContract(nil),
	} {
		corners, err := s.Corners()
		require.NoError(t, err)
		assert.Len(t, corners, 8, "%s should span three dimensions", s.Name)
	}
}
