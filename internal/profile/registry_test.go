package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProfiles = `
profiles:
  balanced:
    description: default weights
    treasury_impact_weight: 0.3
    community_alignment_weight: 0.25
    technical_feasibility_weight: 0.25
    risk_assessment_weight: 0.2
    min_score_to_support: 0.6
    max_treasury_spend_pct: 0.1
  conservative:
    treasury_impact_weight: 0.35
    community_alignment_weight: 0.15
    technical_feasibility_weight: 0.2
    risk_assessment_weight: 0.3
    min_score_to_support: 0.7
`

func writeProfiles(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRegistry_Resolve(t *testing.T) {
	reg, err := NewRegistry(writeProfiles(t, testProfiles))
	require.NoError(t, err)

	m, err := reg.Resolve("conservative")
	require.NoError(t, err)
	assert.InDelta(t, 0.35, m.TreasuryImpactWeight, 1e-9)
	assert.InDelta(t, 0.7, m.MinScoreToSupport, 1e-9)

	snap := reg.Snapshot()
	assert.Len(t, snap.Presets, 2)
	assert.Equal(t, "balanced", snap.Presets["balanced"].Name)
}

func TestRegistry_ResolveUnknownListsAvailable(t *testing.T) {
	reg, err := NewRegistry(writeProfiles(t, testProfiles))
	require.NoError(t, err)

	_, err = reg.Resolve("aggressive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "balanced, conservative")
}

func TestRegistry_RejectsInvalidPreset(t *testing.T) {
	_, err := NewRegistry(writeProfiles(t, `
profiles:
  broken:
    treasury_impact_weight: 0.5
    min_score_to_support: 0.2
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_score_to_support")
}

func TestRegistry_RejectsEmptyFile(t *testing.T) {
	_, err := NewRegistry(writeProfiles(t, "profiles: {}\n"))
	require.Error(t, err)
}

func TestRegistry_SnapshotIsACopy(t *testing.T) {
	reg, err := NewRegistry(writeProfiles(t, testProfiles))
	require.NoError(t, err)

	snap := reg.Snapshot()
	snap.Presets["balanced"] = Preset{Name: "tampered"}
	assert.Equal(t, "balanced", reg.Snapshot().Presets["balanced"].Name)
}
