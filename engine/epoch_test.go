package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStartEpoch_PinsSkillHashAndFee(t *testing.T) {
	r := newTestRig()
	r.as(r.owner)
	AddSkill(r.host, "fireball", "deals 10 damage", r.now)

	wantHash := computeSkillHash(r.host)
	StartEpoch(r.host, r.now)

	e := loadEpoch(r.host)
	require.Equal(t, PhaseActive, e.State)
	require.EqualValues(t, 1, e.Index)
	require.Equal(t, wantHash, getSkillHash(r.host, 1))
	require.EqualValues(t, DMFeePercent, getDMFeePct(r.host, 1))
}

func TestStartEpoch_BlockedByLiveSessionsBeforeSafetyWindow(t *testing.T) {
	r := newTestRig()
	r.as(r.owner)
	StartEpoch(r.host, r.now) // Grace -> Active, epoch 1

	incActiveSessionCount(r.host)
	EndEpoch(r.host, r.now)

	defer expectAbortCode(t, CodeGracePeriodActive)()
	StartEpoch(r.host, r.now)
}

func TestStartEpoch_SafetyWindowOverridesLiveSessions(t *testing.T) {
	r := newTestRig()
	r.as(r.owner)
	StartEpoch(r.host, r.now)

	incActiveSessionCount(r.host)
	EndEpoch(r.host, r.now)

	r.advance(MaxGracePeriod + 1)
	r.as(r.owner)
	StartEpoch(r.host, r.now) // must not abort despite the live session
	require.Equal(t, PhaseActive, loadEpoch(r.host).State)
}

func TestEndEpoch_RequiresOwner(t *testing.T) {
	r := newTestRig()
	r.as(r.owner)
	StartEpoch(r.host, r.now)

	r.as("someoneElse")
	defer expectAbortCode(t, CodeNotOwner)()
	EndEpoch(r.host, r.now)
}

func TestStartEpoch_WhileAlreadyActive_Aborts(t *testing.T) {
	r := newTestRig()
	r.as(r.owner)
	StartEpoch(r.host, r.now)

	defer expectAbortCode(t, CodeEpochNotGrace)()
	StartEpoch(r.host, r.now)
}
