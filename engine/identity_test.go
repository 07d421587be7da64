package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dungeon-manager/sdk"
)

func TestInit_SetsOwnerAndRunnerAndStartsInGrace(t *testing.T) {
	host := sdk.NewMock("deployer", "tx0")
	InitContract(host)

	require.Equal(t, sdk.Address("deployer"), getOwner(host))
	require.Equal(t, sdk.Address("deployer"), getRunner(host))
	require.Equal(t, PhaseGrace, loadEpoch(host).State)
}

func TestInit_Twice_Aborts(t *testing.T) {
	host := sdk.NewMock("deployer", "tx0")
	InitContract(host)

	defer func() {
		msg, ok := sdk.RecoverAbort(recover())
		require.True(t, ok)
		require.Contains(t, msg, "AlreadyInitialized")
	}()
	InitContract(host)
}

func TestRegisterAgent_RequiresOwner(t *testing.T) {
	r := newTestRig()
	r.as("intruder")
	defer func() {
		msg, ok := sdk.RecoverAbort(recover())
		require.True(t, ok)
		require.Contains(t, msg, CodeNotOwner)
	}()
	RegisterAgent(r.host, "alice")
}

func TestRegisterAndUnregisterAgent(t *testing.T) {
	r := newTestRig()
	r.registerAgents("alice")
	require.True(t, loadAgent(r.host, "alice").Registered)

	r.as(r.owner)
	UnregisterAgent(r.host, "alice")
	require.False(t, loadAgent(r.host, "alice").Registered)
}

func TestSetRunner(t *testing.T) {
	r := newTestRig()
	r.as(r.owner)
	SetRunnerAddr(r.host, "newrunner")
	require.Equal(t, sdk.Address("newrunner"), getRunner(r.host))
}
