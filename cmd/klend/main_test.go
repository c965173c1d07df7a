package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/logic/submitter"
)

func TestCommandsRegistered(t *testing.T) {
	want := []string{
		"init-market", "init-reserve", "init-user-metadata", "init-obligation",
		"deposit", "deposit-collateral", "add-collateral", "remove-collateral", "withdraw", "borrow", "repay", "redeem", "liquidate",
		"refresh-reserve", "refresh-obligation",
		"show-reserve", "show-obligation", "show-market", "status", "estimate-fee",
	}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestParsePubkey(t *testing.T) {
	pk, err := parsePubkey("market", consts.KlendProgramStr)
	require.NoError(t, err)
	assert.Equal(t, consts.KlendProgram, pk)

	_, err = parsePubkey("market", "")
	assert.ErrorContains(t, err, "--market is required")

	_, err = parsePubkey("market", "not-base58!")
	assert.Error(t, err)
}

func TestParseOptionalPubkey(t *testing.T) {
	opt, err := parseOptionalPubkey("referrer", "")
	require.NoError(t, err)
	assert.False(t, opt.IsPresent())

	opt, err = parseOptionalPubkey("referrer", consts.TokenProgramStr)
	require.NoError(t, err)
	got, ok := opt.Get()
	assert.True(t, ok)
	assert.Equal(t, consts.TokenProgram, got)
}

func TestParsePubkeyArgs(t *testing.T) {
	out, err := parsePubkeyArgs([]string{consts.KlendProgramStr, consts.TokenProgramStr})
	require.NoError(t, err)
	assert.Equal(t, consts.KlendProgram, out[0])
	assert.Equal(t, consts.TokenProgram, out[1])

	_, err = parsePubkeyArgs([]string{"0OIl"})
	assert.Error(t, err)
}

func TestParseLtvCheck(t *testing.T) {
	v, err := parseLtvCheck("max-ltv")
	require.NoError(t, err)
	assert.Equal(t, instruction.LtvMaxWithdrawalCheckMaxLtv, v)

	v, err = parseLtvCheck("liquidation-threshold")
	require.NoError(t, err)
	assert.Equal(t, instruction.LtvMaxWithdrawalCheckLiquidationThreshold, v)

	_, err = parseLtvCheck("none")
	assert.Error(t, err)
}

func TestIsNil(t *testing.T) {
	var res *submitter.Result
	assert.True(t, isNil(nil))
	assert.True(t, isNil(res))
	assert.True(t, isNil([]string(nil)))
	assert.False(t, isNil(&submitter.Result{Name: "borrow"}))
	assert.False(t, isNil([]string{}))
}
