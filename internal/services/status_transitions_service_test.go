package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vernopromo/internal/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.StatusUnverified, models.StatusRegistered, true},
		{models.StatusRegistered, models.StatusBaseFormRefill, true},
		{models.StatusBaseFormRefill, models.StatusDocsRequest, true},
		{models.StatusDocsRequest, models.StatusDocsCheck, true},
		{models.StatusDocsCheck, models.StatusApproved, true},
		{models.StatusDocsCheck, models.StatusRejected, true},
		{models.StatusRejected, models.StatusDocsRequest, true}, // повторная подача

		{models.StatusUnverified, models.StatusDocsCheck, false},
		{models.StatusRegistered, models.StatusApproved, false},
		{models.StatusApproved, models.StatusDocsRequest, false},
		{"NO_SUCH_STATUS", models.StatusRegistered, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestNextMemberStatus(t *testing.T) {
	next, ok := NextMemberStatus(models.StatusRegistered)
	assert.True(t, ok)
	assert.Equal(t, models.StatusBaseFormRefill, next)

	next, ok = NextMemberStatus(models.StatusBaseFormRefill)
	assert.True(t, ok)
	assert.Equal(t, models.StatusDocsRequest, next)

	// конец анкетной воронки
	_, ok = NextMemberStatus(models.StatusDocsCheck)
	assert.False(t, ok)

	_, ok = NextMemberStatus(models.StatusApproved)
	assert.False(t, ok)
}
