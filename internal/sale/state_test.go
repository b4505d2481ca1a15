package sale

import (
	"testing"

	"github.com/Mohsinsiddi/stewsale/internal/chain"
	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from   State
		action action
		to     State
		reason string
	}{
		{NotStarted, startAction, Active, ""},
		{NotStarted, pauseAction, NotStarted, ReasonNotActive},
		{NotStarted, unpauseAction, NotStarted, ReasonNotPaused},
		{NotStarted, endAction, Ended, ""},
		{Active, startAction, Active, ReasonAlreadyStarted},
		{Active, pauseAction, Paused, ""},
		{Active, unpauseAction, Active, ReasonNotPaused},
		{Active, endAction, Ended, ""},
		{Paused, startAction, Paused, ReasonAlreadyStarted},
		{Paused, pauseAction, Paused, ReasonNotActive},
		{Paused, unpauseAction, Active, ""},
		{Paused, endAction, Ended, ""},
		{Ended, startAction, Ended, ReasonSaleEnded},
		{Ended, pauseAction, Ended, ReasonSaleEnded},
		{Ended, unpauseAction, Ended, ReasonSaleEnded},
		{Ended, endAction, Ended, ReasonSaleEnded},
	}
	for _, tt := range tests {
		to, err := transition(tt.from, tt.action)
		assert.Equal(t, tt.to, to, "%s action %d", tt.from, tt.action)
		if tt.reason == "" {
			assert.NoError(t, err)
			continue
		}
		reason, ok := chain.RevertReason(err)
		assert.True(t, ok)
		assert.Equal(t, tt.reason, reason, "%s action %d", tt.from, tt.action)
	}
}

func TestBuyable(t *testing.T) {
	assert.NoError(t, buyable(Active))
	for s, want := range map[State]string{
		NotStarted: ReasonNotStarted,
		Paused:     ReasonPaused,
		Ended:      ReasonSaleEnded,
	} {
		reason, ok := chain.RevertReason(buyable(s))
		assert.True(t, ok)
		assert.Equal(t, want, reason, s.String())
	}
}

func TestPhase(t *testing.T) {
	assert.Equal(t, Public, Presale.Toggle())
	assert.Equal(t, Presale, Public.Toggle())
	assert.Equal(t, "presale", Presale.String())
	assert.Equal(t, "public", Public.String())
	assert.Equal(t, 0, rate(Presale).Cmp(PresaleRate))
	assert.Equal(t, 0, rate(Public).Cmp(PublicRate))

	r := rate(Public)
	r.SetInt64(99)
	assert.Equal(t, int64(12), PublicRate.Int64(), "rate returns a copy")
}
