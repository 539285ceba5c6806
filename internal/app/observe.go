package app

import (
	"strconv"

	abci "github.com/cometbft/cometbft/abci/types"

	"onchaindice/internal/types"
)

func eventAttr(ev abci.Event, key string) string {
	for _, a := range ev.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

func eventU64(ev abci.Event, key string) float64 {
	n, err := strconv.ParseUint(eventAttr(ev, key), 10, 64)
	if err != nil {
		return 0
	}
	return float64(n)
}

// observeTx feeds metrics and logs from a successful tx's events.
func (a *DiceApp) observeTx(typ string, res *abci.ExecTxResult) {
	a.metrics.Txs.WithLabelValues(typ, "ok").Inc()
	for _, ev := range res.Events {
		switch ev.Type {
		case types.EventTypeBetCommitted:
			a.metrics.BetsCommitted.Inc()
			a.metrics.Staked.Add(eventU64(ev, "stake"))
		case types.EventTypeBetSettled:
			outcome := "loss"
			if eventAttr(ev, "won") == "true" {
				outcome = "win"
			}
			a.metrics.BetsSettled.WithLabelValues(outcome).Inc()
			a.metrics.PaidOut.Add(eventU64(ev, "payout"))
			a.logger.Info("bet settled",
				"player", eventAttr(ev, "player"),
				"roundId", eventAttr(ev, "roundId"),
				"roll", eventAttr(ev, "roll"),
				"outcome", outcome,
				"payout", eventAttr(ev, "payout"),
			)
		case types.EventTypeBetVoided:
			a.metrics.BetsVoided.Inc()
			a.metrics.PaidOut.Add(eventU64(ev, "refund"))
			a.logger.Info("bet voided",
				"player", eventAttr(ev, "player"),
				"roundId", eventAttr(ev, "roundId"),
				"refund", eventAttr(ev, "refund"),
			)
		case types.EventTypeTreasuryWithdrawn:
			a.logger.Info("treasury withdrawal", "to", eventAttr(ev, "to"), "amount", eventAttr(ev, "amount"))
		}
	}
}

func (a *DiceApp) observeState() {
	a.metrics.Height.Set(float64(a.st.Height))
	if tr := a.st.Treasury; tr != nil {
		a.metrics.TreasuryBalance.Set(float64(tr.Balance))
		a.metrics.TreasuryReserved.Set(float64(tr.Reserved))
	}
}
