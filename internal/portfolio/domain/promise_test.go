package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promisesWith(cumplidas, incumplidas, pendientes int) []PaymentPromise {
	var out []PaymentPromise
	add := func(n int, s PromiseStatus) {
		for i := 0; i < n; i++ {
			out = append(out, PaymentPromise{Status: s})
		}
	}
	add(cumplidas, PromiseStatusCumplida)
	add(incumplidas, PromiseStatusIncumplida)
	add(pendientes, PromiseStatusPendiente)
	return out
}

func TestCalcPromiseCompliance(t *testing.T) {
	pc := CalcPromiseCompliance(promisesWith(2, 1, 3))

	assert.Equal(t, 6, pc.Total)
	assert.Equal(t, 2, pc.Cumplidas)
	assert.Equal(t, 1, pc.Incumplidas)
	assert.Equal(t, 3, pc.Pendientes)
	assert.InDelta(t, 66.67, pc.ComplianceRate, 0.01)
}

func TestCalcPromiseCompliance_NoneResolved(t *testing.T) {
	pc := CalcPromiseCompliance(promisesWith(0, 0, 5))
	assert.Equal(t, float64(0), pc.ComplianceRate)
}

func TestCalcPromiseCompliance_Empty(t *testing.T) {
	pc := CalcPromiseCompliance(nil)
	assert.Equal(t, 0, pc.Total)
	assert.Equal(t, float64(0), pc.ComplianceRate)
}

func TestPromise_Resolve(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("pendiente to cumplida", func(t *testing.T) {
		p := PaymentPromise{Status: PromiseStatusPendiente}
		require.NoError(t, p.Resolve(PromiseStatusCumplida, now))
		assert.Equal(t, PromiseStatusCumplida, p.Status)
		require.NotNil(t, p.ResolvedAt)
		assert.Equal(t, now, *p.ResolvedAt)
	})

	t.Run("terminal state is final", func(t *testing.T) {
		p := PaymentPromise{Status: PromiseStatusCumplida}
		err := p.Resolve(PromiseStatusIncumplida, now)
		assert.ErrorIs(t, err, ErrPromiseAlreadyResolved)
	})

	t.Run("cannot resolve to pendiente", func(t *testing.T) {
		p := PaymentPromise{Status: PromiseStatusPendiente}
		err := p.Resolve(PromiseStatusPendiente, now)
		assert.ErrorIs(t, err, ErrInvalidPromiseStatus)
	})
}
