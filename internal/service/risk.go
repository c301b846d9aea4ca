package service

import (
	"math/rand"

	"docclock-api/internal/model"
)

// RiskPolicy assigns a risk level to an appointment draft at creation time.
// The draft carries everything a real scoring model would need; the stub
// below ignores it.
type RiskPolicy interface {
	Assess(draft *model.Appointment) model.RiskLevel
}

// WeightedRandomRisk is the demo policy: 10% high, 10% medium, 10% low,
// 70% none.
type WeightedRandomRisk struct{}

func (WeightedRandomRisk) Assess(*model.Appointment) model.RiskLevel {
	roll := rand.Float64()
	switch {
	case roll < 0.10:
		return model.RiskHigh
	case roll < 0.20:
		return model.RiskMedium
	case roll < 0.30:
		return model.RiskLow
	default:
		return model.RiskNone
	}
}
