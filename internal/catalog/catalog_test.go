package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fragmede/cpphub/internal/api"
)

func TestPlans(t *testing.T) {
	ps := Plans()
	require.Len(t, ps, 3)
	assert.Equal(t, []PlanID{PlanFree, PlanPremium, PlanEnterprise}, []PlanID{ps[0].ID, ps[1].ID, ps[2].ID})

	var popular []PlanID
	for _, p := range ps {
		if p.Popular {
			popular = append(popular, p.ID)
		}
	}
	assert.Equal(t, []PlanID{PlanPremium}, popular)

	ps[0].Name = "mutated"
	assert.Equal(t, "Free Explorer", Plans()[0].Name)
}

func TestPlanPricing(t *testing.T) {
	tests := []struct {
		id           PlanID
		monthly      int
		annual       int
		equivalent   int
		free         bool
		callToAction string
	}{
		{id: PlanFree, free: true, callToAction: "Start Free"},
		{id: PlanPremium, monthly: 29, annual: 290, equivalent: 24, callToAction: "Get Started"},
		{id: PlanEnterprise, monthly: 99, annual: 990, equivalent: 83, callToAction: "Get Started"},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			p, ok := PlanByID(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.monthly, p.Price(false))
			assert.Equal(t, tt.annual, p.Price(true))
			assert.Equal(t, tt.equivalent, p.MonthlyEquivalent())
			assert.Equal(t, tt.free, p.IsFree())
			assert.Equal(t, tt.callToAction, p.CallToAction())
		})
	}
}

func TestPlanByID_Unknown(t *testing.T) {
	_, ok := PlanByID("platinum")
	assert.False(t, ok)
}

func TestRegisterPlans(t *testing.T) {
	ps := RegisterPlans()
	require.Len(t, ps, 2)

	free, ok := ps[0].AccountPlan()
	require.True(t, ok)
	assert.Equal(t, api.PlanFree, free)

	premium, ok := ps[1].AccountPlan()
	require.True(t, ok)
	assert.Equal(t, api.PlanPremium, premium)

	ent, _ := PlanByID(PlanEnterprise)
	_, ok = ent.AccountPlan()
	assert.False(t, ok)
}

func TestContent(t *testing.T) {
	h := HeroSection()
	assert.Equal(t, "Start Learning Now", h.CTA)
	assert.Len(t, h.Stats, 3)
	h.Stats[0].Value = "x"
	assert.Equal(t, "50K+", HeroSection().Stats[0].Value)

	assert.Len(t, KeyBenefits(), 3)
	assert.Len(t, PlatformFeatures(), 4)
}
