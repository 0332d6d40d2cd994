// Package catalog holds the static marketing content: subscription plans,
// feature highlights and the hero section.
package catalog

import (
	"math"

	"github.com/fragmede/cpphub/internal/api"
)

// PlanID identifies a pricing tier. Only free and premium exist as account
// plans; enterprise is sold separately.
type PlanID string

const (
	PlanFree       PlanID = "free"
	PlanPremium    PlanID = "premium"
	PlanEnterprise PlanID = "enterprise"
)

type Plan struct {
	ID          PlanID
	Name        string
	Description string
	Monthly     int
	Annual      int
	Features    []string
	Popular     bool
}

// Price returns the price for the billing period in whole dollars.
func (p Plan) Price(annual bool) int {
	if annual {
		return p.Annual
	}
	return p.Monthly
}

// MonthlyEquivalent is the annual price spread over twelve months, rounded
// to the nearest dollar.
func (p Plan) MonthlyEquivalent() int {
	return int(math.Round(float64(p.Annual) / 12))
}

// IsFree reports whether the plan costs nothing.
func (p Plan) IsFree() bool {
	return p.Monthly == 0 && p.Annual == 0
}

// AccountPlan maps the tier to the plan stored on a user account. ok is
// false for tiers that cannot be chosen at registration.
func (p Plan) AccountPlan() (api.Plan, bool) {
	switch p.ID {
	case PlanFree:
		return api.PlanFree, true
	case PlanPremium:
		return api.PlanPremium, true
	default:
		return "", false
	}
}

// CallToAction is the label of the plan's signup button.
func (p Plan) CallToAction() string {
	if p.ID == PlanFree {
		return "Start Free"
	}
	return "Get Started"
}

// AnnualSavingsPercent is the discount shown next to the annual toggle.
const AnnualSavingsPercent = 17

var plans = []Plan{
	{
		ID:          PlanFree,
		Name:        "Free Explorer",
		Description: "Perfect for getting started with C++ fundamentals",
		Features: []string{
			"5 Free Courses",
			"Basic C++ Tutorials",
			"Community Access",
			"Code Playground",
			"Basic Support",
		},
	},
	{
		ID:          PlanPremium,
		Name:        "Premium Coder",
		Description: "Accelerate your C++ mastery with AI-powered learning",
		Monthly:     29,
		Annual:      290,
		Features: []string{
			"Unlimited Courses",
			"AI Tutor COSMOS",
			"Advanced Projects",
			"Code Review & Feedback",
			"Priority Support",
			"Certificates",
			"Live Coding Sessions",
			"Interview Preparation",
		},
		Popular: true,
	},
	{
		ID:          PlanEnterprise,
		Name:        "Enterprise Pro",
		Description: "Complete solution for teams and organizations",
		Monthly:     99,
		Annual:      990,
		Features: []string{
			"Everything in Premium",
			"Team Management",
			"Custom Learning Paths",
			"Advanced Analytics",
			"White-label Options",
			"Dedicated Support",
			"API Access",
			"Custom Integrations",
		},
	},
}

// Plans returns every pricing tier in display order.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

// PlanByID looks up a tier.
func PlanByID(id PlanID) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// RegisterPlans returns the tiers selectable when creating an account.
func RegisterPlans() []Plan {
	var out []Plan
	for _, p := range plans {
		if _, ok := p.AccountPlan(); ok {
			out = append(out, p)
		}
	}
	return out
}
