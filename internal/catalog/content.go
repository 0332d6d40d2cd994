package catalog

// Highlight is a titled blurb on the home page.
type Highlight struct {
	Title       string
	Description string
}

// Stat is a headline figure under the hero.
type Stat struct {
	Value string
	Label string
}

type Hero struct {
	Badge    string
	Headline []string
	Subtitle string
	CTA      string
	Stats    []Stat
}

var hero = Hero{
	Badge:    "Next-Gen C++ Learning",
	Headline: []string{"Master", "C++ Programming", "Like Never Before"},
	Subtitle: "Experience the future of programming education with our " +
		"<span class='hl'>AI-powered interactive platform.</span><br>" +
		"From beginner to expert, unlock your coding potential.",
	CTA: "Start Learning Now",
	Stats: []Stat{
		{Value: "50K+", Label: "Students"},
		{Value: "1000+", Label: "Courses"},
		{Value: "98%", Label: "Success Rate"},
	},
}

// HeroSection returns the home page banner.
func HeroSection() Hero {
	h := hero
	h.Headline = append([]string(nil), hero.Headline...)
	h.Stats = append([]Stat(nil), hero.Stats...)
	return h
}

// KeyBenefits are the selling points next to the console.
func KeyBenefits() []Highlight {
	return []Highlight{
		{Title: "Learn 3x Faster", Description: "AI-powered personalization accelerates your learning journey."},
		{Title: "150% Salary Boost", Description: "Our graduates see average salary increases within 12 months."},
		{Title: "Expert Mentorship", Description: "Direct access to industry professionals and personalized career guidance."},
	}
}

// PlatformFeatures are listed under the pricing cards.
func PlatformFeatures() []Highlight {
	return []Highlight{
		{Title: "AI-Powered Learning", Description: "Personalized curriculum adapted to your learning style"},
		{Title: "Interactive Coding", Description: "Real-time code execution and instant feedback"},
		{Title: "Expert Mentorship", Description: "Direct access to industry professionals"},
		{Title: "Lifetime Access", Description: "Keep your courses forever, even after subscription ends"},
	}
}
