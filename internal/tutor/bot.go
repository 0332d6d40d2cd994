// Package tutor implements the COSMOS chat helper and the home page
// console. Both are static lookups with an artificial reply delay; nothing
// here talks to a server.
package tutor

import (
	"math/rand/v2"
	"strings"
	"time"
)

const (
	BotName  = "COSMOS"
	Greeting = "Hello! I'm COSMOS, your C++ learning companion. How can I help you today?"

	// Delay is how long the bot "types" before replying.
	Delay = 1500 * time.Millisecond
)

var responses = []string{
	"Great question! Let me help you understand that C++ concept.",
	"That's a fundamental topic in C++. Here's what you need to know...",
	"Excellent! This is where C++ really shines. Let me explain...",
	"I can see you're making progress! This concept builds on what you've learned.",
	"Perfect timing for this question! This is crucial for C++ mastery.",
}

var suggestions = []string{
	"Explain pointers",
	"Show me classes",
	"What's next?",
	"Help with syntax",
}

// Bot picks canned replies.
type Bot struct {
	intn func(n int) int
}

// BotOption configures a Bot.
type BotOption func(*Bot)

// WithRand sets the source used to pick replies. intn must return a value
// in [0, n).
func WithRand(intn func(n int) int) BotOption {
	return func(b *Bot) { b.intn = intn }
}

func NewBot(opts ...BotOption) *Bot {
	b := &Bot{intn: rand.IntN}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Respond returns the reply to input. Blank input gets no reply.
func (b *Bot) Respond(input string) string {
	if isBlank(input) {
		return ""
	}
	return responses[b.intn(len(responses))]
}

// Responses returns the reply table.
func Responses() []string {
	return append([]string(nil), responses...)
}

// Suggestions returns the quick prompts offered under the transcript.
func Suggestions() []string {
	return append([]string(nil), suggestions...)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
