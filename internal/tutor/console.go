package tutor

import (
	"strings"
	"time"
)

const (
	ConsolePrompt  = "$"
	ConsoleSpeaker = "C++_HUB_CLI:"

	ConsoleWelcome  = "Welcome to C++ Hub CLI. Type '<span class='hl'>help</span>' to get started."
	CommandNotFound = "Command not found. Type '<span class='hl'>help</span>' for available commands."

	// ConsoleDelay is how long the console waits before answering.
	ConsoleDelay = 500 * time.Millisecond
)

var commands = map[string]string{
	"help": "Available commands: <span class='hl'>features</span>, <span class='hl'>speed</span>, " +
		"<span class='hl'>salary</span>, <span class='hl'>magic</span>, <span class='hl'>future</span>, " +
		"<span class='hl'>enroll</span>.",
	"features": "C++ Hub boasts AI-powered personalization and expert mentorship, designed for your success!",
	"speed":    "Learn 3x faster, achieve mastery sooner, only at C++ Hub!",
	"salary":   "Our graduates average a 150% salary boost within 12 months. C++ Hub delivers real career results!",
	"magic":    "It's not magic, it's C++ Hub's revolutionary curriculum and supportive community!",
	"future":   "Code your future with C++ Hub's cutting-edge courses and industry-aligned skills.",
	"enroll":   "Ready to transform your career? C++ Hub is waiting to welcome you!",
}

// Run answers a console command. Commands are matched case-insensitively
// after trimming. ok is false for blank input, which produces no output.
func Run(input string) (reply string, ok bool) {
	cmd := strings.ToLower(strings.TrimSpace(input))
	if cmd == "" {
		return "", false
	}
	if r, found := commands[cmd]; found {
		return r, true
	}
	return CommandNotFound, true
}

// Console keeps the console transcript. Lines carry span markup for render.
type Console struct {
	lines []string
}

func NewConsole() *Console {
	return &Console{lines: []string{ConsoleWelcome}}
}

// Echo records the command as typed and returns its reply, to be appended
// with Answer after ConsoleDelay. ok is false for blank input.
func (c *Console) Echo(input string) (reply string, ok bool) {
	reply, ok = Run(input)
	if !ok {
		return "", false
	}
	c.lines = append(c.lines, "<span class='hl'>"+ConsolePrompt+"</span> "+escape(input))
	return reply, true
}

// Answer appends a reply line.
func (c *Console) Answer(reply string) {
	c.lines = append(c.lines, ConsoleSpeaker+" "+reply)
}

// Help echoes and answers "help" immediately.
func (c *Console) Help() {
	c.lines = append(c.lines, "<span class='hl'>"+ConsolePrompt+"</span> help")
	c.Answer(commands["help"])
}

// Lines returns the transcript, oldest first.
func (c *Console) Lines() []string {
	return append([]string(nil), c.lines...)
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return escaper.Replace(s)
}
