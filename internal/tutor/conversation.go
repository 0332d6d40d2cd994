package tutor

import "time"

type Message struct {
	ID       int
	Text     string
	FromUser bool
	At       time.Time
}

// Conversation is a chat transcript. It starts with the greeting.
type Conversation struct {
	messages []Message
	nextID   int
	now      func() time.Time
	typing   bool
}

func NewConversation() *Conversation {
	return newConversation(time.Now)
}

func newConversation(now func() time.Time) *Conversation {
	c := &Conversation{now: now, nextID: 1}
	c.add(Greeting, false)
	return c
}

func (c *Conversation) add(text string, fromUser bool) Message {
	m := Message{ID: c.nextID, Text: text, FromUser: fromUser, At: c.now()}
	c.nextID++
	c.messages = append(c.messages, m)
	return m
}

// Send records a user message and marks the bot as typing. Blank text is
// ignored and reported with ok false.
func (c *Conversation) Send(text string) (Message, bool) {
	if isBlank(text) {
		return Message{}, false
	}
	m := c.add(text, true)
	c.typing = true
	return m, true
}

// Reply records a bot message and clears the typing indicator.
func (c *Conversation) Reply(text string) Message {
	c.typing = false
	return c.add(text, false)
}

// Typing reports whether a reply is pending.
func (c *Conversation) Typing() bool {
	return c.typing
}

// Messages returns the transcript, oldest first.
func (c *Conversation) Messages() []Message {
	return append([]Message(nil), c.messages...)
}
