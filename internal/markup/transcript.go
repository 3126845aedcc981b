// Package markup renders the conversation as the HTML message list the
// web widget uses, so a copied transcript pastes straight into it.
package markup

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/akira/internal/domain"
	"github.com/hammamikhairi/akira/internal/format"
)

// ClassFor returns the CSS classes of a message element.
func ClassFor(r domain.Role) string {
	switch r {
	case domain.RoleUser:
		return "message user"
	case domain.RoleError:
		return "message bot error"
	default:
		return "message bot"
	}
}

// Message renders one message element. Text is always escaped.
func Message(m domain.Message) string {
	var b strings.Builder
	writeMessage(&b, m)
	return b.String()
}

// Transcript renders every message inside a chat-messages container.
func Transcript(messages []domain.Message) string {
	var b strings.Builder
	b.WriteString(`<div class="chat-messages">` + "\n")
	for _, m := range messages {
		writeMessage(&b, m)
	}
	b.WriteString("</div>\n")
	return b.String()
}

func writeMessage(b *strings.Builder, m domain.Message) {
	fmt.Fprintf(b, `<div class="%s" data-id="%s">`+"\n", ClassFor(m.Role), format.Escape(m.ID))
	b.WriteString(`  <div class="message-content">` + "\n")
	fmt.Fprintf(b, `    <div class="message-text">%s</div>`+"\n", format.Escape(m.Text))
	fmt.Fprintf(b, `    <div class="message-time">%s</div>`+"\n", format.ClockTime(m.Timestamp))
	b.WriteString("  </div>\n</div>\n")
}
