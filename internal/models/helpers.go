package models

// titleLimit is the number of leading runes kept when deriving a
// conversation title from its first message.
const titleLimit = 30

// DefaultTitle is the title of a conversation with no messages yet.
const DefaultTitle = "Nová konverzace"

// DeriveTitle computes a conversation title from its message list: the first
// message truncated to titleLimit runes with an ellipsis marker appended when
// truncation occurred.
func DeriveTitle(messages []Message) string {
	if len(messages) == 0 {
		return DefaultTitle
	}
	runes := []rune(messages[0].Content)
	if len(runes) <= titleLimit {
		return messages[0].Content
	}
	return string(runes[:titleLimit]) + "..."
}

// HistoryTail returns at most n trailing messages, excluding typing
// placeholders. Providers use it to bound prompt size.
func HistoryTail(messages []Message, n int) []Message {
	tail := make([]Message, 0, n)
	for i := len(messages) - 1; i >= 0 && len(tail) < n; i-- {
		if messages[i].IsTyping {
			continue
		}
		tail = append(tail, messages[i])
	}
	// reverse back into chronological order
	for i, j := 0, len(tail)-1; i < j; i, j = i+1, j-1 {
		tail[i], tail[j] = tail[j], tail[i]
	}
	return tail
}
