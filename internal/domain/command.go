package domain

// CommandType classifies a line typed into the input box.
type CommandType int

const (
	CommandChat CommandType = iota // plain message for the backend
	CommandHelp
	CommandClear
	CommandCopy
	CommandSpeak // payload "on" or "off"
	CommandStop
	CommandPause
	CommandResume
	CommandQuit
	CommandUnknown // looked like a slash command but matched nothing
)

// String returns a human-readable command type.
func (c CommandType) String() string {
	switch c {
	case CommandChat:
		return "chat"
	case CommandHelp:
		return "help"
	case CommandClear:
		return "clear"
	case CommandCopy:
		return "copy"
	case CommandSpeak:
		return "speak"
	case CommandStop:
		return "stop"
	case CommandPause:
		return "pause"
	case CommandResume:
		return "resume"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command is the parsed form of an input line.
type Command struct {
	Type    CommandType
	Payload string
}
