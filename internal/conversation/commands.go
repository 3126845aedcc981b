package conversation

import (
	"regexp"
	"strings"

	"github.com/hammamikhairi/akira/internal/domain"
	"github.com/hammamikhairi/akira/internal/logger"
)

// CommandParser turns an input line into a Command. Lines that do not
// start with "/" are chat messages; "//" escapes a literal leading slash.
type CommandParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex   *regexp.Regexp
	command domain.CommandType
}

// NewCommandParser creates the slash-command parser.
func NewCommandParser(log *logger.Logger) *CommandParser {
	p := &CommandParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^/(help|h|\?)$`), domain.CommandHelp},
		{regexp.MustCompile(`(?i)^/(clear|cls)$`), domain.CommandClear},
		{regexp.MustCompile(`(?i)^/(copy|yank)$`), domain.CommandCopy},
		{regexp.MustCompile(`(?i)^/(speak|voice)(\s+(on|off))?$`), domain.CommandSpeak},
		{regexp.MustCompile(`(?i)^/(stop|hush)$`), domain.CommandStop},
		{regexp.MustCompile(`(?i)^/pause$`), domain.CommandPause},
		{regexp.MustCompile(`(?i)^/(resume|unpause)$`), domain.CommandResume},
		{regexp.MustCompile(`(?i)^/(quit|exit|q)$`), domain.CommandQuit},
	}
	return p
}

// Parse classifies input. The chat payload is the trimmed line.
func (p *CommandParser) Parse(input string) domain.Command {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return domain.Command{Type: domain.CommandChat, Payload: trimmed}
	}
	if strings.HasPrefix(trimmed, "//") {
		return domain.Command{Type: domain.CommandChat, Payload: trimmed[1:]}
	}

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched command: %s", rule.command)
		if rule.command == domain.CommandSpeak {
			return domain.Command{Type: rule.command, Payload: strings.ToLower(m[3])}
		}
		return domain.Command{Type: rule.command}
	}

	p.log.Debug("unknown command: %q", trimmed)
	return domain.Command{Type: domain.CommandUnknown, Payload: trimmed}
}

// HelpText lists the commands Parse understands.
const HelpText = `Commands:
  /help            show this list
  /clear           clear the conversation
  /copy            copy the transcript (HTML) to the clipboard
  /speak [on|off]  toggle reading replies aloud
  /stop            stop speaking
  /pause, /resume  pause or resume speech
  /quit            exit
Start a message with // to send a literal leading slash.`
