package segment

import (
	"fmt"
	"strings"
)

// Mode selects between one standalone post and a reply-chain thread.
type Mode string

const (
	ModeThread Mode = "thread"
	ModeSingle Mode = "single"
)

func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeThread:
		return ModeThread, nil
	case ModeSingle:
		return ModeSingle, nil
	default:
		return "", fmt.Errorf("invalid mode %q (want thread or single)", raw)
	}
}

func (m Mode) String() string { return string(m) }
