package input

import (
	"fmt"
	"strings"

	"github.com/zeusync/gimbal/internal/core/gimbal"
)

// Key is a held (level-triggered) input.
type Key uint8

const (
	KeyLook Key = iota + 1
	KeyRun
	KeyPlanarLock
	KeyForward
	KeyBack
	KeyLeft
	KeyRight
)

var keyNames = map[Key]string{
	KeyLook:       "look",
	KeyRun:        "run",
	KeyPlanarLock: "planar_lock",
	KeyForward:    "forward",
	KeyBack:       "back",
	KeyLeft:       "left",
	KeyRight:      "right",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", uint8(k))
}

func ParseKey(s string) (Key, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range keyNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

func (k Key) MarshalText() ([]byte, error) {
	if _, ok := keyNames[k]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKey, uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k Key) press(in *gimbal.Input) {
	switch k {
	case KeyLook:
		in.Look = true
	case KeyRun:
		in.Run = true
	case KeyPlanarLock:
		in.PlanarLock = true
	case KeyForward:
		in.Forward = true
	case KeyBack:
		in.Back = true
	case KeyLeft:
		in.Left = true
	case KeyRight:
		in.Right = true
	}
}
