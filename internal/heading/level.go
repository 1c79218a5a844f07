package heading

import (
	"encoding/json"
	"fmt"
)

// Level is the coarse heading rank. H1 is the most prominent; there is
// nothing below H3.
type Level int

const (
	H1 Level = iota + 1
	H2
	H3
)

func (l Level) String() string {
	switch l {
	case H1:
		return "H1"
	case H2:
		return "H2"
	case H3:
		return "H3"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// LevelForDepth clamps an outline depth (1 = top) onto H1..H3.
func LevelForDepth(depth int) Level {
	switch {
	case depth <= 1:
		return H1
	case depth == 2:
		return H2
	default:
		return H3
	}
}

func (l Level) MarshalJSON() ([]byte, error) {
	if l < H1 || l > H3 {
		return nil, fmt.Errorf("heading: invalid level %d", int(l))
	}
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "H1":
		*l = H1
	case "H2":
		*l = H2
	case "H3":
		*l = H3
	default:
		return fmt.Errorf("heading: unknown level %q", s)
	}
	return nil
}
