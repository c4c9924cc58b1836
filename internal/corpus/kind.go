package corpus

import "fmt"

type Kind int

const (
	KindBitFunnel Kind = iota + 1
	KindMG4J
	KindPEF
)

var kindNames = map[Kind]string{
	KindBitFunnel: "bitfunnel",
	KindMG4J:      "mg4j",
	KindPEF:       "pef",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ManagesThreadSweep reports whether an engine of this kind runs a whole
// thread range in one invocation and lays out per-thread folders itself.
func (k Kind) ManagesThreadSweep() bool {
	return k == KindBitFunnel
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown engine kind %q", s)
}
