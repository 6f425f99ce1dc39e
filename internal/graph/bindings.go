package graph

import (
	"fmt"
	"strings"
)

// Modifier is a bit set of keyboard modifiers held during a gesture.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModShift
	ModAlt
	ModMeta
)

var modifierNames = map[string]Modifier{
	"ctrl":  ModCtrl,
	"shift": ModShift,
	"alt":   ModAlt,
	"meta":  ModMeta,
}

func ParseModifier(s string) (Modifier, error) {
	m, ok := modifierNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown modifier %q", s)
	}
	return m, nil
}

// ParseModifiers ORs together every named modifier.
func ParseModifiers(names []string) (Modifier, error) {
	var out Modifier
	for _, n := range names {
		m, err := ParseModifier(n)
		if err != nil {
			return 0, err
		}
		out |= m
	}
	return out, nil
}

type Intent int

const (
	IntentNone Intent = iota
	IntentPan
	IntentZoomDrag
)

func (i Intent) String() string {
	switch i {
	case IntentPan:
		return "pan"
	case IntentZoomDrag:
		return "zoom_drag"
	default:
		return "none"
	}
}

// Bindings maps drag gestures to modifiers. Pan and ZoomDrag must be
// disjoint so a drag resolves to at most one behaviour.
type Bindings struct {
	Pan      Modifier
	ZoomDrag Modifier
}

func DefaultBindings() Bindings {
	return Bindings{Pan: ModCtrl, ZoomDrag: ModShift}
}

func (b Bindings) Validate() error {
	if b.Pan == 0 || b.ZoomDrag == 0 {
		return fmt.Errorf("pan and zoom-drag modifiers are both required")
	}
	if b.Pan&b.ZoomDrag != 0 {
		return fmt.Errorf("pan and zoom-drag modifiers overlap")
	}
	return nil
}

// Resolve picks the drag intent for the modifiers held at gesture start.
// Holding both bindings is ambiguous and resolves to IntentNone.
func (b Bindings) Resolve(held Modifier) Intent {
	pan := b.Pan != 0 && held&b.Pan == b.Pan
	zoom := b.ZoomDrag != 0 && held&b.ZoomDrag == b.ZoomDrag
	switch {
	case pan && zoom:
		return IntentNone
	case pan:
		return IntentPan
	case zoom:
		return IntentZoomDrag
	default:
		return IntentNone
	}
}
