package component

// Key is a physical key code such as "KeyW" or "ArrowUp".
type Key string

const (
	KeyW          Key = "KeyW"
	KeyA          Key = "KeyA"
	KeyS          Key = "KeyS"
	KeyD          Key = "KeyD"
	KeyQ          Key = "KeyQ"
	KeyE          Key = "KeyE"
	KeySpace      Key = "Space"
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeyEscape     Key = "Escape"
)

// KeySet holds the keys currently held down.
type KeySet map[Key]struct{}

func (s KeySet) Press(k Key) {
	s[k] = struct{}{}
}

func (s KeySet) Release(k Key) {
	delete(s, k)
}

func (s KeySet) Held(k Key) bool {
	_, ok := s[k]
	return ok
}

// Any reports whether at least one of keys is held.
func (s KeySet) Any(keys []Key) bool {
	for _, k := range keys {
		if s.Held(k) {
			return true
		}
	}
	return false
}

func (s KeySet) Clear() {
	for k := range s {
		delete(s, k)
	}
}

// InputState is the controller-owned input snapshot. Key events mutate it
// between frames; systems only read Keys during the frame.
type InputState struct {
	Keys          KeySet
	Clicks        int
	LookX         float64
	LookY         float64
	PointerLocked bool
}

func NewInputState() *InputState {
	return &InputState{Keys: KeySet{}}
}

var InputComponent = NewComponent[InputState]()

// Bindings maps movement intents to keys.
type Bindings struct {
	Forward  []Key
	Backward []Key
	Left     []Key
	Right    []Key
	Up       []Key
	Down     []Key
	Jump     []Key
}

var DefaultBindings = Bindings{
	Forward:  []Key{KeyW, KeyArrowUp},
	Backward: []Key{KeyS, KeyArrowDown},
	Left:     []Key{KeyA, KeyArrowLeft},
	Right:    []Key{KeyD, KeyArrowRight},
	Up:       []Key{KeyE, KeySpace},
	Down:     []Key{KeyQ},
	Jump:     []Key{KeySpace},
}
