package component

// Interactable describes a clickable object for the HUD.
type Interactable struct {
	ID              string
	InteractionText string
}

var InteractableComponent = NewComponent[Interactable]()

// InteractHandler is the capability the click walk looks for. The nearest
// handler along the parent chain wins.
type InteractHandler struct {
	ID         string
	OnInteract func(id string)
}

var InteractHandlerComponent = NewComponent[InteractHandler]()

// Button is a pressable prop whose click count lives in a state store.
type Button struct {
	ID             string
	Label          string
	UseGlobalState bool
	Script         string
	PressDepth     float64
	PressDuration  float64
	PressRemaining float64
	PendingClicks  int
	Count          int
}

var ButtonComponent = NewComponent[Button]()
