package domain

// EventType enumerates the journey event kinds the analytics backend
// understands.
type EventType string

const (
	EventEntry           EventType = "entry"
	EventExit            EventType = "exit"
	EventCategoryVisit   EventType = "category_visit"
	EventSearch          EventType = "search"
	EventProductView     EventType = "product_view"
	EventCartItemAdded   EventType = "cart_item_added"
	EventCartItemUpdated EventType = "cart_item_updated"
	EventCartItemRemoved EventType = "cart_item_removed"
	EventCartCleared     EventType = "cart_cleared"
	EventPriceUnlock     EventType = "price_unlock"
	EventCheckoutStarted EventType = "checkout_started"
)

// JourneyEvent is one tracked user interaction, augmented with the
// accumulated session context before delivery. Ephemeral: built and sent,
// never persisted.
type JourneyEvent struct {
	Type      EventType      `json:"event"`
	Payload   map[string]any `json:"data"`
	SessionID string         `json:"session_id"`
}

// CartAction tags a cart mutation in CartChanged notifications and journey
// payloads.
type CartAction string

const (
	CartActionAdd    CartAction = "add"
	CartActionUpdate CartAction = "update"
	CartActionRemove CartAction = "remove"
	CartActionClear  CartAction = "clear"
)

// CartChanged is published to subscribers after every persisted cart
// mutation.
type CartChanged struct {
	Count  int            `json:"count"`
	Action CartAction     `json:"action"`
	Detail map[string]any `json:"detail,omitempty"`
}
