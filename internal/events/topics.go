package events

// Topics emitted by the pricing pipeline.
const (
	// TopicOrderPriced fires after an order's summary stage completes.
	TopicOrderPriced = "order.priced"
)
