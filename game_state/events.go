package game_state

// Events holds the single elimination subscriber.
type Events struct {
	onHit func(SnakeID, Snake)
}

// OnHit registers the elimination handler, replacing any previous one.
func (e *Events) OnHit(handler func(SnakeID, Snake)) {
	e.onHit = handler
}

// EmitHit hands the removed snake to the handler, if one is registered.
func (e *Events) EmitHit(id SnakeID, snake Snake) {
	if e.onHit != nil {
		e.onHit(id, snake)
	}
}
