package store

// Change notification: interactive frontends subscribe for a ping after
// every state transition and re-render from a fresh snapshot. Listeners
// receive an empty struct; the payload is always the snapshot, never the
// ping itself.

// Subscribe returns a channel that receives a ping when state changes.
// The caller must Unsubscribe when done to avoid leaking the listener.
func (s *Store) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	s.listenerMu.Lock()
	s.listeners[ch] = struct{}{}
	s.listenerMu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (s *Store) Unsubscribe(ch chan struct{}) {
	s.listenerMu.Lock()
	delete(s.listeners, ch)
	s.listenerMu.Unlock()
	close(ch)
}

// broadcast pings all listeners. Non-blocking: a listener with a pending
// ping will re-read the latest snapshot anyway.
func (s *Store) broadcast() {
	s.listenerMu.RLock()
	defer s.listenerMu.RUnlock()
	for ch := range s.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
