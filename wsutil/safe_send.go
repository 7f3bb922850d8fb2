package wsutil

import "log/slog"

// SafeSend sends data to a client's send channel without panicking if the
// channel is closed. If the channel is full or closed, the message is
// dropped. Panics are recovered and logged.
func SafeSend(ch chan []byte, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("send to closed channel", "tag", "wsutil", "recovered", r)
		}
	}()
	select {
	case ch <- data:
	default:
	}
}
