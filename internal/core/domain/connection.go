package domain

// ConnStatus is the wallet connection status.
type ConnStatus string

const (
	ConnDisconnected ConnStatus = "disconnected"
	ConnConnecting   ConnStatus = "connecting"
	ConnConnected    ConnStatus = "connected"
)

// ConnectionState is owned by the wallet session; everyone else reads it.
type ConnectionState struct {
	Status    ConnStatus
	Address   string
	Connector string
}

// Connected reports whether an account is available for submission.
func (s ConnectionState) Connected() bool {
	return s.Status == ConnConnected && s.Address != ""
}
