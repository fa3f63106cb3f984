package adminauth

// State 登录流程所处阶段
type State int

const (
	StateUnauthenticated State = iota
	StateCodeReceived
	StateTokenExchanged
	StateProfileFetched
	StateAuthorized
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateCodeReceived:
		return "code_received"
	case StateTokenExchanged:
		return "token_exchanged"
	case StateProfileFetched:
		return "profile_fetched"
	case StateAuthorized:
		return "authorized"
	case StateDenied:
		return "denied"
	}
	return "unknown"
}
