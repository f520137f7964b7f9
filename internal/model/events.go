package model

// CallbackType identifies a callback delivered by the host
type CallbackType string

const (
	// Server lifecycle callbacks
	CallbackStatusChanged CallbackType = "status_changed"
	CallbackBeginMatch    CallbackType = "begin_match"
	CallbackEndMatch      CallbackType = "end_match"
	CallbackBeginRound    CallbackType = "begin_round"
	CallbackEndRound      CallbackType = "end_round"

	// Player callbacks
	CallbackPlayerConnect     CallbackType = "player_connect"
	CallbackPlayerDisconnect  CallbackType = "player_disconnect"
	CallbackPlayerFinish      CallbackType = "player_finish"
	CallbackPlayerInfoChanged CallbackType = "player_info_changed"
	CallbackPlayerChat        CallbackType = "player_chat"
	CallbackPromptAnswer      CallbackType = "prompt_answer"
)

// Callback is a single event delivered by the host. Only the fields relevant to
// the callback type are set.
type Callback struct {
	Type        CallbackType
	Status      ServerStatus // status_changed
	Login       string       // player callbacks
	Nickname    string       // player_connect, player_info_changed
	IsSpectator bool         // player_connect, player_info_changed
	Time        int          // player_finish; 0 means the player retired
	Text        string       // player_chat
	IsAdmin     bool         // player_chat, prompt_answer; set by the host when it knows
	PromptID    string       // prompt_answer
	Accepted    bool         // prompt_answer
}
