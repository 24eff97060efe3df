package game

type SubmitWordRequest struct {
	Word string `json:"word"`
}

type SubmitWordResponse struct {
	Correct bool              `json:"correct"`
	State   GameStateResponse `json:"state"`
}

type SkipWordResponse struct {
	State GameStateResponse `json:"state"`
}

type RestartResponse struct {
	State GameStateResponse `json:"state"`
}

// GameStateResponse 是对外可见的会话快照，不包含答案
type GameStateResponse struct {
	SessionID     string `json:"session_id"`
	PlayerName    string `json:"player_name"`
	Stage         string `json:"stage"`
	ScrambledWord string `json:"scrambled_word"`
	WordCount     int    `json:"word_count"`
	MaxNoOfWords  int    `json:"max_no_of_words"`
	Score         int    `json:"score"`
}

// GameResultResponse 对应一局结束时的结算信息
type GameResultResponse struct {
	SessionID   string `json:"session_id"`
	PlayerName  string `json:"player_name"`
	FinalScore  int    `json:"final_score"`
	WordsPlayed int    `json:"words_played"`
}

type AttachRequest struct {
	Subscriber Subscriber `json:"-"`
}

type DetachRequest struct {
	SubscriberID string `json:"subscriber_id"`
}

type ExitGameResponse struct {
	SessionID  string `json:"session_id"`
	FinalScore int    `json:"final_score"`
}
