package models

// GameMode identifies one of the three STELLAR mini games.
type GameMode string

const (
	ModeExtract    GameMode = "extract"
	ModeTruth      GameMode = "truth"
	ModeScrutinize GameMode = "scrutinize"
)

var gameIDs = map[GameMode]string{
	ModeExtract:    "TEST-01",
	ModeTruth:      "TEST-02",
	ModeScrutinize: "TEST-03",
}

// Valid reports whether m names a known game mode.
func (m GameMode) Valid() bool {
	_, ok := gameIDs[m]
	return ok
}

// GameID returns the platform game identifier questions of this mode are
// submitted under.
func (m GameMode) GameID() string {
	return gameIDs[m]
}

// ChatMessage is one turn of the running model conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CandidateQuestion is a model output that passed format validation and
// awaits teacher review. Passage, Challenge and Answer hold the three
// semicolon-separated fields of the raw output.
type CandidateQuestion struct {
	ID        string   `json:"id"`
	GameMode  GameMode `json:"gameMode"`
	GameID    string   `json:"gameID"`
	Passage   string   `json:"passage"`
	Challenge string   `json:"challenge"`
	Answer    string   `json:"answer"`
}

// GenerationStats summarizes a finished generation run.
type GenerationStats struct {
	Requested int  `json:"requested"`
	Accepted  int  `json:"accepted"`
	Rejected  int  `json:"rejected"`
	Attempts  int  `json:"attempts"`
	Aborted   bool `json:"aborted"`
}
