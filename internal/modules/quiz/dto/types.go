package dto

type StartInput struct {
	ItemID string `json:"item_id"`
}

type AnswerInput struct {
	SessionID string `json:"-"`
	Option    int    `json:"option"`
}

type QuestionOutput struct {
	Index   int      `json:"index"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type FeedbackOutput struct {
	Selected     int    `json:"selected"`
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correct_index"`
	Explanation  string `json:"explanation,omitempty"`
}

type SessionOutput struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	ItemTitle string          `json:"item_title"`
	State     string          `json:"state"`
	Round     int             `json:"round"`
	Position  int             `json:"position"`
	Remaining int             `json:"remaining"`
	Total     int             `json:"total"`
	Missed    []int           `json:"missed"`
	Question  *QuestionOutput `json:"question,omitempty"`
	Feedback  *FeedbackOutput `json:"feedback,omitempty"`
}
