package amqp

import (
	"encoding/json"
	"time"

	"txnetl/internal/etl"
)

// RunCompletedMessage announces that a pipeline run reached the loaded
// state and fresh artifacts exist. Consumers that need the artifacts read
// them from the configured sink; the message only carries run metadata.
type RunCompletedMessage struct {
	RunID        string    `json:"run_id"`
	State        string    `json:"state"`
	Extracted    int       `json:"extracted"`
	Kept         int       `json:"kept"`
	Removed      int       `json:"removed"`
	DailyRows    int       `json:"daily_rows"`
	CategoryRows int       `json:"category_rows"`
	FinishedAt   time.Time `json:"finished_at"`
}

func NewRunCompletedMessage(report etl.RunReport) *RunCompletedMessage {
	return &RunCompletedMessage{
		RunID:        report.RunID,
		State:        string(report.State),
		Extracted:    report.Extracted,
		Kept:         report.Kept,
		Removed:      report.Removed,
		DailyRows:    report.DailyRows,
		CategoryRows: report.CategoryRows,
		FinishedAt:   report.FinishedAt,
	}
}

func (m *RunCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RunCompletedMessageFromJSON(data []byte) (*RunCompletedMessage, error) {
	var msg RunCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
