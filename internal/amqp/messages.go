package amqp

import (
	"encoding/json"
	"time"
)

// ExportSyncMessage asks the ledger worker to sync one export-history row.
// It carries only the id and version; the worker loads the full record from
// the database.
type ExportSyncMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExportSyncMessage(id, version int64) *ExportSyncMessage {
	return &ExportSyncMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *ExportSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExportSyncMessageFromJSON(data []byte) (*ExportSyncMessage, error) {
	var msg ExportSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
