package amqp

import (
	"encoding/json"
	"time"
)

// SyncRequestMessage asks the worker to run one account sync. It carries
// ids only; the worker resolves the account itself so stale messages
// cannot smuggle outdated credentials.
type SyncRequestMessage struct {
	UserID    string    `json:"user_id"`
	AccountID string    `json:"account_id"`
	Timestamp time.Time `json:"timestamp"`
}

// SyncCompletedMessage fans out after a sync pass finished.
type SyncCompletedMessage struct {
	UserID    string    `json:"user_id"`
	AccountID string    `json:"account_id"`
	Imported  int       `json:"imported"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSyncRequestMessage(userID, accountID string) *SyncRequestMessage {
	return &SyncRequestMessage{
		UserID:    userID,
		AccountID: accountID,
		Timestamp: time.Now(),
	}
}

func NewSyncCompletedMessage(userID, accountID string, imported int) *SyncCompletedMessage {
	return &SyncCompletedMessage{
		UserID:    userID,
		AccountID: accountID,
		Imported:  imported,
		Timestamp: time.Now(),
	}
}

func (m *SyncRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func (m *SyncCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SyncRequestMessageFromJSON(data []byte) (*SyncRequestMessage, error) {
	var msg SyncRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
