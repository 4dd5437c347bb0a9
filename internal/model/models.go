package model

import "time"

// ModelFile represents one uploaded 3D-model artifact. Instances are created
// at save time and reconstructed read-only by resolution and aggregation.
type ModelFile struct {
	ID             string            `json:"id"`
	FileName       string            `json:"fileName"`
	StoredFileName string            `json:"storedFileName"`
	QuoteID        string            `json:"quoteId"`
	BaseQuoteID    string            `json:"baseQuoteId"`
	Suffix         string            `json:"suffix"`
	OrderNumber    string            `json:"orderNumber,omitempty"`
	FileType       string            `json:"fileType"`
	FileSize       int64             `json:"fileSize"`
	UploadDate     time.Time         `json:"uploadDate"`
	FilePath       string            `json:"filePath"`
	FileURL        string            `json:"fileUrl"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Sidecar is the JSON document stored next to each physical copy of a model
// file. It is the only persisted record of the file's logical identity; the
// sanitized physical filename alone is ambiguous.
type Sidecar struct {
	FileName        string            `json:"fileName"`
	BaseQuoteID     string            `json:"baseQuoteId"`
	QuoteID         string            `json:"quoteId"`
	Suffix          string            `json:"suffix"`
	OrderNumber     string            `json:"orderNumber,omitempty"`
	OrderID         string            `json:"orderId,omitempty"`
	PartName        string            `json:"partName,omitempty"`
	Timestamp       time.Time         `json:"timestamp"`
	FileSize        int64             `json:"fileSize"`
	FileType        string            `json:"fileType"`
	OrderFolderPath string            `json:"orderFolderPath"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// sidecarSuffix is appended to a stored filename to form its sidecar path.
const sidecarSuffix = ".metadata.json"
