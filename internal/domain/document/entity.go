package document

import "time"

type DocumentType string

const (
	TypeContract          DocumentType = "contract"
	TypeIDCard            DocumentType = "id_card"
	TypeCertificate       DocumentType = "certificate"
	TypeHealthCertificate DocumentType = "health_certificate"
	TypeWorkPermit        DocumentType = "work_permit"
	TypeOther             DocumentType = "other"
)

var DocumentTypes = []string{
	string(TypeContract),
	string(TypeIDCard),
	string(TypeCertificate),
	string(TypeHealthCertificate),
	string(TypeWorkPermit),
	string(TypeOther),
}

type StaffDocument struct {
	ID           string
	BusinessID   string
	StaffID      string
	DocumentType DocumentType
	Name         string
	FilePath     string
	FileSize     int64
	MimeType     string
	ExpiryDate   *time.Time
	UploadedBy   *string
	CreatedAt    time.Time

	// Joined
	StaffName string
}
