package audit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Auditor keeps a copy of every raw import payload on disk so failed imports
// can be diagnosed and replayed.
type Auditor struct {
	AuditDir string
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
	}
}

// SaveRaw stores the payload under a UUID4 filename with the format tag as
// the extension and returns the filename.
func (a *Auditor) SaveRaw(format string, payload []byte) (string, error) {
	if err := a.ensureAuditDir(); err != nil {
		return "", fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	filename := fmt.Sprintf("%s.%s", uuid.New().String(), format)
	path := filepath.Join(a.AuditDir, filename)

	if err := os.WriteFile(path, payload, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}

	return filename, nil
}

// ensureAuditDir creates the audit directory if it doesn't exist
func (a *Auditor) ensureAuditDir() error {
	if _, err := os.Stat(a.AuditDir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	return nil
}
